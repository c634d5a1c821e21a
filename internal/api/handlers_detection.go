// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package api

import "net/http"

// DetectionStatus handles GET /api/v1/detection/status. The snapshot
// covers the registered patterns, engine counters, store stats, dispatch
// backlog, and open alert count.
func (h *Handler) DetectionStatus(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.facade.Status())
}
