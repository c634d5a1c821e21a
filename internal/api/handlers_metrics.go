// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package api

import "net/http"

// MetricsSummary handles GET /api/v1/metrics/summary. The hours parameter
// selects the trailing window; omitted or zero means the default day.
func (h *Handler) MetricsSummary(w http.ResponseWriter, r *http.Request) {
	req := MetricsSummaryRequest{Hours: getIntParam(r, "hours", 0)}
	if !validateRequest(w, r, &req) {
		return
	}

	NewResponseWriter(w, r).Success(h.facade.GetMetrics(req.Hours))
}
