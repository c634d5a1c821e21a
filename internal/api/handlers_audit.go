// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package api

import (
	"net/http"

	"github.com/petram44/praesidio/internal/audit"
)

// AuditTrail handles GET /api/v1/audit. Entries come back newest first,
// optionally narrowed to one alert or one action.
func (h *Handler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.trail == nil {
		rw.ServiceUnavailable("audit trail disabled")
		return
	}

	q := r.URL.Query()
	req := AuditQueryRequest{
		AlertID: q.Get("alert_id"),
		Action:  q.Get("action"),
		Limit:   getIntParam(r, "limit", 0),
	}
	if !validateRequest(w, r, &req) {
		return
	}

	entries := h.trail.Query(audit.Filter{
		AlertID: req.AlertID,
		Action:  audit.Action(req.Action),
		Limit:   req.Limit,
	})
	rw.SuccessList(entries, len(entries))
}
