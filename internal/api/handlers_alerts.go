// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/petram44/praesidio/internal/models"
)

// ListAlerts handles GET /api/v1/alerts. Without a status filter it
// returns the working set: open and acknowledged alerts.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := AlertsQueryRequest{Status: r.URL.Query().Get("status")}
	if !validateRequest(w, r, &req) {
		return
	}

	alerts, err := h.facade.GetAlerts(models.AlertStatus(req.Status))
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.SuccessList(alerts, len(alerts))
}

// GetAlert handles GET /api/v1/alerts/{id}.
func (h *Handler) GetAlert(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	alert, err := h.facade.GetAlert(chi.URLParam(r, "id"))
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(alert)
}

// AcknowledgeAlert handles POST /api/v1/alerts/{id}/acknowledge.
func (h *Handler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req AcknowledgeAlertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	alert, err := h.facade.AcknowledgeAlert(chi.URLParam(r, "id"), req.AcknowledgedBy)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(alert)
}

// SilenceAlert handles POST /api/v1/alerts/{id}/silence.
func (h *Handler) SilenceAlert(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req SilenceAlertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	alert, err := h.facade.SilenceAlert(chi.URLParam(r, "id"), duration)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(alert)
}

// ResolveAlert handles POST /api/v1/alerts/{id}/resolve.
func (h *Handler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	h.closeAlert(w, r, false)
}

// MarkAlertFalsePositive handles POST /api/v1/alerts/{id}/false-positive.
func (h *Handler) MarkAlertFalsePositive(w http.ResponseWriter, r *http.Request) {
	h.closeAlert(w, r, true)
}

func (h *Handler) closeAlert(w http.ResponseWriter, r *http.Request, falsePositive bool) {
	rw := NewResponseWriter(w, r)

	var req ResolveAlertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	var (
		alert *models.SecurityAlert
		err   error
	)
	if falsePositive {
		alert, err = h.facade.MarkAlertFalsePositive(id, req.Notes)
	} else {
		alert, err = h.facade.ResolveAlert(id, req.Notes)
	}
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(alert)
}
