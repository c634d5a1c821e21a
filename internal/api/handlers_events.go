// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/petram44/praesidio/internal/models"
	"github.com/petram44/praesidio/internal/telemetry"
)

// IngestEvent handles POST /api/v1/events.
//
// The body is a security event; id, timestamp, severity, and threat are
// assigned server-side and any caller-supplied values for them are kept
// only for id/timestamp (trusted forwarders replaying history set both).
func (h *Handler) IngestEvent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var event models.SecurityEvent
	if !decodeJSON(w, r, &event) {
		return
	}

	req := IngestEventRequest{
		Type:          string(event.Type),
		ActorID:       event.ActorID,
		SessionID:     event.SessionID,
		SourceAddress: event.SourceAddress,
		UserAgent:     event.UserAgent,
		Endpoint:      event.Endpoint,
		Method:        event.Method,
	}
	if !validateRequest(w, r, &req) {
		return
	}

	stored := h.facade.LogEvent(&event)
	if stored == nil {
		rw.InternalError("event could not be recorded")
		return
	}
	rw.Created(stored)
}

// ListEvents handles GET /api/v1/events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := EventsQueryRequest{
		ActorID:       q.Get("actor_id"),
		SourceAddress: q.Get("source_address"),
		Type:          q.Get("type"),
		Severity:      q.Get("severity"),
		Minutes:       getIntParam(r, "minutes", 0),
		Limit:         getIntParam(r, "limit", 0),
	}
	if !validateRequest(w, r, &req) {
		return
	}

	events := h.facade.GetEvents(telemetry.Filters{
		ActorID:       req.ActorID,
		SourceAddress: req.SourceAddress,
		Type:          models.EventType(req.Type),
		Severity:      models.Severity(req.Severity),
		Minutes:       req.Minutes,
		Limit:         req.Limit,
	})
	NewResponseWriter(w, r).SuccessList(events, len(events))
}

// GetEvent handles GET /api/v1/events/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	event, err := h.facade.GetEvent(chi.URLParam(r, "id"))
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(event)
}

// ResolveEvent handles POST /api/v1/events/{id}/resolve.
func (h *Handler) ResolveEvent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ResolveEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.facade.ResolveEvent(id, req.ResolvedBy, req.Notes); err != nil {
		rw.DomainError(err)
		return
	}

	event, err := h.facade.GetEvent(id)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(event)
}
