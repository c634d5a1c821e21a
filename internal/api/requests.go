// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package api

// Request DTOs carry go-playground/validator tags. Handlers populate them
// from the body or query string, validate, and only then touch the
// pipeline. Event types are deliberately NOT restricted to the known
// enumeration: unknown types classify to safe defaults instead of being
// rejected at the edge.

// IngestEventRequest validates the mutable surface of POST /events.
type IngestEventRequest struct {
	Type          string `validate:"required,max=128"`
	ActorID       string `validate:"omitempty,max=256"`
	SessionID     string `validate:"omitempty,max=256"`
	SourceAddress string `validate:"omitempty,max=256"`
	UserAgent     string `validate:"omitempty,max=1024"`
	Endpoint      string `validate:"omitempty,max=2048"`
	Method        string `validate:"omitempty,oneof=GET HEAD POST PUT PATCH DELETE OPTIONS"`
}

// EventsQueryRequest validates the query parameters of GET /events.
type EventsQueryRequest struct {
	ActorID       string `validate:"omitempty,max=256"`
	SourceAddress string `validate:"omitempty,max=256"`
	Type          string `validate:"omitempty,max=128"`
	Severity      string `validate:"omitempty,oneof=low medium high critical"`
	Minutes       int    `validate:"min=0,max=525600"`
	Limit         int    `validate:"min=0,max=10000"`
}

// ResolveEventRequest is the body of POST /events/{id}/resolve.
type ResolveEventRequest struct {
	ResolvedBy string `json:"resolved_by" validate:"required,min=1,max=256"`
	Notes      string `json:"notes" validate:"omitempty,max=2000"`
}

// AlertsQueryRequest validates the query parameters of GET /alerts.
type AlertsQueryRequest struct {
	Status string `validate:"omitempty,oneof=open acknowledged resolved false_positive"`
}

// AcknowledgeAlertRequest is the body of POST /alerts/{id}/acknowledge.
type AcknowledgeAlertRequest struct {
	AcknowledgedBy string `json:"acknowledged_by" validate:"required,min=1,max=256"`
}

// SilenceAlertRequest is the body of POST /alerts/{id}/silence. The cap is
// one week; silencing longer than that means the alert should be resolved
// as a false positive instead.
type SilenceAlertRequest struct {
	DurationMinutes int `json:"duration_minutes" validate:"required,min=1,max=10080"`
}

// ResolveAlertRequest is the body of POST /alerts/{id}/resolve and
// /alerts/{id}/false-positive.
type ResolveAlertRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

// MetricsSummaryRequest validates the query parameters of
// GET /metrics/summary. Zero hours falls back to the default day window.
type MetricsSummaryRequest struct {
	Hours int `validate:"min=0,max=8760"`
}

// AuditQueryRequest validates the query parameters of GET /audit.
type AuditQueryRequest struct {
	AlertID string `validate:"omitempty,max=128"`
	Action  string `validate:"omitempty,oneof=created acknowledged silenced resolved false_positive"`
	Limit   int    `validate:"min=0,max=10000"`
}
