// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// Severity is the ordinal impact taxonomy for events and alerts.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRanks orders severities for comparison. Higher is worse.
var severityRanks = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the ordinal position of the severity (low=1 .. critical=4),
// or 0 for unknown values.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// IsValid reports whether the severity is one of the four known levels.
func (s Severity) IsValid() bool {
	_, ok := severityRanks[s]
	return ok
}

// EventType is the closed enumeration of security event types.
// Values use dotted lowercase names grouped by concern.
type EventType string

const (
	EventAuthFailure         EventType = "auth.failure"
	EventAuthSuccess         EventType = "auth.success"
	EventAuthzFailure        EventType = "authz.failure"
	EventSessionHijack       EventType = "session.hijack"
	EventPrivilegeEscalation EventType = "privilege.escalation"
	EventXSSAttempt          EventType = "injection.xss"
	EventSQLInjection        EventType = "injection.sql"
	EventCommandInjection    EventType = "injection.command"
	EventPathTraversal       EventType = "recon.path_traversal"
	EventScanDetected        EventType = "recon.scan"
	EventRateLimitExceeded   EventType = "rate_limit.exceeded"
	EventCSRFViolation       EventType = "csrf.violation"
)

// AllEventTypes returns every known event type. The slice is freshly
// allocated on each call so callers may reorder it.
func AllEventTypes() []EventType {
	return []EventType{
		EventAuthFailure,
		EventAuthSuccess,
		EventAuthzFailure,
		EventSessionHijack,
		EventPrivilegeEscalation,
		EventXSSAttempt,
		EventSQLInjection,
		EventCommandInjection,
		EventPathTraversal,
		EventScanDetected,
		EventRateLimitExceeded,
		EventCSRFViolation,
	}
}

var knownEventTypes = func() map[EventType]struct{} {
	m := make(map[EventType]struct{})
	for _, t := range AllEventTypes() {
		m[t] = struct{}{}
	}
	return m
}()

// IsValid reports whether the event type is part of the closed enumeration.
func (t EventType) IsValid() bool {
	_, ok := knownEventTypes[t]
	return ok
}

// ThreatAssessment scores an event's maliciousness.
type ThreatAssessment struct {
	// Score is a 0-100 estimate derived from the event type plus
	// contextual modifiers (automation, repetition, payload size).
	Score      int      `json:"score"`
	Category   string   `json:"category"`
	Indicators []string `json:"indicators,omitempty"`
}

// RequestContext carries the request-scoped attribution supplied by the
// delivering HTTP layer.
type RequestContext struct {
	SourceAddress string `json:"source_address"`
	UserAgent     string `json:"user_agent,omitempty"`
	Endpoint      string `json:"endpoint,omitempty"`
	Method        string `json:"method,omitempty"`
}

// Resolution records the manual closure of an event.
type Resolution struct {
	ResolvedAt time.Time `json:"resolved_at"`
	ResolvedBy string    `json:"resolved_by"`
	Notes      string    `json:"notes,omitempty"`
}

// SecurityEvent is one ingested security occurrence. Events are immutable
// once created; Severity and Threat are assigned by the classifier.
type SecurityEvent struct {
	ID            string           `json:"id"`
	Type          EventType        `json:"type"`
	Severity      Severity         `json:"severity"`
	Timestamp     time.Time        `json:"timestamp"`
	ActorID       string           `json:"actor_id,omitempty"`
	SessionID     string           `json:"session_id,omitempty"`
	SourceAddress string           `json:"source_address"`
	UserAgent     string           `json:"user_agent,omitempty"`
	Endpoint      string           `json:"endpoint,omitempty"`
	Method        string           `json:"method,omitempty"`
	Details       EventDetails     `json:"-"`
	Threat        ThreatAssessment `json:"threat"`
	Resolution    *Resolution      `json:"resolution,omitempty"`
}

// MarshalJSON wraps the Details union in its kind envelope.
func (e SecurityEvent) MarshalJSON() ([]byte, error) {
	type alias SecurityEvent
	var raw json.RawMessage
	if e.Details != nil {
		b, err := MarshalDetails(e.Details)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(struct {
		alias
		Details json.RawMessage `json:"details,omitempty"`
	}{alias: alias(e), Details: raw})
}

// UnmarshalJSON decodes the Details envelope back into a concrete shape.
// Unknown detail kinds decode to OpaqueDetails rather than failing.
func (e *SecurityEvent) UnmarshalJSON(data []byte) error {
	type alias SecurityEvent
	aux := struct {
		*alias
		Details json.RawMessage `json:"details,omitempty"`
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Details) == 0 || string(aux.Details) == "null" {
		e.Details = nil
		return nil
	}
	d, err := UnmarshalDetails(aux.Details)
	if err != nil {
		return err
	}
	e.Details = d
	return nil
}
