// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package models

import "time"

// AlertStatus is the lifecycle state of a SecurityAlert.
//
// Transitions: open -> acknowledged -> resolved | false_positive.
// resolved and false_positive are terminal; terminal alerts reject
// further mutation but are never deleted (audit trail).
type AlertStatus string

const (
	AlertStatusOpen          AlertStatus = "open"
	AlertStatusAcknowledged  AlertStatus = "acknowledged"
	AlertStatusResolved      AlertStatus = "resolved"
	AlertStatusFalsePositive AlertStatus = "false_positive"
)

// Terminal reports whether the status permits no further transitions.
func (s AlertStatus) Terminal() bool {
	return s == AlertStatusResolved || s == AlertStatusFalsePositive
}

// IsValid reports whether the status is one of the known lifecycle states.
func (s AlertStatus) IsValid() bool {
	switch s {
	case AlertStatusOpen, AlertStatusAcknowledged, AlertStatusResolved, AlertStatusFalsePositive:
		return true
	}
	return false
}

// AlertKind categorizes what produced an alert.
type AlertKind string

const (
	AlertKindPatternAnomaly    AlertKind = "pattern_anomaly"
	AlertKindThresholdExceeded AlertKind = "threshold_exceeded"
	AlertKindThreatDetected    AlertKind = "threat_detected"
)

// AlertMetrics aggregates the group of events behind an alert.
type AlertMetrics struct {
	EventCount    int `json:"event_count"`
	WindowSeconds int `json:"window_seconds"`
	AffectedUsers int `json:"affected_users"`
	AffectedIPs   int `json:"affected_ips"`
}

// SecurityAlert is produced by the detection engine when a pattern's
// threshold is met, or created manually by an operator. Alerts are owned by
// the alert registry and mutated only through its transition operations.
type SecurityAlert struct {
	ID             string       `json:"id"`
	Kind           AlertKind    `json:"kind"`
	Severity       Severity     `json:"severity"`
	Pattern        string       `json:"pattern,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	CreatedAt      time.Time    `json:"created_at"`
	EventIDs       []string     `json:"event_ids,omitempty"`
	Metrics        AlertMetrics `json:"metrics"`
	Status         AlertStatus  `json:"status"`
	AcknowledgedBy string       `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time   `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time   `json:"resolved_at,omitempty"`
	Notes          string       `json:"notes,omitempty"`

	// SilencedUntil suppresses notification until the given instant without
	// changing the lifecycle status. Nil means not silenced.
	SilencedUntil *time.Time `json:"silenced_until,omitempty"`
}

// Silenced reports whether the alert's notifications are suppressed at now.
func (a *SecurityAlert) Silenced(now time.Time) bool {
	return a.SilencedUntil != nil && now.Before(*a.SilencedUntil)
}

// Clone returns a deep copy. The registry hands out clones so callers can
// never mutate registry-owned state.
func (a *SecurityAlert) Clone() *SecurityAlert {
	cp := *a
	if a.EventIDs != nil {
		cp.EventIDs = append([]string(nil), a.EventIDs...)
	}
	if a.AcknowledgedAt != nil {
		t := *a.AcknowledgedAt
		cp.AcknowledgedAt = &t
	}
	if a.ResolvedAt != nil {
		t := *a.ResolvedAt
		cp.ResolvedAt = &t
	}
	if a.SilencedUntil != nil {
		t := *a.SilencedUntil
		cp.SilencedUntil = &t
	}
	return &cp
}
