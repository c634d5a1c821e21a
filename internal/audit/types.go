// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package audit

import "time"

// Action is the alert lifecycle action an entry records.
type Action string

const (
	ActionCreated       Action = "created"
	ActionAcknowledged  Action = "acknowledged"
	ActionSilenced      Action = "silenced"
	ActionResolved      Action = "resolved"
	ActionFalsePositive Action = "false_positive"
)

// Entry is one immutable audit record of an alert lifecycle action.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	AlertID   string    `json:"alert_id"`
	Pattern   string    `json:"pattern,omitempty"`
	Severity  string    `json:"severity"`

	// Actor is who performed the action: an analyst ID for manual
	// transitions, "detection-engine" for created entries.
	Actor string `json:"actor,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// Filter narrows an audit query. Zero values mean "no constraint".
type Filter struct {
	AlertID string `json:"alert_id,omitempty"`
	Action  Action `json:"action,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}
