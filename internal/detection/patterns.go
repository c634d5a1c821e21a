// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package detection

import (
	"fmt"
	"time"

	"github.com/petram44/praesidio/internal/models"
)

// Pattern is one declarative threat detection rule: a count threshold over
// a set of qualifying event types within a sliding time window, grouped by
// source address.
type Pattern struct {
	Name        string             `json:"name"`
	EventTypes  []models.EventType `json:"event_types"`
	Window      time.Duration      `json:"window"`
	Threshold   int                `json:"threshold"`
	Severity    models.Severity    `json:"severity"`
	Kind        models.AlertKind   `json:"kind"`
	Description string             `json:"description"`
}

// Matches reports whether an event type qualifies for this pattern.
func (p Pattern) Matches(t models.EventType) bool {
	for _, candidate := range p.EventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// Validate checks the pattern invariants: positive threshold and window,
// at least one qualifying type, known severity.
func (p Pattern) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("pattern has no name")
	}
	if p.Threshold <= 0 {
		return fmt.Errorf("pattern %q: threshold must be positive", p.Name)
	}
	if p.Window <= 0 {
		return fmt.Errorf("pattern %q: window must be positive", p.Name)
	}
	if len(p.EventTypes) == 0 {
		return fmt.Errorf("pattern %q: no qualifying event types", p.Name)
	}
	if !p.Severity.IsValid() {
		return fmt.Errorf("pattern %q: unknown severity %q", p.Name, p.Severity)
	}
	return nil
}

// BuiltinPatterns returns the static pattern table. The slice and its
// contents are freshly allocated; callers may not share mutations.
func BuiltinPatterns() []Pattern {
	return []Pattern{
		{
			Name:        "Brute Force Attack",
			EventTypes:  []models.EventType{models.EventAuthFailure},
			Window:      5 * time.Minute,
			Threshold:   10,
			Severity:    models.SeverityHigh,
			Kind:        models.AlertKindThresholdExceeded,
			Description: "Rapid authentication failures against one or more accounts",
		},
		{
			Name:        "Account Enumeration",
			EventTypes:  []models.EventType{models.EventAuthFailure},
			Window:      10 * time.Minute,
			Threshold:   50,
			Severity:    models.SeverityMedium,
			Kind:        models.AlertKindThresholdExceeded,
			Description: "Sustained authentication failures suggesting account discovery",
		},
		{
			Name:        "Session Hijacking Pattern",
			EventTypes:  []models.EventType{models.EventSessionHijack},
			Window:      1 * time.Minute,
			Threshold:   3,
			Severity:    models.SeverityCritical,
			Kind:        models.AlertKindThreatDetected,
			Description: "Repeated session hijack attempts",
		},
		{
			Name:       "Injection Attack Pattern",
			EventTypes: []models.EventType{
				models.EventXSSAttempt,
				models.EventSQLInjection,
				models.EventCommandInjection,
			},
			Window:      15 * time.Minute,
			Threshold:   5,
			Severity:    models.SeverityHigh,
			Kind:        models.AlertKindThreatDetected,
			Description: "Multiple injection attempts across inputs",
		},
		{
			Name:       "Security Scanner",
			EventTypes: []models.EventType{
				models.EventScanDetected,
				models.EventPathTraversal,
			},
			Window:      5 * time.Minute,
			Threshold:   20,
			Severity:    models.SeverityMedium,
			Kind:        models.AlertKindPatternAnomaly,
			Description: "Automated scanning or probing activity",
		},
		{
			Name:       "Privilege Escalation",
			EventTypes: []models.EventType{
				models.EventPrivilegeEscalation,
				models.EventAuthzFailure,
			},
			Window:      10 * time.Minute,
			Threshold:   10,
			Severity:    models.SeverityHigh,
			Kind:        models.AlertKindThreatDetected,
			Description: "Repeated attempts to gain elevated access",
		},
	}
}
