// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package classify

import (
	"github.com/petram44/praesidio/internal/models"
)

// Threat categories group event types into coarse buckets.
const (
	CategoryAccountTakeover = "Account Takeover"
	CategoryInjection       = "Injection Attack"
	CategoryAuthentication  = "Authentication Attack"
	CategoryReconnaissance  = "Reconnaissance"
	CategoryUnknown         = "Unknown"
)

// Score modifiers applied on top of the per-type base score.
const (
	automatedBonus    = 15
	repeatedBonus     = 10
	largePayloadBonus = 5

	// largePayloadBytes is the payload size above which the payload
	// modifier applies.
	largePayloadBytes = 1000

	maxScore = 100

	// Unknown event types classify to this default rather than failing.
	defaultBaseScore = 50
)

// classification is one row of the static type table.
type classification struct {
	severity   models.Severity
	baseScore  int
	category   string
	indicators []string
}

// table maps every known event type to its classification. The table is
// package-level constant data; Classify copies indicator slices so callers
// can never mutate it.
var table = map[models.EventType]classification{
	models.EventAuthFailure: {
		severity:   models.SeverityMedium,
		baseScore:  30,
		category:   CategoryAuthentication,
		indicators: []string{"credential_abuse", "brute_force_candidate"},
	},
	models.EventAuthSuccess: {
		severity:  models.SeverityLow,
		baseScore: 5,
		category:  CategoryAuthentication,
	},
	models.EventAuthzFailure: {
		severity:   models.SeverityMedium,
		baseScore:  35,
		category:   CategoryAuthentication,
		indicators: []string{"credential_abuse", "access_denied"},
	},
	models.EventSessionHijack: {
		severity:   models.SeverityCritical,
		baseScore:  85,
		category:   CategoryAccountTakeover,
		indicators: []string{"account_compromise", "session_theft"},
	},
	models.EventPrivilegeEscalation: {
		severity:   models.SeverityCritical,
		baseScore:  80,
		category:   CategoryAccountTakeover,
		indicators: []string{"account_compromise", "privilege_abuse"},
	},
	models.EventXSSAttempt: {
		severity:   models.SeverityHigh,
		baseScore:  60,
		category:   CategoryInjection,
		indicators: []string{"code_injection", "xss"},
	},
	models.EventSQLInjection: {
		severity:   models.SeverityHigh,
		baseScore:  70,
		category:   CategoryInjection,
		indicators: []string{"code_injection", "sql_injection"},
	},
	models.EventCommandInjection: {
		severity:   models.SeverityHigh,
		baseScore:  75,
		category:   CategoryInjection,
		indicators: []string{"code_injection", "command_injection"},
	},
	models.EventPathTraversal: {
		severity:   models.SeverityMedium,
		baseScore:  45,
		category:   CategoryReconnaissance,
		indicators: []string{"probing", "traversal_probe"},
	},
	models.EventScanDetected: {
		severity:   models.SeverityMedium,
		baseScore:  40,
		category:   CategoryReconnaissance,
		indicators: []string{"probing", "scanner_activity"},
	},
	models.EventRateLimitExceeded: {
		severity:   models.SeverityMedium,
		baseScore:  25,
		category:   CategoryAuthentication,
		indicators: []string{"credential_abuse", "abuse_velocity"},
	},
	models.EventCSRFViolation: {
		severity:   models.SeverityHigh,
		baseScore:  55,
		category:   CategoryAccountTakeover,
		indicators: []string{"account_compromise", "request_forgery"},
	},
}

// Classify derives severity and a threat assessment from the event type and
// its details. It never fails: unknown types classify as medium severity
// with a base score of 50 and category Unknown. A nil details value means
// no modifiers apply.
func Classify(eventType models.EventType, details models.EventDetails) (models.Severity, models.ThreatAssessment) {
	row, known := table[eventType]
	if !known {
		row = classification{
			severity:  models.SeverityMedium,
			baseScore: defaultBaseScore,
			category:  CategoryUnknown,
		}
	}

	score := row.baseScore
	if details != nil {
		traits := details.Traits()
		if traits.Automated {
			score += automatedBonus
		}
		if traits.Repeated {
			score += repeatedBonus
		}
		if traits.PayloadSize > largePayloadBytes {
			score += largePayloadBonus
		}
	}
	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}

	assessment := models.ThreatAssessment{
		Score:    score,
		Category: row.category,
	}
	if len(row.indicators) > 0 {
		assessment.Indicators = append([]string(nil), row.indicators...)
	}
	return row.severity, assessment
}

// SeverityFor returns the static severity for an event type, medium for
// unknown types. Exposed for surfaces that need severity without a full
// assessment.
func SeverityFor(eventType models.EventType) models.Severity {
	if row, ok := table[eventType]; ok {
		return row.severity
	}
	return models.SeverityMedium
}
