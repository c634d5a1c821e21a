// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package models

import "time"

// SourceCount pairs a source address with its event count in a window.
type SourceCount struct {
	SourceAddress string `json:"source_address"`
	Count         int    `json:"count"`
}

// MetricsSummary is the read-side rollup of recent telemetry. TotalEvents
// always equals the sum over EventsByType and the sum over EventsBySeverity.
type MetricsSummary struct {
	TimeRangeHours   int               `json:"time_range_hours"`
	TotalEvents      int               `json:"total_events"`
	EventsByType     map[EventType]int `json:"events_by_type"`
	EventsBySeverity map[Severity]int  `json:"events_by_severity"`
	TopSources       []SourceCount     `json:"top_sources"`
	ActiveAlertCount int               `json:"active_alert_count"`
	GeneratedAt      time.Time         `json:"generated_at"`
}
