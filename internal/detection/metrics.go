// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package detection

import (
	"sync"
	"time"
)

// MetricsSnapshot is a point-in-time copy of the engine counters.
type MetricsSnapshot struct {
	EventsEvaluated      int64            `json:"events_evaluated"`
	AlertsGenerated      int64            `json:"alerts_generated"`
	SuppressedByCooldown int64            `json:"suppressed_by_cooldown"`
	LastEvaluatedAt      time.Time        `json:"last_evaluated_at"`
	PatternTriggers      map[string]int64 `json:"pattern_triggers"`
	CooldownKeys         int              `json:"cooldown_keys"`
}

// engineMetrics tracks engine activity under its own mutex so counting
// never contends with detection itself.
type engineMetrics struct {
	mu sync.Mutex

	eventsEvaluated      int64
	alertsGenerated      int64
	suppressedByCooldown int64
	lastEvaluatedAt      time.Time
	patternTriggers      map[string]int64
}

func newEngineMetrics(patterns []Pattern) *engineMetrics {
	triggers := make(map[string]int64, len(patterns))
	for _, p := range patterns {
		triggers[p.Name] = 0
	}
	return &engineMetrics{patternTriggers: triggers}
}

func (m *engineMetrics) recordEvaluation(now time.Time, events int) {
	m.mu.Lock()
	m.eventsEvaluated += int64(events)
	m.lastEvaluatedAt = now
	m.mu.Unlock()
}

func (m *engineMetrics) recordTrigger(pattern string, now time.Time) {
	m.mu.Lock()
	m.alertsGenerated++
	m.patternTriggers[pattern]++
	m.mu.Unlock()
}

func (m *engineMetrics) recordSuppressed() {
	m.mu.Lock()
	m.suppressedByCooldown++
	m.mu.Unlock()
}

func (m *engineMetrics) snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	triggers := make(map[string]int64, len(m.patternTriggers))
	for name, count := range m.patternTriggers {
		triggers[name] = count
	}
	return MetricsSnapshot{
		EventsEvaluated:      m.eventsEvaluated,
		AlertsGenerated:      m.alertsGenerated,
		SuppressedByCooldown: m.suppressedByCooldown,
		LastEvaluatedAt:      m.lastEvaluatedAt,
		PatternTriggers:      triggers,
	}
}
