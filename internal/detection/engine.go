// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package detection

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/petram44/praesidio/internal/models"
)

// EngineConfig tunes the detection engine.
type EngineConfig struct {
	// CooldownEnabled suppresses repeat emissions per
	// (pattern, source, window bucket). Disable to re-emit on every
	// evaluation while a threshold holds.
	CooldownEnabled bool `json:"cooldown_enabled"`

	// CooldownSize bounds the cooldown key cache.
	CooldownSize int `json:"cooldown_size"`
}

// DefaultEngineConfig returns production defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		CooldownEnabled: true,
		CooldownSize:    DefaultCooldownSize,
	}
}

// Engine evaluates the pattern table against recent events. It is
// stateless apart from the cooldown cache and its own counters; event
// history belongs to the event store and alerts to the registry.
type Engine struct {
	patterns []Pattern
	cooldown *cooldownCache
	metrics  *engineMetrics
}

// NewEngine creates an engine over the built-in pattern table.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	patterns := BuiltinPatterns()
	for _, p := range patterns {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid pattern table: %w", err)
		}
	}

	e := &Engine{
		patterns: patterns,
		metrics:  newEngineMetrics(patterns),
	}
	if cfg.CooldownEnabled {
		cooldown, err := newCooldownCache(cfg.CooldownSize)
		if err != nil {
			return nil, err
		}
		e.cooldown = cooldown
	}
	return e, nil
}

// Patterns returns a copy of the pattern table.
func (e *Engine) Patterns() []Pattern {
	out := make([]Pattern, len(e.patterns))
	copy(out, e.patterns)
	return out
}

// MaxWindow returns the longest pattern window. Callers fetch at least this
// much recent history before invoking Detect.
func (e *Engine) MaxWindow() time.Duration {
	var max time.Duration
	for _, p := range e.patterns {
		if p.Window > max {
			max = p.Window
		}
	}
	return max
}

// Detect evaluates every pattern against the supplied recent events and
// returns the alerts whose thresholds were met at now. For each pattern the
// events are filtered to qualifying types with timestamps strictly inside
// (now-window, now], grouped by source address; each group of at least
// threshold events emits one alert. Patterns do not deduplicate against
// each other.
func (e *Engine) Detect(now time.Time, recent []*models.SecurityEvent) []*models.SecurityAlert {
	var alerts []*models.SecurityAlert

	for _, pattern := range e.patterns {
		cutoff := now.Add(-pattern.Window)
		groups := make(map[string][]*models.SecurityEvent)
		for _, event := range recent {
			if !pattern.Matches(event.Type) {
				continue
			}
			if !event.Timestamp.After(cutoff) {
				continue
			}
			groups[event.SourceAddress] = append(groups[event.SourceAddress], event)
		}

		for source, group := range groups {
			if len(group) < pattern.Threshold {
				continue
			}
			if e.cooldown != nil && e.cooldown.Suppress(pattern.Name, source, now, pattern.Window) {
				e.metrics.recordSuppressed()
				continue
			}
			alerts = append(alerts, buildAlert(pattern, source, group, now))
			e.metrics.recordTrigger(pattern.Name, now)
		}
	}

	e.metrics.recordEvaluation(now, len(recent))
	return alerts
}

// buildAlert materializes one alert from a qualifying group.
func buildAlert(pattern Pattern, source string, group []*models.SecurityEvent, now time.Time) *models.SecurityAlert {
	eventIDs := make([]string, 0, len(group))
	actors := make(map[string]struct{})
	for _, event := range group {
		eventIDs = append(eventIDs, event.ID)
		if event.ActorID != "" {
			actors[event.ActorID] = struct{}{}
		}
	}

	return &models.SecurityAlert{
		ID:          uuid.NewString(),
		Kind:        pattern.Kind,
		Severity:    pattern.Severity,
		Pattern:     pattern.Name,
		Title:       fmt.Sprintf("%s from %s", pattern.Name, source),
		Description: fmt.Sprintf("%s: %d qualifying events from %s within %s", pattern.Description, len(group), source, pattern.Window),
		CreatedAt:   now,
		EventIDs:    eventIDs,
		Metrics: models.AlertMetrics{
			EventCount:    len(group),
			WindowSeconds: int(pattern.Window / time.Second),
			AffectedUsers: len(actors),
			AffectedIPs:   1,
		},
		Status: models.AlertStatusOpen,
	}
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() MetricsSnapshot {
	snap := e.metrics.snapshot()
	if e.cooldown != nil {
		snap.CooldownKeys = e.cooldown.Len()
	}
	return snap
}
