// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package telemetry

import (
	"sort"
	"time"

	"github.com/petram44/praesidio/internal/detection"
	"github.com/petram44/praesidio/internal/eventstore"
	"github.com/petram44/praesidio/internal/models"
)

const (
	// DefaultSummaryHours is the rollup window when none is requested.
	DefaultSummaryHours = 24

	// topSourceCount bounds the noisiest-sources list.
	topSourceCount = 10
)

// Aggregator computes read-side rollups over the event store and alert
// registry. It holds no state of its own; every Summary call recomputes
// from the live stores.
type Aggregator struct {
	store    *eventstore.Store
	registry *detection.Registry

	// now is replaceable in tests.
	now func() time.Time
}

// NewAggregator creates an aggregator over the given stores.
func NewAggregator(store *eventstore.Store, registry *detection.Registry) *Aggregator {
	return &Aggregator{
		store:    store,
		registry: registry,
		now:      time.Now,
	}
}

// Summary rolls up the trailing hours of telemetry: totals by type and
// severity, the noisiest sources, and the live alert count. TotalEvents
// equals the sum over EventsByType and the sum over EventsBySeverity.
func (a *Aggregator) Summary(hours int) models.MetricsSummary {
	if hours <= 0 {
		hours = DefaultSummaryHours
	}

	events := a.store.Recent(time.Duration(hours)*time.Hour, 0)

	byType := make(map[models.EventType]int)
	bySeverity := make(map[models.Severity]int)
	bySource := make(map[string]int)
	for _, event := range events {
		byType[event.Type]++
		bySeverity[event.Severity]++
		if event.SourceAddress != "" {
			bySource[event.SourceAddress]++
		}
	}

	return models.MetricsSummary{
		TimeRangeHours:   hours,
		TotalEvents:      len(events),
		EventsByType:     byType,
		EventsBySeverity: bySeverity,
		TopSources:       topSources(bySource, topSourceCount),
		ActiveAlertCount: len(a.registry.Open()),
		GeneratedAt:      a.now(),
	}
}

// topSources returns the n highest-count sources, descending. Equal counts
// order by address for a stable result.
func topSources(counts map[string]int, n int) []models.SourceCount {
	out := make([]models.SourceCount, 0, len(counts))
	for address, count := range counts {
		out = append(out, models.SourceCount{SourceAddress: address, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].SourceAddress < out[j].SourceAddress
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
