// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package telemetry

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/petram44/praesidio/internal/classify"
	"github.com/petram44/praesidio/internal/detection"
	"github.com/petram44/praesidio/internal/eventstore"
	"github.com/petram44/praesidio/internal/logging"
	"github.com/petram44/praesidio/internal/metrics"
	"github.com/petram44/praesidio/internal/models"
)

// ErrInvalidStatus is returned for unknown alert status filters.
var ErrInvalidStatus = errors.New("invalid alert status")

// Config tunes the facade's query defaults.
type Config struct {
	// DefaultQueryLimit applies when a query specifies no limit. Default 100.
	DefaultQueryLimit int `json:"default_query_limit"`

	// MaxQueryLimit caps any requested limit. Default 1000.
	MaxQueryLimit int `json:"max_query_limit"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		DefaultQueryLimit: 100,
		MaxQueryLimit:     1000,
	}
}

// Filters narrows an event query. Zero values mean "no constraint".
type Filters struct {
	ActorID       string           `json:"actor_id,omitempty"`
	SourceAddress string           `json:"source_address,omitempty"`
	Type          models.EventType `json:"type,omitempty"`
	Severity      models.Severity  `json:"severity,omitempty"`

	// Minutes restricts results to the trailing window. Zero means no
	// time constraint.
	Minutes int `json:"minutes,omitempty"`

	// Limit caps the result count. Zero applies the default limit.
	Limit int `json:"limit,omitempty"`
}

// DetectionStatus is the introspection snapshot served by the status API.
type DetectionStatus struct {
	Patterns     []detection.Pattern       `json:"patterns"`
	Engine       detection.MetricsSnapshot `json:"engine"`
	Store        eventstore.Stats          `json:"store"`
	QueuePending int                       `json:"queue_pending"`
	OpenAlerts   int                       `json:"open_alerts"`
}

// SecurityLogger is the facade over the event pipeline. One instance owns
// ingestion and serves all queries; every method is safe for concurrent
// use.
type SecurityLogger struct {
	cfg        Config
	store      *eventstore.Store
	engine     *detection.Engine
	registry   *detection.Registry
	dispatcher *Dispatcher
	aggregator *Aggregator
	logger     zerolog.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewSecurityLogger assembles the facade. dispatcher may be nil when no
// external delivery is configured.
func NewSecurityLogger(cfg Config, store *eventstore.Store, engine *detection.Engine, registry *detection.Registry, dispatcher *Dispatcher) *SecurityLogger {
	if cfg.DefaultQueryLimit <= 0 {
		cfg.DefaultQueryLimit = 100
	}
	if cfg.MaxQueryLimit <= 0 {
		cfg.MaxQueryLimit = 1000
	}
	return &SecurityLogger{
		cfg:        cfg,
		store:      store,
		engine:     engine,
		registry:   registry,
		dispatcher: dispatcher,
		aggregator: NewAggregator(store, registry),
		logger:     logging.WithComponent("telemetry"),
		now:        time.Now,
	}
}

// LogEvent ingests one security event: assigns identity and classification,
// stores it, runs detection over the updated window, registers any emitted
// alerts, and queues external delivery. It never fails; internal errors are
// logged and ingestion continues.
//
// The caller hands over ownership of event; it must not be mutated after
// the call.
func (s *SecurityLogger) LogEvent(event *models.SecurityEvent) *models.SecurityEvent {
	if event == nil {
		return nil
	}
	start := s.now()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = start
	}

	severity, threat := classify.Classify(event.Type, event.Details)
	event.Severity = severity
	event.Threat = threat

	s.store.Add(event)

	alerts := s.engine.Detect(s.now(), s.store.Recent(s.engine.MaxWindow(), 0))
	for _, alert := range alerts {
		stored := s.registry.Add(alert)
		metrics.RecordAlert(stored.Pattern, string(stored.Severity))
		if s.dispatcher != nil {
			s.dispatcher.EnqueueAlert(stored)
		}
		s.logger.Warn().
			Str("alert_id", stored.ID).
			Str("pattern", stored.Pattern).
			Str("severity", string(stored.Severity)).
			Str("source", event.SourceAddress).
			Int("event_count", stored.Metrics.EventCount).
			Msg("Threat pattern detected")
	}
	if len(alerts) > 0 {
		s.refreshAlertGauge()
	}

	if s.dispatcher != nil {
		s.dispatcher.EnqueueEvent(event)
	}

	stats := s.store.Stats()
	metrics.UpdateStoreStats(stats.Events, stats.TotalEvicted)
	metrics.RecordEvent(string(event.Type), string(event.Severity), s.now().Sub(start))

	s.logger.Debug().
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Str("severity", string(event.Severity)).
		Str("source", event.SourceAddress).
		Int("threat_score", event.Threat.Score).
		Msg("Event recorded")

	return event
}

// GetEvent returns one event by ID.
func (s *SecurityLogger) GetEvent(id string) (*models.SecurityEvent, error) {
	event, ok := s.store.Get(id)
	if !ok {
		return nil, eventstore.ErrEventNotFound
	}
	return event, nil
}

// GetEvents returns events matching the filters, newest first. The most
// selective index serves as the candidate set; remaining filters apply as
// predicates.
func (s *SecurityLogger) GetEvents(f Filters) []*models.SecurityEvent {
	limit := f.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultQueryLimit
	}
	if limit > s.cfg.MaxQueryLimit {
		limit = s.cfg.MaxQueryLimit
	}

	var candidates []*models.SecurityEvent
	switch {
	case f.ActorID != "":
		candidates = s.store.ByActor(f.ActorID, 0)
	case f.SourceAddress != "":
		candidates = s.store.BySource(f.SourceAddress, 0)
	case f.Type != "":
		candidates = s.store.ByType(f.Type, 0)
	case f.Minutes > 0:
		candidates = s.store.Recent(time.Duration(f.Minutes)*time.Minute, 0)
	default:
		candidates = s.store.All(0)
	}

	var cutoff time.Time
	if f.Minutes > 0 {
		cutoff = s.now().Add(-time.Duration(f.Minutes) * time.Minute)
	}

	matched := make([]*models.SecurityEvent, 0, len(candidates))
	for _, event := range candidates {
		if f.ActorID != "" && event.ActorID != f.ActorID {
			continue
		}
		if f.SourceAddress != "" && event.SourceAddress != f.SourceAddress {
			continue
		}
		if f.Type != "" && event.Type != f.Type {
			continue
		}
		if f.Severity != "" && event.Severity != f.Severity {
			continue
		}
		if f.Minutes > 0 && !event.Timestamp.After(cutoff) {
			continue
		}
		matched = append(matched, event)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// ResolveEvent attaches a manual resolution to a stored event.
func (s *SecurityLogger) ResolveEvent(id, resolvedBy, notes string) error {
	return s.store.Resolve(id, resolvedBy, notes)
}

// GetAlerts returns alerts filtered by status. An empty status returns the
// non-terminal (open and acknowledged) alerts.
func (s *SecurityLogger) GetAlerts(status models.AlertStatus) ([]*models.SecurityAlert, error) {
	if status == "" {
		return s.registry.Open(), nil
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.registry.All(status), nil
}

// GetAlert returns one alert by ID.
func (s *SecurityLogger) GetAlert(id string) (*models.SecurityAlert, error) {
	return s.registry.Get(id)
}

// AcknowledgeAlert marks an alert as under investigation.
func (s *SecurityLogger) AcknowledgeAlert(id, who string) (*models.SecurityAlert, error) {
	alert, err := s.registry.Acknowledge(id, who)
	if err == nil {
		s.refreshAlertGauge()
	}
	return alert, err
}

// SilenceAlert suppresses notifications for the alert for the duration.
func (s *SecurityLogger) SilenceAlert(id string, duration time.Duration) (*models.SecurityAlert, error) {
	return s.registry.Silence(id, duration)
}

// ResolveAlert closes an alert as handled.
func (s *SecurityLogger) ResolveAlert(id, notes string) (*models.SecurityAlert, error) {
	alert, err := s.registry.Resolve(id, notes)
	if err == nil {
		s.refreshAlertGauge()
	}
	return alert, err
}

// MarkAlertFalsePositive closes an alert as a false positive.
func (s *SecurityLogger) MarkAlertFalsePositive(id, notes string) (*models.SecurityAlert, error) {
	alert, err := s.registry.MarkFalsePositive(id, notes)
	if err == nil {
		s.refreshAlertGauge()
	}
	return alert, err
}

// GetMetrics returns the rollup for the trailing window.
func (s *SecurityLogger) GetMetrics(hours int) models.MetricsSummary {
	return s.aggregator.Summary(hours)
}

// Status returns the introspection snapshot.
func (s *SecurityLogger) Status() DetectionStatus {
	pending := 0
	if s.dispatcher != nil {
		pending = s.dispatcher.Pending()
	}
	return DetectionStatus{
		Patterns:     s.engine.Patterns(),
		Engine:       s.engine.Metrics(),
		Store:        s.store.Stats(),
		QueuePending: pending,
		OpenAlerts:   len(s.registry.Open()),
	}
}

func (s *SecurityLogger) refreshAlertGauge() {
	metrics.AlertsOpen.Set(float64(len(s.registry.Open())))
}
