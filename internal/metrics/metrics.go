// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeEvictedMu   sync.Mutex
	lastStoreEvicted int
)

var (
	// Event Pipeline Metrics
	EventsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "security_events_recorded_total",
			Help: "Total number of security events accepted by the pipeline",
		},
		[]string{"type", "severity"},
	)

	EventIngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "event_ingest_duration_seconds",
			Help:    "Duration of the record-classify-detect path in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	EventStoreSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_store_size",
			Help: "Current number of events held by the event store",
		},
	)

	EventStoreEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_store_evicted_total",
			Help: "Total number of events evicted by the capacity ring",
		},
	)

	// Detection Metrics
	AlertsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detection_alerts_generated_total",
			Help: "Total number of alerts emitted by the detection engine",
		},
		[]string{"pattern", "severity"},
	)

	DetectionSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "detection_suppressed_total",
			Help: "Total number of emissions suppressed by the cooldown cache",
		},
	)

	DetectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "detection_duration_seconds",
			Help:    "Duration of one detection pass in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	AlertTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_transitions_total",
			Help: "Total number of alert lifecycle transitions",
		},
		[]string{"action"}, // created, acknowledged, silenced, resolved, false_positive
	)

	AlertsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "alerts_open",
			Help: "Current number of non-terminal alerts in the registry",
		},
	)

	// Dispatch Metrics
	DispatchQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dispatch_queue_depth",
			Help: "Current number of items waiting in the dispatch queue",
		},
	)

	DispatchDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_dropped_total",
			Help: "Total number of items dropped because the dispatch queue was full",
		},
		[]string{"kind"}, // event, alert
	)

	DispatchDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_deliveries_total",
			Help: "Total number of sink deliveries by outcome",
		},
		[]string{"sink", "outcome"}, // outcome: "success", "failure"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	APIAuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_auth_failures_total",
			Help: "Total number of rejected API authentication attempts",
		},
		[]string{"reason"}, // missing_key, invalid_key, rate_limited
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// NATS Metrics
	NATSMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of alert notifications published to NATS",
		},
	)

	NATSPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_publish_errors_total",
			Help: "Total number of failed NATS publishes",
		},
	)

	// Audit Metrics
	AuditEntriesRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_entries_recorded_total",
			Help: "Total number of audit trail entries recorded",
		},
	)

	AuditEntriesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_entries_dropped_total",
			Help: "Total number of audit entries dropped under backpressure",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordEvent records one accepted security event.
func RecordEvent(eventType, severity string, duration time.Duration) {
	EventsRecorded.WithLabelValues(eventType, severity).Inc()
	EventIngestDuration.Observe(duration.Seconds())
}

// RecordAlert records one emitted alert.
func RecordAlert(pattern, severity string) {
	AlertsGenerated.WithLabelValues(pattern, severity).Inc()
}

// RecordTransition records an alert lifecycle transition.
func RecordTransition(action string) {
	AlertTransitions.WithLabelValues(action).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDispatch records one sink delivery outcome.
func RecordDispatch(sink string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	DispatchDeliveries.WithLabelValues(sink, outcome).Inc()
}

// UpdateStoreStats updates the event store gauges.
func UpdateStoreStats(size, evicted int) {
	EventStoreSize.Set(float64(size))
	// Counters only move forward; the store reports a cumulative eviction
	// count, so track the delta here.
	storeEvictedMu.Lock()
	if evicted > lastStoreEvicted {
		EventStoreEvicted.Add(float64(evicted - lastStoreEvicted))
		lastStoreEvicted = evicted
	}
	storeEvictedMu.Unlock()
}

// SetBreakerState maps a gobreaker state name onto the state gauge.
func SetBreakerState(name, state string) {
	var v float64
	switch state {
	case "half-open":
		v = 1
	case "open":
		v = 2
	}
	CircuitBreakerState.WithLabelValues(name).Set(v)
}
