// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package telemetry

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/petram44/praesidio/internal/detection"
	"github.com/petram44/praesidio/internal/logging"
	"github.com/petram44/praesidio/internal/metrics"
	"github.com/petram44/praesidio/internal/models"
)

// DispatcherConfig tunes the delivery queue.
type DispatcherConfig struct {
	// QueueSize bounds the number of undelivered items. Default 1024.
	QueueSize int `json:"queue_size"`

	// DeliveryTimeoutSeconds bounds each sink delivery. Default 10.
	DeliveryTimeoutSeconds int `json:"delivery_timeout_seconds"`
}

// DefaultDispatcherConfig returns production defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		QueueSize:              1024,
		DeliveryTimeoutSeconds: 10,
	}
}

// item is one queued delivery: exactly one of event or alert is set.
type item struct {
	event *models.SecurityEvent
	alert *models.SecurityAlert
}

func (it item) kind() string {
	if it.alert != nil {
		return "alert"
	}
	return "event"
}

// breakerReporter is implemented by sinks that expose a circuit breaker.
type breakerReporter interface {
	BreakerState() string
}

// Dispatcher fans deliveries out to notifiers and event sinks from a
// bounded queue. Enqueueing never blocks: when the queue is full the item
// is dropped and counted. Delivery errors are logged, never surfaced.
type Dispatcher struct {
	cfg       DispatcherConfig
	notifiers []detection.Notifier
	sinks     []detection.EventSink

	// registry, when set, is consulted at delivery time so alerts
	// silenced after enqueueing are not notified.
	registry *detection.Registry

	queue  chan item
	logger zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given delivery channels.
// registry may be nil; it only gates silenced alerts.
func NewDispatcher(cfg DispatcherConfig, registry *detection.Registry, notifiers []detection.Notifier, sinks []detection.EventSink) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.DeliveryTimeoutSeconds <= 0 {
		cfg.DeliveryTimeoutSeconds = 10
	}
	return &Dispatcher{
		cfg:       cfg,
		notifiers: notifiers,
		sinks:     sinks,
		registry:  registry,
		queue:     make(chan item, cfg.QueueSize),
		logger:    logging.WithComponent("dispatcher"),
	}
}

// EnqueueEvent queues an event for sink delivery without blocking.
func (d *Dispatcher) EnqueueEvent(event *models.SecurityEvent) {
	if event == nil {
		return
	}
	d.enqueue(item{event: event})
}

// EnqueueAlert queues an alert for notifier delivery without blocking.
func (d *Dispatcher) EnqueueAlert(alert *models.SecurityAlert) {
	if alert == nil {
		return
	}
	d.enqueue(item{alert: alert})
}

func (d *Dispatcher) enqueue(it item) {
	select {
	case d.queue <- it:
		metrics.DispatchQueueDepth.Set(float64(len(d.queue)))
	default:
		metrics.DispatchDropped.WithLabelValues(it.kind()).Inc()
		d.logger.Warn().
			Str("kind", it.kind()).
			Int("queue_size", d.cfg.QueueSize).
			Msg("Dispatch queue full, dropping delivery")
	}
}

// Pending returns the number of queued, undelivered items.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Serve drains the queue until ctx is cancelled. It satisfies
// suture.Service; queued items remaining at shutdown are dropped.
func (d *Dispatcher) Serve(ctx context.Context) error {
	d.logger.Info().
		Int("queue_size", d.cfg.QueueSize).
		Int("notifiers", len(d.notifiers)).
		Int("sinks", len(d.sinks)).
		Msg("Dispatcher started")

	for {
		select {
		case <-ctx.Done():
			if pending := len(d.queue); pending > 0 {
				d.logger.Warn().Int("pending", pending).Msg("Dispatcher stopping with undelivered items")
			}
			return ctx.Err()
		case it := <-d.queue:
			metrics.DispatchQueueDepth.Set(float64(len(d.queue)))
			d.deliver(ctx, it)
		}
	}
}

// String names the service in supervisor logs.
func (d *Dispatcher) String() string {
	return "telemetry-dispatcher"
}

func (d *Dispatcher) deliver(ctx context.Context, it item) {
	timeout := time.Duration(d.cfg.DeliveryTimeoutSeconds) * time.Second

	switch {
	case it.alert != nil:
		if d.silenced(it.alert.ID) {
			d.logger.Debug().Str("alert_id", it.alert.ID).Msg("Alert silenced, skipping notification")
			return
		}
		for _, n := range d.notifiers {
			if !n.Enabled() {
				continue
			}
			dctx, cancel := context.WithTimeout(ctx, timeout)
			err := n.Send(dctx, it.alert)
			cancel()
			metrics.RecordDispatch(n.Name(), err)
			if err != nil {
				d.logger.Error().
					Err(err).
					Str("notifier", n.Name()).
					Str("alert_id", it.alert.ID).
					Msg("Alert notification failed")
			}
			d.reportBreaker(n)
		}
	case it.event != nil:
		for _, s := range d.sinks {
			if !s.Enabled() {
				continue
			}
			dctx, cancel := context.WithTimeout(ctx, timeout)
			err := s.Forward(dctx, it.event)
			cancel()
			metrics.RecordDispatch(s.Name(), err)
			if err != nil {
				d.logger.Error().
					Err(err).
					Str("sink", s.Name()).
					Str("event_id", it.event.ID).
					Msg("Event forward failed")
			}
			d.reportBreaker(s)
		}
	}
}

// silenced reports whether the alert is currently inside a silence window.
func (d *Dispatcher) silenced(id string) bool {
	if d.registry == nil {
		return false
	}
	alert, err := d.registry.Get(id)
	if err != nil {
		return false
	}
	return alert.Silenced(time.Now())
}

func (d *Dispatcher) reportBreaker(channel any) {
	if br, ok := channel.(breakerReporter); ok {
		if named, ok := channel.(interface{ Name() string }); ok {
			metrics.SetBreakerState(named.Name(), br.BreakerState())
		}
	}
}
