// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/petram44/praesidio/internal/logging"
	"github.com/petram44/praesidio/internal/metrics"
	"github.com/petram44/praesidio/internal/models"
)

// Config tunes the audit recorder.
type Config struct {
	// Enabled controls whether entries are recorded at all.
	Enabled bool `json:"enabled"`

	// Capacity bounds the in-memory trail.
	Capacity int `json:"capacity"`

	// QueueSize is the async write buffer; writes never block callers.
	QueueSize int `json:"queue_size"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Capacity:  10000,
		QueueSize: 256,
	}
}

// Recorder writes alert lifecycle entries to the trail through a bounded
// async queue. Record never blocks: the registry hook runs inside the
// registry lock, so backpressure here must drop rather than stall alert
// transitions.
type Recorder struct {
	cfg   Config
	trail *Trail

	queue    chan Entry
	stopChan chan struct{}
	wg       sync.WaitGroup

	// now is replaceable in tests.
	now func() time.Time
}

// NewRecorder creates a recorder and starts its writer goroutine.
func NewRecorder(cfg Config) *Recorder {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 10000
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	r := &Recorder{
		cfg:      cfg,
		trail:    NewTrail(cfg.Capacity),
		queue:    make(chan Entry, cfg.QueueSize),
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
	r.wg.Add(1)
	go r.writer()
	return r
}

// Trail exposes the underlying store for queries.
func (r *Recorder) Trail() *Trail {
	return r.trail
}

// Record queues one entry without blocking. Entries are dropped, counted,
// and logged when the queue is full.
func (r *Recorder) Record(entry Entry) {
	if !r.cfg.Enabled {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now()
	}

	select {
	case r.queue <- entry:
	default:
		metrics.AuditEntriesDropped.Inc()
		logging.Warn().
			Str("component", "audit").
			Str("alert_id", entry.AlertID).
			Str("action", string(entry.Action)).
			Msg("Audit queue full, dropping entry")
	}
}

// Hook adapts the recorder to the alert registry's transition hook. The
// returned function is safe to run inside the registry lock.
func (r *Recorder) Hook() func(alert *models.SecurityAlert, action, actor string) {
	return func(alert *models.SecurityAlert, action, actor string) {
		if actor == "" && Action(action) == ActionCreated {
			actor = "detection-engine"
		}
		r.Record(Entry{
			Action:   Action(action),
			AlertID:  alert.ID,
			Pattern:  alert.Pattern,
			Severity: string(alert.Severity),
			Actor:    actor,
			Notes:    alert.Notes,
		})
	}
}

// Close stops the writer after draining queued entries.
func (r *Recorder) Close() {
	close(r.stopChan)
	r.wg.Wait()
}

func (r *Recorder) writer() {
	defer r.wg.Done()
	for {
		select {
		case <-r.stopChan:
			for {
				select {
				case entry := <-r.queue:
					r.save(entry)
				default:
					return
				}
			}
		case entry := <-r.queue:
			r.save(entry)
		}
	}
}

func (r *Recorder) save(entry Entry) {
	r.trail.Save(entry)
	metrics.AuditEntriesRecorded.Inc()
}
