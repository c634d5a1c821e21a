// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package detection

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/petram44/praesidio/internal/models"
)

var (
	// ErrAlertNotFound is returned for unknown alert IDs.
	ErrAlertNotFound = errors.New("alert not found")

	// ErrAlertClosed is returned when mutating a terminal alert.
	ErrAlertClosed = errors.New("alert already closed")

	// ErrInvalidSilence is returned for non-positive silence durations.
	ErrInvalidSilence = errors.New("silence duration must be positive")
)

// TransitionHook observes alert lifecycle changes. The hook runs inside the
// registry lock and must not call back into the registry.
type TransitionHook func(alert *models.SecurityAlert, action, actor string)

// Registry exclusively owns SecurityAlert records. Alerts enter open, move
// through acknowledge/resolve transitions, and are never deleted. All reads
// return deep copies so callers cannot mutate registry state.
type Registry struct {
	mu     sync.RWMutex
	alerts map[string]*models.SecurityAlert
	hook   TransitionHook

	// now is replaceable in tests.
	now func() time.Time
}

// NewRegistry creates an empty alert registry.
func NewRegistry(hook TransitionHook) *Registry {
	return &Registry{
		alerts: make(map[string]*models.SecurityAlert),
		hook:   hook,
		now:    time.Now,
	}
}

// Add stores a new alert. Alerts enter the registry in the open state; an
// empty ID is assigned one. The registry stores its own copy.
func (r *Registry) Add(alert *models.SecurityAlert) *models.SecurityAlert {
	cp := alert.Clone()
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	if cp.Status == "" {
		cp.Status = models.AlertStatusOpen
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = r.now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[cp.ID] = cp
	r.emit(cp, "created", "")
	return cp.Clone()
}

// Get returns a copy of the alert with the given ID.
func (r *Registry) Get(id string) (*models.SecurityAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	alert, ok := r.alerts[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	return alert.Clone(), nil
}

// Open returns every non-terminal alert, newest first.
func (r *Registry) Open() []*models.SecurityAlert {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.SecurityAlert, 0, len(r.alerts))
	for _, alert := range r.alerts {
		if !alert.Status.Terminal() {
			out = append(out, alert.Clone())
		}
	}
	sortAlertsNewestFirst(out)
	return out
}

// All returns alerts filtered by status, newest first. An empty status
// returns everything.
func (r *Registry) All(status models.AlertStatus) []*models.SecurityAlert {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.SecurityAlert, 0, len(r.alerts))
	for _, alert := range r.alerts {
		if status != "" && alert.Status != status {
			continue
		}
		out = append(out, alert.Clone())
	}
	sortAlertsNewestFirst(out)
	return out
}

// Acknowledge moves an open alert to acknowledged. Acknowledging an already
// acknowledged alert is a no-op returning the current state; terminal alerts
// reject the transition.
func (r *Registry) Acknowledge(id, who string) (*models.SecurityAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	alert, ok := r.alerts[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	if alert.Status.Terminal() {
		return nil, ErrAlertClosed
	}
	if alert.Status == models.AlertStatusAcknowledged {
		return alert.Clone(), nil
	}

	now := r.now()
	alert.Status = models.AlertStatusAcknowledged
	alert.AcknowledgedBy = who
	alert.AcknowledgedAt = &now
	r.emit(alert, "acknowledged", who)
	return alert.Clone(), nil
}

// Silence suppresses notifications for the alert until now+duration. The
// lifecycle status is unchanged; terminal alerts reject the mutation.
func (r *Registry) Silence(id string, duration time.Duration) (*models.SecurityAlert, error) {
	if duration <= 0 {
		return nil, ErrInvalidSilence
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	alert, ok := r.alerts[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	if alert.Status.Terminal() {
		return nil, ErrAlertClosed
	}

	until := r.now().Add(duration)
	alert.SilencedUntil = &until
	r.emit(alert, "silenced", "")
	return alert.Clone(), nil
}

// Resolve moves any non-terminal alert to resolved.
func (r *Registry) Resolve(id, notes string) (*models.SecurityAlert, error) {
	return r.close(id, notes, models.AlertStatusResolved, "resolved")
}

// MarkFalsePositive moves any non-terminal alert to false_positive.
func (r *Registry) MarkFalsePositive(id, notes string) (*models.SecurityAlert, error) {
	return r.close(id, notes, models.AlertStatusFalsePositive, "false_positive")
}

func (r *Registry) close(id, notes string, status models.AlertStatus, action string) (*models.SecurityAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	alert, ok := r.alerts[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	if alert.Status.Terminal() {
		return nil, ErrAlertClosed
	}

	now := r.now()
	alert.Status = status
	alert.ResolvedAt = &now
	if notes != "" {
		alert.Notes = notes
	}
	r.emit(alert, action, "")
	return alert.Clone(), nil
}

// Count returns the number of alerts held, open or closed.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.alerts)
}

func (r *Registry) emit(alert *models.SecurityAlert, action, actor string) {
	if r.hook != nil {
		r.hook(alert.Clone(), action, actor)
	}
}

func sortAlertsNewestFirst(alerts []*models.SecurityAlert) {
	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].CreatedAt.Equal(alerts[j].CreatedAt) {
			return alerts[i].ID < alerts[j].ID
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
}
