// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package detection

import (
	"context"

	"github.com/petram44/praesidio/internal/logging"
	"github.com/petram44/praesidio/internal/models"
)

// Notifier delivers alerts to an external channel. Implementations are
// best-effort: delivery failures are logged by the dispatcher and never
// surfaced to ingestion.
type Notifier interface {
	// Name identifies the notifier in logs and metrics.
	Name() string

	// Enabled reports whether the notifier should receive alerts.
	Enabled() bool

	// Send delivers one alert. Implementations honor ctx cancellation.
	Send(ctx context.Context, alert *models.SecurityAlert) error
}

// EventSink forwards ingested events to an external collaborator. Like
// Notifier, sinks are best-effort and never gate ingestion.
type EventSink interface {
	Name() string
	Enabled() bool
	Forward(ctx context.Context, event *models.SecurityEvent) error
}

// LogNotifier writes alerts to the structured log. It is always enabled and
// serves as the default notifier when no external channel is configured.
type LogNotifier struct{}

// NewLogNotifier creates a log notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Name returns the notifier name.
func (n *LogNotifier) Name() string { return "log" }

// Enabled always reports true.
func (n *LogNotifier) Enabled() bool { return true }

// Send logs the alert at a level matching its severity.
func (n *LogNotifier) Send(_ context.Context, alert *models.SecurityAlert) error {
	entry := logging.Warn()
	if alert.Severity == models.SeverityCritical {
		entry = logging.Error()
	}
	entry.
		Str("alert_id", alert.ID).
		Str("pattern", alert.Pattern).
		Str("severity", string(alert.Severity)).
		Int("event_count", alert.Metrics.EventCount).
		Int("affected_users", alert.Metrics.AffectedUsers).
		Msg(alert.Title)
	return nil
}
