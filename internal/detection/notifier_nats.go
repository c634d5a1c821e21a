// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package detection

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/petram44/praesidio/internal/metrics"
	"github.com/petram44/praesidio/internal/models"
)

// NATSConfig configures the optional NATS alert publisher.
type NATSConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Subject string `json:"subject"`
}

// DefaultNATSConfig returns defaults with the publisher disabled.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:     nats.DefaultURL,
		Subject: "praesidio.alerts",
	}
}

// NATSNotifier publishes alerts to a NATS subject so downstream consumers
// (SOAR pipelines, archivers) can fan out without coupling to this process.
// Publishing is fire-and-forget like every other notifier.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
}

// NewNATSNotifier connects to the configured NATS server. The connection
// reconnects indefinitely in the background once established.
func NewNATSNotifier(cfg NATSConfig) (*NATSNotifier, error) {
	if cfg.Subject == "" {
		cfg.Subject = "praesidio.alerts"
	}
	conn, err := nats.Connect(cfg.URL,
		nats.Name("praesidio"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSNotifier{conn: conn, subject: cfg.Subject}, nil
}

// Name returns the notifier name.
func (n *NATSNotifier) Name() string { return "nats" }

// Enabled reports whether the connection is usable.
func (n *NATSNotifier) Enabled() bool {
	return n.conn != nil && !n.conn.IsClosed()
}

// Send publishes one alert as JSON to the configured subject.
func (n *NATSNotifier) Send(_ context.Context, alert *models.SecurityAlert) error {
	body, err := json.Marshal(AlertPayload{
		Kind:      "security_alert",
		Timestamp: time.Now(),
		Source:    "praesidio",
		Alert:     alert,
	})
	if err != nil {
		return fmt.Errorf("marshal alert payload: %w", err)
	}
	if err := n.conn.Publish(n.subject, body); err != nil {
		metrics.NATSPublishErrors.Inc()
		return fmt.Errorf("publish alert: %w", err)
	}
	metrics.NATSMessagesPublished.Inc()
	return nil
}

// Close drains the connection.
func (n *NATSNotifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
