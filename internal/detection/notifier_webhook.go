// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package detection

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/petram44/praesidio/internal/models"
)

// Webhook request headers.
const (
	headerSignature = "X-Praesidio-Signature"
	headerKind      = "X-Praesidio-Kind"
)

// WebhookConfig configures the outbound webhook sink.
type WebhookConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`

	// Secret keys the HMAC-SHA256 signature over the JSON body. An empty
	// secret sends unsigned requests.
	Secret string `json:"secret"`

	// TimeoutSeconds bounds each delivery attempt. Default 10.
	TimeoutSeconds int `json:"timeout_seconds"`

	// RatePerSecond and RateBurst bound outbound request rate.
	// Defaults: 2 per second, burst 5.
	RatePerSecond float64 `json:"rate_per_second"`
	RateBurst     int     `json:"rate_burst"`

	// FailureThreshold is the consecutive failure count that opens the
	// circuit breaker. Default 5.
	FailureThreshold uint32 `json:"failure_threshold"`
}

// DefaultWebhookConfig returns production defaults with the sink disabled.
func DefaultWebhookConfig() WebhookConfig {
	return WebhookConfig{
		TimeoutSeconds:   10,
		RatePerSecond:    2,
		RateBurst:        5,
		FailureThreshold: 5,
	}
}

// AlertPayload is the JSON body sent for alert notifications.
type AlertPayload struct {
	Kind      string                `json:"kind"` // security_alert
	Timestamp time.Time             `json:"timestamp"`
	Source    string                `json:"source"` // praesidio
	Alert     *models.SecurityAlert `json:"alert"`
}

// WebhookSink delivers telemetry to a generic webhook endpoint with a
// single best-effort POST per item: no retries, failures are the caller's
// to log. Events are posted as their bare JSON serialization; alerts are
// wrapped in AlertPayload. Both are signed over the exact body bytes.
//
// A circuit breaker sheds deliveries while the endpoint is failing and a
// rate limiter bounds outbound request rate.
type WebhookSink struct {
	cfg     WebhookConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[any]
	limiter *rate.Limiter
}

// NewWebhookSink creates a webhook sink.
func NewWebhookSink(cfg WebhookConfig) *WebhookSink {
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 10
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 2
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 5
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	settings := gobreaker.Settings{
		Name:    "webhook",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	}

	return &WebhookSink{
		cfg:     cfg,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
	}
}

// Name returns the sink name.
func (s *WebhookSink) Name() string { return "webhook" }

// Enabled reports whether the sink is configured for delivery.
func (s *WebhookSink) Enabled() bool {
	return s.cfg.Enabled && s.cfg.URL != ""
}

// Forward posts one event, serialized as its bare JSON, signed over the
// body bytes.
func (s *WebhookSink) Forward(ctx context.Context, event *models.SecurityEvent) error {
	if !s.Enabled() {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	return s.post(ctx, body, "event")
}

// Send posts one alert wrapped in AlertPayload.
func (s *WebhookSink) Send(ctx context.Context, alert *models.SecurityAlert) error {
	if !s.Enabled() {
		return nil
	}
	body, err := json.Marshal(AlertPayload{
		Kind:      "security_alert",
		Timestamp: time.Now(),
		Source:    "praesidio",
		Alert:     alert,
	})
	if err != nil {
		return fmt.Errorf("marshal alert payload: %w", err)
	}
	return s.post(ctx, body, "alert")
}

// BreakerState exposes the circuit breaker state for the status surface.
func (s *WebhookSink) BreakerState() string {
	return s.breaker.State().String()
}

func (s *WebhookSink) post(ctx context.Context, body []byte, kind string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook rate limit: %w", err)
	}

	_, err := s.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create webhook request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(headerKind, kind)
		if s.cfg.Secret != "" {
			req.Header.Set(headerSignature, Signature([]byte(s.cfg.Secret), body))
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("send webhook: %w", err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}

// Signature computes the hex-encoded HMAC-SHA256 of body under secret, in
// the header form "sha256=<hex>". Receivers recompute it over the exact
// body bytes to authenticate deliveries.
func Signature(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
