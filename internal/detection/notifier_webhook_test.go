// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package detection

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/petram44/praesidio/internal/models"
)

type capturedRequest struct {
	body        []byte
	signature   string
	kind        string
	contentType string
}

// captureServer records every delivery and answers with status.
func captureServer(t *testing.T, status int) (*httptest.Server, func() []capturedRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []capturedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read webhook body: %v", err)
		}
		mu.Lock()
		requests = append(requests, capturedRequest{
			body:        body,
			signature:   r.Header.Get("X-Praesidio-Signature"),
			kind:        r.Header.Get("X-Praesidio-Kind"),
			contentType: r.Header.Get("Content-Type"),
		})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	return server, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		out := make([]capturedRequest, len(requests))
		copy(out, requests)
		return out
	}
}

func testWebhookConfig(url string) WebhookConfig {
	cfg := DefaultWebhookConfig()
	cfg.Enabled = true
	cfg.URL = url
	cfg.Secret = "test-secret"
	cfg.RatePerSecond = 1000
	cfg.RateBurst = 100
	return cfg
}

func TestWebhookForwardSignsEventBody(t *testing.T) {
	server, captured := captureServer(t, http.StatusOK)
	sink := NewWebhookSink(testWebhookConfig(server.URL))

	event := &models.SecurityEvent{
		ID:            "evt-123",
		Type:          models.EventSQLInjection,
		Timestamp:     time.Date(2026, 6, 2, 15, 4, 5, 0, time.UTC),
		SourceAddress: "1.2.3.4",
		Severity:      models.SeverityCritical,
	}
	if err := sink.Forward(context.Background(), event); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	requests := captured()
	if len(requests) != 1 {
		t.Fatalf("server saw %d requests, want 1", len(requests))
	}
	req := requests[0]

	// The body is the event's bare JSON serialization.
	var got models.SecurityEvent
	if err := json.Unmarshal(req.body, &got); err != nil {
		t.Fatalf("unmarshal delivered body: %v", err)
	}
	if got.ID != event.ID || got.Type != event.Type || got.SourceAddress != event.SourceAddress {
		t.Errorf("delivered event = %+v, want original fields", got)
	}

	// The signature authenticates the exact body bytes.
	if want := Signature([]byte("test-secret"), req.body); req.signature != want {
		t.Errorf("signature = %q, want %q", req.signature, want)
	}
	if req.kind != "event" {
		t.Errorf("kind header = %q, want event", req.kind)
	}
	if req.contentType != "application/json" {
		t.Errorf("content type = %q, want application/json", req.contentType)
	}
}

func TestWebhookSendWrapsAlert(t *testing.T) {
	server, captured := captureServer(t, http.StatusAccepted)
	sink := NewWebhookSink(testWebhookConfig(server.URL))

	alert := &models.SecurityAlert{
		ID:       "alr-9",
		Pattern:  "Brute Force Attack",
		Severity: models.SeverityHigh,
		Status:   models.AlertStatusOpen,
	}
	if err := sink.Send(context.Background(), alert); err != nil {
		t.Fatalf("Send: %v", err)
	}

	requests := captured()
	if len(requests) != 1 {
		t.Fatalf("server saw %d requests, want 1", len(requests))
	}
	req := requests[0]

	var payload AlertPayload
	if err := json.Unmarshal(req.body, &payload); err != nil {
		t.Fatalf("unmarshal delivered body: %v", err)
	}
	if payload.Kind != "security_alert" {
		t.Errorf("payload kind = %q, want security_alert", payload.Kind)
	}
	if payload.Source != "praesidio" {
		t.Errorf("payload source = %q, want praesidio", payload.Source)
	}
	if payload.Alert == nil || payload.Alert.ID != alert.ID {
		t.Errorf("payload alert = %+v, want id %s", payload.Alert, alert.ID)
	}
	if req.kind != "alert" {
		t.Errorf("kind header = %q, want alert", req.kind)
	}
	if want := Signature([]byte("test-secret"), req.body); req.signature != want {
		t.Errorf("signature = %q, want %q", req.signature, want)
	}
}

func TestWebhookUnsignedWithoutSecret(t *testing.T) {
	server, captured := captureServer(t, http.StatusOK)
	cfg := testWebhookConfig(server.URL)
	cfg.Secret = ""
	sink := NewWebhookSink(cfg)

	if err := sink.Send(context.Background(), &models.SecurityAlert{ID: "a"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	requests := captured()
	if len(requests) != 1 {
		t.Fatalf("server saw %d requests, want 1", len(requests))
	}
	if requests[0].signature != "" {
		t.Errorf("unsigned delivery carried signature %q", requests[0].signature)
	}
}

func TestWebhookDisabledSkipsDelivery(t *testing.T) {
	server, captured := captureServer(t, http.StatusOK)
	cfg := testWebhookConfig(server.URL)
	cfg.Enabled = false
	sink := NewWebhookSink(cfg)

	if err := sink.Send(context.Background(), &models.SecurityAlert{ID: "a"}); err != nil {
		t.Errorf("disabled Send = %v, want nil", err)
	}
	if err := sink.Forward(context.Background(), &models.SecurityEvent{ID: "e"}); err != nil {
		t.Errorf("disabled Forward = %v, want nil", err)
	}
	if got := captured(); len(got) != 0 {
		t.Errorf("disabled sink delivered %d requests, want 0", len(got))
	}
}

func TestWebhookErrorStatusNoRetry(t *testing.T) {
	server, captured := captureServer(t, http.StatusInternalServerError)
	sink := NewWebhookSink(testWebhookConfig(server.URL))

	err := sink.Send(context.Background(), &models.SecurityAlert{ID: "a"})
	if err == nil {
		t.Fatal("Send = nil for 500 response, want error")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error %q does not carry the status", err)
	}
	if got := captured(); len(got) != 1 {
		t.Errorf("server saw %d requests, want 1 (no retries)", len(got))
	}
}

func TestWebhookBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	server, captured := captureServer(t, http.StatusBadGateway)
	cfg := testWebhookConfig(server.URL)
	cfg.FailureThreshold = 2
	sink := NewWebhookSink(cfg)

	alert := &models.SecurityAlert{ID: "a"}
	for i := 0; i < 2; i++ {
		if err := sink.Send(context.Background(), alert); err == nil {
			t.Fatalf("Send %d = nil, want error", i)
		}
	}

	err := sink.Send(context.Background(), alert)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Send after threshold = %v, want ErrOpenState", err)
	}
	if got := captured(); len(got) != 2 {
		t.Errorf("server saw %d requests, want 2 (breaker sheds the third)", len(got))
	}
	if state := sink.BreakerState(); state != "open" {
		t.Errorf("BreakerState = %q, want open", state)
	}
}

func TestSignatureFormat(t *testing.T) {
	sig := Signature([]byte("secret"), []byte(`{"id":"evt-1"}`))
	if !strings.HasPrefix(sig, "sha256=") {
		t.Errorf("signature %q missing sha256= prefix", sig)
	}
	if len(sig) != len("sha256=")+64 {
		t.Errorf("signature length = %d, want %d", len(sig), len("sha256=")+64)
	}
	if other := Signature([]byte("other"), []byte(`{"id":"evt-1"}`)); other == sig {
		t.Error("different secrets produced identical signatures")
	}
	if again := Signature([]byte("secret"), []byte(`{"id":"evt-1"}`)); again != sig {
		t.Error("signature not deterministic for identical inputs")
	}
}
