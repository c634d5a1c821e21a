// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package api

import (
	"net/http"
	"testing"

	"github.com/petram44/praesidio/internal/models"
)

func TestHealth_ReportsPipelineCounts(t *testing.T) {
	api := newTestAPI(t, nil)
	api.facade.LogEvent(&models.SecurityEvent{
		Type:          models.EventAuthFailure,
		SourceAddress: "10.9.9.9",
	})

	rec := doRequest(t, api.router, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var health HealthStatus
	decodeData(t, decodeEnvelope(t, rec), &health)
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
	if health.Version != "test" {
		t.Errorf("version = %q, want test", health.Version)
	}
	if health.StoredEvents != 1 {
		t.Errorf("stored_events = %d, want 1", health.StoredEvents)
	}
	if health.UptimeSeconds < 0 {
		t.Errorf("uptime_seconds = %f, want >= 0", health.UptimeSeconds)
	}
}

func TestHealthReady_NilFacade(t *testing.T) {
	cfg := newTestConfig()
	handler := NewHandler(nil, nil, nil, cfg, "test")
	router := NewRouter(handler, NewChiMiddleware(NewChiMiddlewareConfig(cfg)), nil).Setup()

	rec := doRequest(t, router, "GET", "/health/ready", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestMetricsSummary_AggregatesWindow(t *testing.T) {
	api := newTestAPI(t, nil)
	for i := 0; i < 3; i++ {
		api.facade.LogEvent(&models.SecurityEvent{
			Type:          models.EventAuthFailure,
			SourceAddress: "172.16.0.4",
		})
	}
	api.facade.LogEvent(&models.SecurityEvent{
		Type:          models.EventSQLInjection,
		SourceAddress: "172.16.0.5",
	})

	rec := doRequest(t, api.router, "GET", "/api/v1/metrics/summary?hours=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var summary models.MetricsSummary
	decodeData(t, decodeEnvelope(t, rec), &summary)
	if summary.TimeRangeHours != 2 {
		t.Errorf("time_range_hours = %d, want 2", summary.TimeRangeHours)
	}
	if summary.TotalEvents != 4 {
		t.Errorf("total_events = %d, want 4", summary.TotalEvents)
	}
	if got := summary.EventsByType[models.EventAuthFailure]; got != 3 {
		t.Errorf("events_by_type[auth.failure] = %d, want 3", got)
	}
	if got := summary.EventsBySeverity[models.SeverityHigh]; got != 1 {
		t.Errorf("events_by_severity[high] = %d, want 1", got)
	}
	if len(summary.TopSources) == 0 {
		t.Error("top_sources empty")
	}
	if summary.GeneratedAt.IsZero() {
		t.Error("generated_at not set")
	}
}

func TestMetricsSummary_DefaultWindow(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := doRequest(t, api.router, "GET", "/api/v1/metrics/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var summary models.MetricsSummary
	decodeData(t, decodeEnvelope(t, rec), &summary)
	if summary.TimeRangeHours != 24 {
		t.Errorf("time_range_hours = %d, want 24 default", summary.TimeRangeHours)
	}
}

func TestMetricsSummary_RejectsOutOfRangeHours(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := doRequest(t, api.router, "GET", "/api/v1/metrics/summary?hours=-1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDetectionStatus_ListsPatterns(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := doRequest(t, api.router, "GET", "/api/v1/detection/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var status struct {
		Patterns []struct {
			Name      string `json:"name"`
			Threshold int    `json:"threshold"`
		} `json:"patterns"`
		Store struct {
			Events   int `json:"events"`
			Capacity int `json:"capacity"`
		} `json:"store"`
		OpenAlerts int `json:"open_alerts"`
	}
	decodeData(t, decodeEnvelope(t, rec), &status)

	if len(status.Patterns) != 6 {
		t.Errorf("len(patterns) = %d, want 6 builtins", len(status.Patterns))
	}
	for _, p := range status.Patterns {
		if p.Name == "" || p.Threshold <= 0 {
			t.Errorf("pattern %+v incomplete", p)
		}
	}
	if status.Store.Capacity <= 0 {
		t.Errorf("store capacity = %d, want > 0", status.Store.Capacity)
	}
}

func TestAuditTrail_DisabledWithoutRecorder(t *testing.T) {
	cfg := newTestConfig()
	api := newTestAPI(t, cfg)
	handler := NewHandler(api.facade, nil, nil, cfg, "test")
	router := NewRouter(handler, NewChiMiddleware(NewChiMiddlewareConfig(cfg)), nil).Setup()

	rec := doRequest(t, router, "GET", "/api/v1/audit", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("error = %+v, want code %s", env.Error, ErrCodeServiceUnavailable)
	}
}

func TestAuditTrail_RejectsUnknownAction(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := doRequest(t, api.router, "GET", "/api/v1/audit?action=reopened", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAuditTrail_FiltersByAction(t *testing.T) {
	api := newTestAPI(t, nil)
	id := triggerAlert(t, api)
	doRequest(t, api.router, "POST", "/api/v1/alerts/"+id+"/acknowledge", map[string]interface{}{
		"acknowledged_by": "analyst-5",
	})
	waitForAuditLen(t, api, 2)

	rec := doRequest(t, api.router, "GET", "/api/v1/audit?action=acknowledged", nil)
	env := decodeEnvelope(t, rec)
	var entries []map[string]interface{}
	decodeData(t, env, &entries)

	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if got := entries[0]["action"]; got != "acknowledged" {
		t.Errorf("action = %v, want acknowledged", got)
	}
	if env.Meta == nil || env.Meta.Count != 1 {
		t.Errorf("meta = %+v, want count 1", env.Meta)
	}
}
