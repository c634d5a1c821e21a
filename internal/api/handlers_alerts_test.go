// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/petram44/praesidio/internal/models"
)

func TestListAlerts_DefaultReturnsNonTerminal(t *testing.T) {
	api := newTestAPI(t, nil)
	triggerAlert(t, api)

	rec := doRequest(t, api.router, "GET", "/api/v1/alerts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var alerts []*models.SecurityAlert
	decodeData(t, env, &alerts)

	if len(alerts) != 1 {
		t.Fatalf("len(alerts) = %d, want 1", len(alerts))
	}
	if alerts[0].Pattern != "Session Hijacking Pattern" {
		t.Errorf("pattern = %q, want Session Hijacking Pattern", alerts[0].Pattern)
	}
	if alerts[0].Status != models.AlertStatusOpen {
		t.Errorf("status = %q, want open", alerts[0].Status)
	}
	if alerts[0].Severity != models.SeverityCritical {
		t.Errorf("severity = %q, want critical", alerts[0].Severity)
	}
}

func TestListAlerts_StatusFilter(t *testing.T) {
	api := newTestAPI(t, nil)
	id := triggerAlert(t, api)
	if _, err := api.facade.ResolveAlert(id, "handled"); err != nil {
		t.Fatalf("ResolveAlert() error = %v", err)
	}

	rec := doRequest(t, api.router, "GET", "/api/v1/alerts?status=resolved", nil)
	var alerts []*models.SecurityAlert
	decodeData(t, decodeEnvelope(t, rec), &alerts)
	if len(alerts) != 1 || alerts[0].ID != id {
		t.Fatalf("resolved alerts = %+v, want the closed alert", alerts)
	}

	rec = doRequest(t, api.router, "GET", "/api/v1/alerts?status=open", nil)
	decodeData(t, decodeEnvelope(t, rec), &alerts)
	if len(alerts) != 0 {
		t.Errorf("open alerts = %d, want 0", len(alerts))
	}
}

func TestListAlerts_InvalidStatusRejected(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := doRequest(t, api.router, "GET", "/api/v1/alerts?status=escalated", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v, want code %s", env.Error, ErrCodeValidationFailed)
	}
}

func TestGetAlert_NotFound(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := doRequest(t, api.router, "GET", "/api/v1/alerts/alert-missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Message != "alert not found" {
		t.Errorf("error = %+v, want alert not found", env.Error)
	}
}

func TestAcknowledgeAlert_Transition(t *testing.T) {
	api := newTestAPI(t, nil)
	id := triggerAlert(t, api)

	rec := doRequest(t, api.router, "POST", "/api/v1/alerts/"+id+"/acknowledge", map[string]interface{}{
		"acknowledged_by": "analyst-7",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var alert models.SecurityAlert
	decodeData(t, decodeEnvelope(t, rec), &alert)
	if alert.Status != models.AlertStatusAcknowledged {
		t.Errorf("status = %q, want acknowledged", alert.Status)
	}
	if alert.AcknowledgedBy != "analyst-7" {
		t.Errorf("acknowledged_by = %q, want analyst-7", alert.AcknowledgedBy)
	}
	if alert.AcknowledgedAt == nil {
		t.Error("acknowledged_at not set")
	}
}

func TestAcknowledgeAlert_RequiresActor(t *testing.T) {
	api := newTestAPI(t, nil)
	id := triggerAlert(t, api)

	rec := doRequest(t, api.router, "POST", "/api/v1/alerts/"+id+"/acknowledge", map[string]interface{}{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAcknowledgeAlert_UnknownAlert(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := doRequest(t, api.router, "POST", "/api/v1/alerts/alert-missing/acknowledge", map[string]interface{}{
		"acknowledged_by": "analyst-7",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSilenceAlert_SetsDeadline(t *testing.T) {
	api := newTestAPI(t, nil)
	id := triggerAlert(t, api)

	rec := doRequest(t, api.router, "POST", "/api/v1/alerts/"+id+"/silence", map[string]interface{}{
		"duration_minutes": 30,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var alert models.SecurityAlert
	decodeData(t, decodeEnvelope(t, rec), &alert)
	if alert.SilencedUntil == nil {
		t.Fatal("silenced_until not set")
	}
	remaining := time.Until(*alert.SilencedUntil)
	if remaining < 29*time.Minute || remaining > 31*time.Minute {
		t.Errorf("silenced_until %v from now, want ~30m", remaining)
	}
	if alert.Status != models.AlertStatusOpen {
		t.Errorf("status = %q, want open (silencing is not a lifecycle transition)", alert.Status)
	}
}

func TestSilenceAlert_ValidationRejectsZeroAndNegative(t *testing.T) {
	api := newTestAPI(t, nil)
	id := triggerAlert(t, api)

	for _, minutes := range []int{0, -5} {
		rec := doRequest(t, api.router, "POST", "/api/v1/alerts/"+id+"/silence", map[string]interface{}{
			"duration_minutes": minutes,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("duration %d: status = %d, want 400", minutes, rec.Code)
		}
	}
}

func TestResolveAlert_ClosesAlert(t *testing.T) {
	api := newTestAPI(t, nil)
	id := triggerAlert(t, api)

	rec := doRequest(t, api.router, "POST", "/api/v1/alerts/"+id+"/resolve", map[string]interface{}{
		"notes": "blocked at the edge",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var alert models.SecurityAlert
	decodeData(t, decodeEnvelope(t, rec), &alert)
	if alert.Status != models.AlertStatusResolved {
		t.Errorf("status = %q, want resolved", alert.Status)
	}
	if alert.ResolvedAt == nil {
		t.Error("resolved_at not set")
	}
	if alert.Notes != "blocked at the edge" {
		t.Errorf("notes = %q, want blocked at the edge", alert.Notes)
	}
}

func TestResolveAlert_TwiceConflicts(t *testing.T) {
	api := newTestAPI(t, nil)
	id := triggerAlert(t, api)

	rec := doRequest(t, api.router, "POST", "/api/v1/alerts/"+id+"/resolve", map[string]interface{}{})
	if rec.Code != http.StatusOK {
		t.Fatalf("first resolve: status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, api.router, "POST", "/api/v1/alerts/"+id+"/resolve", map[string]interface{}{})
	if rec.Code != http.StatusConflict {
		t.Fatalf("second resolve: status = %d, want 409", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != ErrCodeConflict {
		t.Errorf("error = %+v, want code %s", env.Error, ErrCodeConflict)
	}
}

func TestMarkAlertFalsePositive(t *testing.T) {
	api := newTestAPI(t, nil)
	id := triggerAlert(t, api)

	rec := doRequest(t, api.router, "POST", "/api/v1/alerts/"+id+"/false-positive", map[string]interface{}{
		"notes": "pen test traffic",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var alert models.SecurityAlert
	decodeData(t, decodeEnvelope(t, rec), &alert)
	if alert.Status != models.AlertStatusFalsePositive {
		t.Errorf("status = %q, want false_positive", alert.Status)
	}

	// Closed alerts reject further silencing.
	rec = doRequest(t, api.router, "POST", "/api/v1/alerts/"+id+"/silence", map[string]interface{}{
		"duration_minutes": 10,
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("silence after close: status = %d, want 409", rec.Code)
	}
}

func TestAlertLifecycle_RecordsAuditEntries(t *testing.T) {
	api := newTestAPI(t, nil)
	id := triggerAlert(t, api)

	doRequest(t, api.router, "POST", "/api/v1/alerts/"+id+"/acknowledge", map[string]interface{}{
		"acknowledged_by": "analyst-3",
	})
	doRequest(t, api.router, "POST", "/api/v1/alerts/"+id+"/resolve", map[string]interface{}{
		"notes": "contained",
	})
	waitForAuditLen(t, api, 3)

	rec := doRequest(t, api.router, "GET", "/api/v1/audit?alert_id="+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var entries []map[string]interface{}
	decodeData(t, env, &entries)

	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3 (created, acknowledged, resolved)", len(entries))
	}
	// Newest first.
	wantActions := []string{"resolved", "acknowledged", "created"}
	for i, want := range wantActions {
		if got := entries[i]["action"]; got != want {
			t.Errorf("entries[%d].action = %v, want %s", i, got, want)
		}
	}
	if got := entries[1]["actor"]; got != "analyst-3" {
		t.Errorf("acknowledged actor = %v, want analyst-3", got)
	}
}
