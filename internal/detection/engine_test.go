// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package detection

import (
	"fmt"
	"testing"
	"time"

	"github.com/petram44/praesidio/internal/models"
)

var testNow = time.Date(2026, 6, 2, 15, 4, 5, 0, time.UTC)

// burst fabricates n events of one type from one source, spaced one second
// apart ending just before now.
func burst(n int, typ models.EventType, source, actor string, now time.Time) []*models.SecurityEvent {
	events := make([]*models.SecurityEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, &models.SecurityEvent{
			ID:            fmt.Sprintf("%s-%s-%d", typ, source, i),
			Type:          typ,
			Timestamp:     now.Add(-time.Duration(n-i) * time.Second),
			ActorID:       actor,
			SourceAddress: source,
		})
	}
	return events
}

func newTestEngine(t *testing.T, cfg EngineConfig) *Engine {
	t.Helper()
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func alertsForPattern(alerts []*models.SecurityAlert, pattern string) []*models.SecurityAlert {
	var out []*models.SecurityAlert
	for _, a := range alerts {
		if a.Pattern == pattern {
			out = append(out, a)
		}
	}
	return out
}

func TestBruteForceThresholdMet(t *testing.T) {
	engine := newTestEngine(t, DefaultEngineConfig())
	events := burst(10, models.EventAuthFailure, "1.2.3.4", "alice", testNow)

	alerts := engine.Detect(testNow, events)
	brute := alertsForPattern(alerts, "Brute Force Attack")
	if len(brute) != 1 {
		t.Fatalf("got %d Brute Force Attack alerts, want 1", len(brute))
	}
	alert := brute[0]
	if alert.Severity != models.SeverityHigh {
		t.Errorf("severity = %s, want high", alert.Severity)
	}
	if alert.Metrics.EventCount != 10 {
		t.Errorf("EventCount = %d, want 10", alert.Metrics.EventCount)
	}
	if alert.Metrics.AffectedIPs != 1 {
		t.Errorf("AffectedIPs = %d, want 1", alert.Metrics.AffectedIPs)
	}
	if alert.Kind != models.AlertKindThresholdExceeded {
		t.Errorf("Kind = %s, want threshold_exceeded", alert.Kind)
	}
	if alert.Status != models.AlertStatusOpen {
		t.Errorf("Status = %s, want open", alert.Status)
	}
	if len(alert.EventIDs) != 10 {
		t.Errorf("EventIDs carries %d ids, want 10", len(alert.EventIDs))
	}
}

func TestBruteForceBelowThreshold(t *testing.T) {
	engine := newTestEngine(t, DefaultEngineConfig())
	events := burst(9, models.EventAuthFailure, "1.2.3.4", "alice", testNow)

	alerts := engine.Detect(testNow, events)
	if got := alertsForPattern(alerts, "Brute Force Attack"); len(got) != 0 {
		t.Errorf("got %d Brute Force Attack alerts for 9 events, want 0", len(got))
	}
}

func TestEventAtWindowBoundaryExcluded(t *testing.T) {
	engine := newTestEngine(t, DefaultEngineConfig())
	window := 5 * time.Minute

	events := burst(9, models.EventAuthFailure, "1.2.3.4", "", testNow)
	atBoundary := &models.SecurityEvent{
		ID:            "boundary",
		Type:          models.EventAuthFailure,
		Timestamp:     testNow.Add(-window),
		SourceAddress: "1.2.3.4",
	}
	events = append(events, atBoundary)

	alerts := engine.Detect(testNow, events)
	if got := alertsForPattern(alerts, "Brute Force Attack"); len(got) != 0 {
		t.Errorf("event exactly at now-window counted toward threshold; got %d alerts, want 0", len(got))
	}

	// Nudge the boundary event strictly inside the window and the
	// threshold is met.
	atBoundary.Timestamp = testNow.Add(-window).Add(time.Millisecond)
	alerts = engine.Detect(testNow, events)
	if got := alertsForPattern(alerts, "Brute Force Attack"); len(got) != 1 {
		t.Errorf("got %d alerts with all 10 events inside window, want 1", len(got))
	}
}

func TestGroupingBySourceAddress(t *testing.T) {
	engine := newTestEngine(t, DefaultEngineConfig())

	events := burst(6, models.EventAuthFailure, "1.1.1.1", "", testNow)
	events = append(events, burst(4, models.EventAuthFailure, "2.2.2.2", "", testNow)...)

	alerts := engine.Detect(testNow, events)
	if got := alertsForPattern(alerts, "Brute Force Attack"); len(got) != 0 {
		t.Errorf("10 events split across sources fired %d alerts, want 0", len(got))
	}

	events = append(events, burst(10, models.EventAuthFailure, "3.3.3.3", "", testNow)...)
	alerts = engine.Detect(testNow.Add(time.Minute), events)
	brute := alertsForPattern(alerts, "Brute Force Attack")
	if len(brute) != 1 {
		t.Fatalf("got %d alerts, want 1 for the single qualifying source", len(brute))
	}
	if brute[0].Metrics.EventCount != 10 {
		t.Errorf("EventCount = %d, want 10 (other sources excluded)", brute[0].Metrics.EventCount)
	}
}

func TestAffectedUsersCountsDistinctActors(t *testing.T) {
	engine := newTestEngine(t, DefaultEngineConfig())

	var events []*models.SecurityEvent
	actors := []string{"alice", "bob", "alice", "carol", "", "", "bob", "alice", "carol", "bob"}
	for i, actor := range actors {
		events = append(events, &models.SecurityEvent{
			ID:            fmt.Sprintf("e-%d", i),
			Type:          models.EventAuthFailure,
			Timestamp:     testNow.Add(-time.Duration(10-i) * time.Second),
			ActorID:       actor,
			SourceAddress: "9.9.9.9",
		})
	}

	alerts := engine.Detect(testNow, events)
	brute := alertsForPattern(alerts, "Brute Force Attack")
	if len(brute) != 1 {
		t.Fatalf("got %d alerts, want 1", len(brute))
	}
	if brute[0].Metrics.AffectedUsers != 3 {
		t.Errorf("AffectedUsers = %d, want 3 distinct actors", brute[0].Metrics.AffectedUsers)
	}
}

func TestOverlappingPatternsBothFire(t *testing.T) {
	engine := newTestEngine(t, DefaultEngineConfig())
	events := burst(50, models.EventAuthFailure, "1.2.3.4", "", testNow)

	alerts := engine.Detect(testNow, events)
	if got := alertsForPattern(alerts, "Brute Force Attack"); len(got) != 1 {
		t.Errorf("Brute Force Attack alerts = %d, want 1", len(got))
	}
	if got := alertsForPattern(alerts, "Account Enumeration"); len(got) != 1 {
		t.Errorf("Account Enumeration alerts = %d, want 1", len(got))
	}
}

func TestInjectionPatternMatchesMixedTypes(t *testing.T) {
	engine := newTestEngine(t, DefaultEngineConfig())

	types := []models.EventType{
		models.EventXSSAttempt,
		models.EventSQLInjection,
		models.EventCommandInjection,
		models.EventSQLInjection,
		models.EventXSSAttempt,
	}
	var events []*models.SecurityEvent
	for i, typ := range types {
		events = append(events, &models.SecurityEvent{
			ID:            fmt.Sprintf("inj-%d", i),
			Type:          typ,
			Timestamp:     testNow.Add(-time.Duration(i+1) * time.Minute),
			SourceAddress: "6.6.6.6",
		})
	}

	alerts := engine.Detect(testNow, events)
	injection := alertsForPattern(alerts, "Injection Attack Pattern")
	if len(injection) != 1 {
		t.Fatalf("got %d Injection Attack Pattern alerts, want 1", len(injection))
	}
	if injection[0].Kind != models.AlertKindThreatDetected {
		t.Errorf("Kind = %s, want threat_detected", injection[0].Kind)
	}
	if injection[0].Severity != models.SeverityHigh {
		t.Errorf("Severity = %s, want high", injection[0].Severity)
	}
}

func TestCooldownSuppressesRepeatEmission(t *testing.T) {
	engine := newTestEngine(t, DefaultEngineConfig())

	// Anchor inside a bucket so the second evaluation lands in the same
	// window bucket.
	bucketStart := time.Unix((testNow.Unix()/300)*300, 0).UTC()
	now := bucketStart.Add(30 * time.Second)
	events := burst(10, models.EventAuthFailure, "1.2.3.4", "", now)

	first := engine.Detect(now, events)
	if got := alertsForPattern(first, "Brute Force Attack"); len(got) != 1 {
		t.Fatalf("first evaluation fired %d alerts, want 1", len(got))
	}

	second := engine.Detect(now.Add(10*time.Second), events)
	if got := alertsForPattern(second, "Brute Force Attack"); len(got) != 0 {
		t.Errorf("second evaluation in the same bucket fired %d alerts, want 0 (cooldown)", len(got))
	}

	snap := engine.Metrics()
	if snap.SuppressedByCooldown == 0 {
		t.Error("SuppressedByCooldown = 0, want at least 1")
	}

	// A fresh qualifying burst in the next bucket fires again.
	nextBucket := bucketStart.Add(5 * time.Minute).Add(30 * time.Second)
	third := engine.Detect(nextBucket, burst(10, models.EventAuthFailure, "1.2.3.4", "", nextBucket))
	if got := alertsForPattern(third, "Brute Force Attack"); len(got) != 1 {
		t.Errorf("next bucket fired %d alerts, want 1", len(got))
	}
}

func TestCooldownDisabledRefires(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{CooldownEnabled: false})
	events := burst(10, models.EventAuthFailure, "1.2.3.4", "", testNow)

	for i := 0; i < 3; i++ {
		alerts := engine.Detect(testNow.Add(time.Duration(i)*time.Second), events)
		if got := alertsForPattern(alerts, "Brute Force Attack"); len(got) != 1 {
			t.Errorf("evaluation %d fired %d alerts, want 1 (no cooldown)", i, len(got))
		}
	}
}

func TestDetectWithNoEvents(t *testing.T) {
	engine := newTestEngine(t, DefaultEngineConfig())
	if alerts := engine.Detect(testNow, nil); len(alerts) != 0 {
		t.Errorf("Detect(nil) = %d alerts, want 0", len(alerts))
	}
}

func TestEngineMetricsCount(t *testing.T) {
	engine := newTestEngine(t, DefaultEngineConfig())
	events := burst(10, models.EventAuthFailure, "1.2.3.4", "", testNow)

	engine.Detect(testNow, events)
	engine.Detect(testNow.Add(time.Second), nil)

	snap := engine.Metrics()
	if snap.EventsEvaluated != 10 {
		t.Errorf("EventsEvaluated = %d, want 10", snap.EventsEvaluated)
	}
	if snap.AlertsGenerated != 1 {
		t.Errorf("AlertsGenerated = %d, want 1", snap.AlertsGenerated)
	}
	if snap.PatternTriggers["Brute Force Attack"] != 1 {
		t.Errorf("PatternTriggers[Brute Force Attack] = %d, want 1", snap.PatternTriggers["Brute Force Attack"])
	}
	if snap.LastEvaluatedAt.IsZero() {
		t.Error("LastEvaluatedAt not recorded")
	}
}

func TestMaxWindowSpansLongestPattern(t *testing.T) {
	engine := newTestEngine(t, DefaultEngineConfig())
	if got := engine.MaxWindow(); got != 15*time.Minute {
		t.Errorf("MaxWindow = %s, want 15m (Injection Attack Pattern)", got)
	}
}
