// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package eventstore

import (
	"fmt"
	"testing"
	"time"

	"github.com/petram44/praesidio/internal/models"
)

func makeEvent(id string, typ models.EventType, actor, source string, ts time.Time) *models.SecurityEvent {
	return &models.SecurityEvent{
		ID:            id,
		Type:          typ,
		Severity:      models.SeverityMedium,
		Timestamp:     ts,
		ActorID:       actor,
		SourceAddress: source,
	}
}

func TestAddGetRoundTrip(t *testing.T) {
	store := New(DefaultConfig())
	event := makeEvent("e-1", models.EventAuthFailure, "alice", "203.0.113.9", time.Now())
	store.Add(event)

	got, ok := store.Get("e-1")
	if !ok {
		t.Fatal("Get(e-1) not found after Add")
	}
	if got.ID != "e-1" || got.ActorID != "alice" || got.SourceAddress != "203.0.113.9" {
		t.Errorf("Get returned wrong event: %+v", got)
	}
	if _, ok := store.Get("missing"); ok {
		t.Error("Get(missing) = ok, want not found")
	}
}

func TestIndexLookupsHonorLimitAndOrder(t *testing.T) {
	store := New(DefaultConfig())
	base := time.Now()
	for i := 0; i < 20; i++ {
		store.Add(makeEvent(fmt.Sprintf("e-%d", i), models.EventAuthFailure, "alice", "203.0.113.9", base.Add(time.Duration(i)*time.Second)))
	}

	got := store.ByActor("alice", 5)
	if len(got) != 5 {
		t.Fatalf("ByActor returned %d events, want 5", len(got))
	}
	// Newest five, insertion order preserved within the slice.
	for i, event := range got {
		want := fmt.Sprintf("e-%d", 15+i)
		if event.ID != want {
			t.Errorf("ByActor[%d] = %s, want %s", i, event.ID, want)
		}
	}

	if n := len(store.BySource("203.0.113.9", 7)); n != 7 {
		t.Errorf("BySource returned %d events, want 7", n)
	}
	if n := len(store.ByType(models.EventAuthFailure, 100)); n != 20 {
		t.Errorf("ByType returned %d events, want all 20", n)
	}
}

func TestByTypeNeverExceedsLimit(t *testing.T) {
	store := New(DefaultConfig())
	for i := 0; i < 50; i++ {
		store.Add(makeEvent(fmt.Sprintf("e-%d", i), models.EventScanDetected, "", "198.51.100.1", time.Now()))
	}
	for _, limit := range []int{1, 10, 49, 50, 500} {
		got := store.ByType(models.EventScanDetected, limit)
		want := limit
		if want > 50 {
			want = 50
		}
		if len(got) != want {
			t.Errorf("ByType(limit=%d) returned %d events, want %d", limit, len(got), want)
		}
	}
}

func TestIndexCapDropsOldest(t *testing.T) {
	store := New(Config{Capacity: 1000, IndexCap: 10})
	for i := 0; i < 25; i++ {
		store.Add(makeEvent(fmt.Sprintf("e-%d", i), models.EventAuthFailure, "bob", "192.0.2.7", time.Now()))
	}

	got := store.ByActor("bob", 0)
	if len(got) != 10 {
		t.Fatalf("index holds %d entries, want capped at 10", len(got))
	}
	if got[0].ID != "e-15" {
		t.Errorf("oldest surviving entry = %s, want e-15", got[0].ID)
	}
	if got[len(got)-1].ID != "e-24" {
		t.Errorf("newest entry = %s, want e-24", got[len(got)-1].ID)
	}
}

func TestPrimaryEvictionSkipsDanglingIndexIDs(t *testing.T) {
	store := New(Config{Capacity: 5, IndexCap: 100})
	for i := 0; i < 8; i++ {
		store.Add(makeEvent(fmt.Sprintf("e-%d", i), models.EventScanDetected, "carol", "192.0.2.1", time.Now()))
	}

	if store.Size() != 5 {
		t.Fatalf("Size = %d, want 5 after ring wrap", store.Size())
	}
	if _, ok := store.Get("e-0"); ok {
		t.Error("e-0 still retrievable after eviction")
	}

	got := store.ByActor("carol", 0)
	if len(got) != 5 {
		t.Fatalf("ByActor returned %d events, want 5 live ones", len(got))
	}
	for _, event := range got {
		if event.ID == "e-0" || event.ID == "e-1" || event.ID == "e-2" {
			t.Errorf("evicted event %s returned from index lookup", event.ID)
		}
	}

	stats := store.Stats()
	if stats.TotalEvicted != 3 {
		t.Errorf("Stats.TotalEvicted = %d, want 3", stats.TotalEvicted)
	}
}

func TestRecentWindowBoundaryIsExclusive(t *testing.T) {
	store := New(DefaultConfig())
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	window := 5 * time.Minute
	store.Add(makeEvent("at-cutoff", models.EventAuthFailure, "", "1.2.3.4", now.Add(-window)))
	store.Add(makeEvent("inside", models.EventAuthFailure, "", "1.2.3.4", now.Add(-window).Add(time.Millisecond)))
	store.Add(makeEvent("outside", models.EventAuthFailure, "", "1.2.3.4", now.Add(-window).Add(-time.Second)))

	got := store.Recent(window, 0)
	if len(got) != 1 {
		t.Fatalf("Recent returned %d events, want 1", len(got))
	}
	if got[0].ID != "inside" {
		t.Errorf("Recent returned %s, want inside", got[0].ID)
	}
}

func TestRecentSortsDescendingAndTruncates(t *testing.T) {
	store := New(DefaultConfig())
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		store.Add(makeEvent(fmt.Sprintf("e-%d", i), models.EventScanDetected, "", "1.2.3.4", now.Add(-time.Duration(i)*time.Second)))
	}

	got := store.Recent(time.Minute, 3)
	if len(got) != 3 {
		t.Fatalf("Recent returned %d events, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Errorf("Recent not sorted descending at index %d", i)
		}
	}
	if got[0].ID != "e-0" {
		t.Errorf("newest event = %s, want e-0", got[0].ID)
	}
}

func TestEventsWithoutActorSkipActorIndex(t *testing.T) {
	store := New(DefaultConfig())
	store.Add(makeEvent("e-1", models.EventScanDetected, "", "203.0.113.5", time.Now()))

	if n := len(store.ByActor("", 0)); n != 0 {
		t.Errorf("ByActor(\"\") returned %d events, want 0", n)
	}
	if n := len(store.BySource("203.0.113.5", 0)); n != 1 {
		t.Errorf("BySource returned %d events, want 1", n)
	}
	if store.Stats().ActorKeys != 0 {
		t.Errorf("ActorKeys = %d, want 0", store.Stats().ActorKeys)
	}
}

func TestResolveAttachesRecord(t *testing.T) {
	store := New(DefaultConfig())
	store.Add(makeEvent("e-1", models.EventAuthFailure, "alice", "1.2.3.4", time.Now()))

	if err := store.Resolve("e-1", "ops", "confirmed benign"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	got, _ := store.Get("e-1")
	if got.Resolution == nil {
		t.Fatal("Resolution not attached")
	}
	if got.Resolution.ResolvedBy != "ops" {
		t.Errorf("ResolvedBy = %s, want ops", got.Resolution.ResolvedBy)
	}

	if err := store.Resolve("missing", "ops", ""); err != ErrEventNotFound {
		t.Errorf("Resolve(missing) error = %v, want ErrEventNotFound", err)
	}
}

func TestDuplicateIDOverwritesWithoutReindex(t *testing.T) {
	store := New(DefaultConfig())
	store.Add(makeEvent("e-1", models.EventAuthFailure, "alice", "1.2.3.4", time.Now()))
	store.Add(makeEvent("e-1", models.EventAuthFailure, "alice", "1.2.3.4", time.Now()))

	if n := len(store.ByActor("alice", 0)); n != 1 {
		t.Errorf("index entries = %d after duplicate add, want 1", n)
	}
	if store.Stats().TotalAdded != 1 {
		t.Errorf("TotalAdded = %d, want 1", store.Stats().TotalAdded)
	}
}
