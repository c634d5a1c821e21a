// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package eventstore

import (
	"container/ring"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/petram44/praesidio/internal/models"
)

const (
	// DefaultCapacity bounds the primary event storage.
	DefaultCapacity = 100_000

	// DefaultIndexCap bounds each secondary index key's ID list.
	DefaultIndexCap = 10_000
)

// ErrEventNotFound is returned when an event ID is unknown or evicted.
var ErrEventNotFound = errors.New("event not found")

// Config sizes the store.
type Config struct {
	// Capacity is the maximum number of events held in primary storage.
	Capacity int
	// IndexCap is the maximum ID-list length per secondary index key.
	IndexCap int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{Capacity: DefaultCapacity, IndexCap: DefaultIndexCap}
}

// Stats is a point-in-time snapshot of store occupancy.
type Stats struct {
	Events       int `json:"events"`
	Capacity     int `json:"capacity"`
	ActorKeys    int `json:"actor_keys"`
	SourceKeys   int `json:"source_keys"`
	TypeKeys     int `json:"type_keys"`
	IndexCap     int `json:"index_cap"`
	TotalAdded   int `json:"total_added"`
	TotalEvicted int `json:"total_evicted"`
}

// Store is the in-memory event registry. It exclusively owns the event
// records it holds; events are immutable, so reads hand out the stored
// pointers directly.
type Store struct {
	mu sync.RWMutex

	cfg    Config
	events map[string]*models.SecurityEvent

	// slots is a fixed ring of event IDs; writing over an occupied slot
	// evicts that event from the primary map.
	slots *ring.Ring

	byActor  map[string][]string
	bySource map[string][]string
	byType   map[models.EventType][]string

	added   int
	evicted int

	// now is replaceable in tests for deterministic window cutoffs.
	now func() time.Time
}

// New creates a store. Zero config values fall back to defaults.
func New(cfg Config) *Store {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.IndexCap <= 0 {
		cfg.IndexCap = DefaultIndexCap
	}
	return &Store{
		cfg:      cfg,
		events:   make(map[string]*models.SecurityEvent),
		slots:    ring.New(cfg.Capacity),
		byActor:  make(map[string][]string),
		bySource: make(map[string][]string),
		byType:   make(map[models.EventType][]string),
		now:      time.Now,
	}
}

// Add inserts an event into primary storage and appends its ID to the
// actor, source, and type indices. When primary storage is full the oldest
// event is evicted; its index entries become dangling and are skipped on
// read and dropped by subsequent trims. Duplicate IDs overwrite the primary
// record without re-indexing.
func (s *Store) Add(event *models.SecurityEvent) {
	if event == nil || event.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[event.ID]; exists {
		s.events[event.ID] = event
		return
	}

	if s.slots.Value != nil {
		old := s.slots.Value.(string)
		delete(s.events, old)
		s.evicted++
	}
	s.slots.Value = event.ID
	s.slots = s.slots.Next()

	s.events[event.ID] = event
	s.added++

	if event.ActorID != "" {
		s.byActor[event.ActorID] = s.appendTrimmed(s.byActor[event.ActorID], event.ID)
	}
	if event.SourceAddress != "" {
		s.bySource[event.SourceAddress] = s.appendTrimmed(s.bySource[event.SourceAddress], event.ID)
	}
	s.byType[event.Type] = s.appendTrimmed(s.byType[event.Type], event.ID)
}

// appendTrimmed appends an ID and enforces the index cap, dropping oldest
// entries first. The trim pass also drops IDs already evicted from primary
// storage so dangling references age out.
func (s *Store) appendTrimmed(ids []string, id string) []string {
	ids = append(ids, id)
	if len(ids) <= s.cfg.IndexCap {
		return ids
	}
	trimmed := make([]string, 0, s.cfg.IndexCap)
	for _, candidate := range ids[len(ids)-s.cfg.IndexCap:] {
		if _, live := s.events[candidate]; live {
			trimmed = append(trimmed, candidate)
		}
	}
	return trimmed
}

// Get returns the event with the given ID, if still held.
func (s *Store) Get(id string) (*models.SecurityEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[id]
	return event, ok
}

// ByActor returns the newest events recorded for an actor, up to limit, in
// insertion order (oldest of the selected tail first).
func (s *Store) ByActor(actorID string, limit int) []*models.SecurityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveTail(s.byActor[actorID], limit)
}

// BySource returns the newest events recorded for a source address, up to
// limit, in insertion order.
func (s *Store) BySource(address string, limit int) []*models.SecurityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveTail(s.bySource[address], limit)
}

// ByType returns the newest events of a type, up to limit, in insertion
// order.
func (s *Store) ByType(eventType models.EventType, limit int) []*models.SecurityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveTail(s.byType[eventType], limit)
}

// resolveTail materializes the newest limit IDs of an index list, skipping
// IDs evicted from primary storage. Callers hold at least the read lock.
func (s *Store) resolveTail(ids []string, limit int) []*models.SecurityEvent {
	if limit <= 0 {
		limit = len(ids)
	}
	out := make([]*models.SecurityEvent, 0, min(limit, len(ids)))
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		if event, ok := s.events[ids[i]]; ok {
			out = append(out, event)
		}
	}
	// Walked tail-first; restore insertion order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Recent returns events with timestamps strictly inside (now-window, now],
// sorted newest first, truncated to limit. A limit <= 0 means no limit.
// This is the one O(n) query; everything else is O(1) amortized.
func (s *Store) Recent(window time.Duration, limit int) []*models.SecurityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().Add(-window)
	matched := make([]*models.SecurityEvent, 0, 64)
	for _, event := range s.events {
		if event.Timestamp.After(cutoff) {
			matched = append(matched, event)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// All returns every held event, newest first, truncated to limit. A
// limit <= 0 means no limit.
func (s *Store) All(limit int) []*models.SecurityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.SecurityEvent, 0, len(s.events))
	for _, event := range s.events {
		matched = append(matched, event)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// Resolve attaches a resolution record to an event. This is the single
// permitted late mutation on an otherwise immutable record.
func (s *Store) Resolve(id, resolvedBy, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return ErrEventNotFound
	}
	event.Resolution = &models.Resolution{
		ResolvedAt: s.now(),
		ResolvedBy: resolvedBy,
		Notes:      notes,
	}
	return nil
}

// Size returns the number of events currently held.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Stats returns an occupancy snapshot.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Events:       len(s.events),
		Capacity:     s.cfg.Capacity,
		ActorKeys:    len(s.byActor),
		SourceKeys:   len(s.bySource),
		TypeKeys:     len(s.byType),
		IndexCap:     s.cfg.IndexCap,
		TotalAdded:   s.added,
		TotalEvicted: s.evicted,
	}
}
