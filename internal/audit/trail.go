// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package audit

import (
	"sync"
)

// Trail is the bounded in-memory audit store. When full, the oldest tenth
// of entries is discarded to make room.
type Trail struct {
	mu      sync.RWMutex
	entries []Entry
	maxLen  int
}

// NewTrail creates a trail holding at most maxLen entries.
func NewTrail(maxLen int) *Trail {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &Trail{
		entries: make([]Entry, 0, maxLen),
		maxLen:  maxLen,
	}
}

// Save appends an entry, evicting the oldest tenth when full.
func (t *Trail) Save(entry Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.entries) >= t.maxLen {
		remove := t.maxLen / 10
		if remove < 1 {
			remove = 1
		}
		t.entries = t.entries[remove:]
	}
	t.entries = append(t.entries, entry)
}

// Query returns entries matching the filter, newest first.
func (t *Trail) Query(filter Filter) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	results := make([]Entry, 0, 32)
	for i := len(t.entries) - 1; i >= 0; i-- {
		entry := t.entries[i]
		if filter.AlertID != "" && entry.AlertID != filter.AlertID {
			continue
		}
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		results = append(results, entry)
		if filter.Limit > 0 && len(results) >= filter.Limit {
			break
		}
	}
	return results
}

// Len returns the number of stored entries.
func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
