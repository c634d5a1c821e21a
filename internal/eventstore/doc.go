// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

/*
Package eventstore provides the in-memory, append-only registry of security
events with secondary indices for fast filtered retrieval.

Layout:

  - Primary storage: id -> event map bounded by a fixed-capacity ring of
    event IDs; when the ring wraps, the oldest event is evicted.
  - Secondary indices: per-actor, per-source-address, and per-type lists of
    event IDs (weak back-references, never copies). Each key's list is
    trimmed on append so it never exceeds the configured cap, dropping the
    oldest entries first.

Index lookups return the newest entries for a key; IDs whose events have been
evicted from the primary ring are skipped. Recent performs a full scan with a
strict timestamp cutoff: an event exactly at now-window is excluded.

All operations are guarded by a single coarse RWMutex; the per-event work is
small enough that sharding has not been worth it.
*/
package eventstore
