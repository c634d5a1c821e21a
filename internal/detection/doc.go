// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

// Package detection evaluates sliding-window threat patterns over recent
// security events and owns the resulting alert lifecycle.
//
// Detection Architecture:
//
//	SecurityEvent -> Engine.Detect -> SecurityAlert -> Registry -> Notifiers
//	                  |                                 |
//	                  v                                 v
//	            Pattern Table                  Webhook/NATS/Log/Stream
//
// The engine runs once per ingested event against a fixed pattern table:
// events of a pattern's qualifying types within its time window are grouped
// by source address, and each group meeting the threshold emits one alert.
// Patterns are independent hypotheses; overlapping patterns emit separate
// alerts by design.
//
// Alert storms are suppressed by a cooldown key (pattern, source address,
// window bucket) held in a bounded LRU. This deviates from the reference
// re-fire-per-event behavior and can be disabled in configuration.
//
// The registry owns alerts after emission. Alerts are never deleted; the
// lifecycle is open -> acknowledged -> resolved | false_positive, with
// silencing as an orthogonal, expiring notification flag.
package detection
