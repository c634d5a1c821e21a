// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

/*
Package models defines the data structures shared across Praesidio.

This package is the single source of truth for the security telemetry data
model: events, threat assessments, alerts, and the rollup structures returned
by the metrics surface. It has no dependencies on other Praesidio packages.

Key Components:

  - SecurityEvent: Immutable record of a single security-relevant occurrence
  - EventType / Severity: Closed string enumerations with validity checks
  - EventDetails: Tagged union of per-type detail shapes with an opaque fallback
  - SecurityAlert: Artifact produced when a threat pattern's threshold is met
  - MetricsSummary: Read-side rollup returned by the metrics surface

Severity is ordinal (low < medium < high < critical); use Severity.Rank for
comparisons rather than comparing the string values.

Immutability:

SecurityEvent values are immutable once created. Severity and the base threat
score are derived from the event type by the classifier; callers never set
them directly. SecurityAlert values are mutated only through the alert
registry's transition operations and are never deleted.

JSON Marshaling:

All models serialize with snake_case field names. SecurityEvent carries a
custom marshaler pair so the EventDetails union round-trips through an
envelope ({"kind": ..., "data": ...}); unknown kinds decode to OpaqueDetails
rather than failing.
*/
package models
