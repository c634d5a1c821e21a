// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

// Package telemetry is the facade over the security event pipeline.
//
// SecurityLogger wires the pieces into the ingestion path every event
// takes:
//
//	classify -> store -> detect -> registry -> dispatch
//
// LogEvent never fails: classification is total, storage is in-memory,
// and detection plus delivery are best-effort with failures logged. The
// read side (GetEvents, GetAlerts, GetMetrics) serves the query API.
//
// Dispatcher decouples external delivery from ingestion: notifiers and
// event sinks receive their items from a bounded queue drained by a
// supervised goroutine, so a slow webhook can never stall event intake.
package telemetry
