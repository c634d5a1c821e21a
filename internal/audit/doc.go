// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

// Package audit records alert lifecycle actions for operator review.
//
// Every transition an alert goes through (created, acknowledged, silenced,
// resolved, false positive) produces one Entry naming the alert, the action,
// and the actor. Entries flow through a bounded async queue so recording
// never blocks the alert registry, and land in a capped in-memory Trail
// that evicts oldest-first.
package audit
