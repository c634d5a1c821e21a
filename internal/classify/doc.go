// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

// Package classify assigns severity and a threat assessment to security
// events. Classification is a pure, total function over the event type and
// its details: the same type always yields the same severity, and unknown
// types fall back to a medium/50 default rather than failing.
package classify
