// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

// Package auth implements API key authentication for the HTTP API.
//
// Keys are configured as bcrypt hashes only (API_KEY_HASHES); verification
// uses bcrypt's timing-safe comparison against every configured hash.
// Failed attempts are budgeted per client IP with a token bucket so
// brute-force attempts are cut off before they burn bcrypt CPU.
package auth
