// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

// Package logging provides centralized zerolog-based structured logging
// for Praesidio.
//
// All components log through the single global logger configured here:
// JSON output for production, console output for development, level and
// format driven by configuration.
//
// # Quick Start
//
//	import "github.com/petram44/praesidio/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	// Log messages with structured fields
//	logging.Info().Str("source", ip).Msg("Event recorded")
//	logging.Error().Err(err).Msg("Delivery failed")
//
//	// Context-aware logging in handlers
//	logging.Ctx(ctx).Info().Str("alert_id", id).Msg("Alert acknowledged")
//
// # Structured Logging
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
//
// Prefer structured fields over string formatting:
//
//	logging.Info().Str("pattern", name).Int("count", n).Msg("alert emitted")
//
// # Sensitive Values
//
// Event payloads and identities flow through this system; the Sanitize*
// helpers mask tokens, session IDs, and actor IDs before they reach log
// output. Anything that looks like a credential must pass through them.
//
// # slog Adapter
//
// NewSlogLogger returns an slog.Logger backed by zerolog for libraries
// that require slog, such as sutureslog:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//
// # Testing
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//	output := buf.String()
package logging
