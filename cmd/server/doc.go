// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

/*
Command server runs the Praesidio security telemetry service: an HTTP API
that ingests security events, classifies them, detects threat patterns over
sliding windows, and manages the resulting alerts.

# Architecture

Startup wires the components bottom-up and hands the long-running ones to a
three-layer supervision tree:

	praesidio (root)
	├── pipeline-layer
	│   └── dispatcher        alert/event delivery worker
	├── messaging-layer
	│   └── alert-stream-hub  WebSocket fan-out (when stream.enabled)
	└── api-layer
	    └── http-server       chi router + middleware

A crash in one layer restarts only that layer's services; the event store,
detection engine, and alert registry are passive shared state and live
outside the tree.

# Configuration

Settings layer in order of precedence: built-in defaults, an optional YAML
file named by CONFIG_PATH (or found at config.yaml / /etc/praesidio/), then
environment variables. Commonly used variables:

	HTTP_PORT         listen port (default 4625)
	HTTP_HOST         bind address (default 0.0.0.0)
	ENVIRONMENT       "development" or "production"
	LOG_LEVEL         trace|debug|info|warn|error (default info)
	LOG_FORMAT        json|console (default json)
	AUTH_ENABLED      require an API key on /api/v1 (default false)
	API_KEY_HASHES    comma-separated bcrypt hashes of accepted keys
	WEBHOOK_ENABLED   forward events and alerts to WEBHOOK_URL
	NATS_ENABLED      publish alerts to NATS_URL on NATS_SUBJECT
	STREAM_ENABLED    serve the WebSocket alert stream (default true)
	AUDIT_ENABLED     record alert lifecycle actions (default true)

See internal/config for the full list and config.example.yaml for a
commented file template.

# Usage

Run with defaults (no auth, port 4625):

	./server

Production shape:

	ENVIRONMENT=production \
	AUTH_ENABLED=true \
	API_KEY_HASHES='$2a$10$...' \
	WEBHOOK_ENABLED=true WEBHOOK_URL=https://soc.example.com/hook \
	./server

Generate an API key hash with the keygen command:

	./keygen my-operator-key-123456

# Shutdown

SIGINT or SIGTERM cancels the root context. The supervision tree stops the
HTTP server with a drain window, flushes the dispatcher queue, disconnects
stream clients, and the process exits once every service stops or the
shutdown timeout expires.
*/
package main
