// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

/*
Package config provides centralized configuration management for Praesidio.

Configuration layers in order of precedence:
 1. Built-in defaults for every setting
 2. Optional YAML config file (config.yaml, or CONFIG_PATH)
 3. Environment variables

# Environment Variables

HTTP Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 4625)
  - HTTP_TIMEOUT: Read/write timeout (default: 30s)
  - ENVIRONMENT: development or production

API:
  - API_DEFAULT_QUERY_LIMIT / API_MAX_QUERY_LIMIT: Event query limits
  - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW / DISABLE_RATE_LIMIT
  - CORS_ORIGINS / TRUSTED_PROXIES: Comma-separated lists

Authentication:
  - AUTH_ENABLED: Require an API key on mutating endpoints
  - API_KEY_HASHES: Comma-separated bcrypt hashes of accepted keys
  - AUTH_HEADER / AUTH_FAILURE_RATE / AUTH_FAILURE_BURST

Telemetry Core:
  - STORE_CAPACITY / STORE_INDEX_CAP: Event store bounds
  - DETECTION_COOLDOWN_ENABLED / DETECTION_COOLDOWN_SIZE
  - DISPATCH_QUEUE_SIZE / DISPATCH_DELIVERY_TIMEOUT

Delivery:
  - WEBHOOK_ENABLED / WEBHOOK_URL / WEBHOOK_SECRET / WEBHOOK_TIMEOUT
  - WEBHOOK_RATE_PER_SECOND / WEBHOOK_RATE_BURST / WEBHOOK_FAILURE_THRESHOLD
  - NATS_ENABLED / NATS_URL / NATS_SUBJECT
  - STREAM_ENABLED / STREAM_CLIENT_BUFFER / STREAM_MAX_CLIENTS

Audit and Logging:
  - AUDIT_ENABLED / AUDIT_CAPACITY / AUDIT_QUEUE_SIZE
  - LOG_LEVEL / LOG_FORMAT / LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	srv := api.NewServer(cfg, ...)

Validation runs as part of Load and fails fast with the offending
environment variable named in the error.
*/
package config
