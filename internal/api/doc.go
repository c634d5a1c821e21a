// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

/*
Package api provides the HTTP REST API layer for Praesidio.

This package exposes event ingestion, event and alert queries, alert
lifecycle actions, metric summaries, and the live alert stream. It is the
interface between security dashboards, response tooling, and the telemetry
core.

Key Components:

  - Router: route configuration and middleware stack assembly
  - Handler: request handlers, all delegating to telemetry.SecurityLogger
  - ResponseWriter: standardized JSON envelopes with request IDs
  - ChiMiddleware: CORS and per-tier rate limiting factories
  - Request validation: struct tags via internal/validation

Route Groups:

1. Health (/health, /health/live, /health/ready):
  - Unauthenticated probes for orchestration and monitoring

2. Prometheus scrape (/metrics):
  - Exported process and application metrics

3. Versioned API (/api/v1/):
  - POST /events, GET /events, GET /events/{id}, POST /events/{id}/resolve
  - GET /alerts, GET /alerts/{id}, and the lifecycle actions acknowledge,
    silence, resolve, false-positive
  - GET /metrics/summary, GET /detection/status, GET /audit

4. Alert stream (/api/v1/alerts/stream):
  - WebSocket endpoint pushing new alerts and lifecycle transitions

All /api/v1 routes require an API key when authentication is enabled. Every
response carries the request ID assigned by the middleware chain, so a
dashboard error can be matched to its server-side log line.
*/
package api
