// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

/*
Package metrics provides Prometheus metrics collection and export for
observability.

All collectors are registered with the default registry via promauto at
package load and exposed at the /metrics endpoint in Prometheus text
format:

	curl http://localhost:4625/metrics

# Available Metrics

Event pipeline:
  - security_events_recorded_total: Events accepted by the pipeline (counter)
    Labels: type, severity
  - event_ingest_duration_seconds: Full record-classify-detect path latency (histogram)
  - event_store_size: Events currently held by the store (gauge)
  - event_store_evicted_total: Events evicted by the capacity ring (counter)

Detection:
  - detection_alerts_generated_total: Alerts emitted by the engine (counter)
    Labels: pattern, severity
  - detection_suppressed_total: Emissions suppressed by cooldown (counter)
  - alert_transitions_total: Alert lifecycle transitions (counter)
    Labels: action
  - alerts_open: Non-terminal alerts in the registry (gauge)

Delivery:
  - dispatch_queue_depth: Items waiting in the dispatch queue (gauge)
  - dispatch_dropped_total: Items dropped because the queue was full (counter)
    Labels: kind
  - dispatch_deliveries_total: Deliveries per sink and outcome (counter)
    Labels: sink, outcome
  - circuit_breaker_state: Breaker state per sink, 0=closed 1=half-open 2=open (gauge)
    Labels: name

API:
  - api_requests_total, api_request_duration_seconds, api_active_requests,
    api_rate_limit_hits_total, api_auth_failures_total
  - websocket_connections, websocket_messages_sent_total, websocket_errors_total

System:
  - app_info, app_uptime_seconds
*/
package metrics
