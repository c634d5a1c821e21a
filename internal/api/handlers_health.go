// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the payload of GET /health.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	StoredEvents  int     `json:"stored_events"`
	OpenAlerts    int     `json:"open_alerts"`
	QueuePending  int     `json:"queue_pending"`
	StreamClients int     `json:"stream_clients"`
}

// Health handles GET /health. The service degrades when the dispatch
// queue saturates; ingestion still works but deliveries are being dropped.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.facade.Status()

	status := "healthy"
	if h.cfg != nil && h.cfg.Dispatch.QueueSize > 0 && snap.QueuePending >= h.cfg.Dispatch.QueueSize {
		status = "degraded"
	}

	streamClients := 0
	if h.hub != nil {
		streamClients = h.hub.ClientCount()
	}

	NewResponseWriter(w, r).Success(HealthStatus{
		Status:        status,
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		StoredEvents:  snap.Store.Events,
		OpenAlerts:    snap.OpenAlerts,
		QueuePending:  snap.QueuePending,
		StreamClients: streamClients,
	})
}

// HealthLive handles GET /health/live for liveness probes.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady handles GET /health/ready for readiness probes.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.facade == nil {
		rw.ServiceUnavailable("pipeline not ready")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}
