// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petram44/praesidio/internal/auth"
	"github.com/petram44/praesidio/internal/middleware"
)

// Router assembles the HTTP surface: health probes, the Prometheus scrape
// endpoint, the versioned JSON API, and the alert stream.
type Router struct {
	handler *Handler
	chimw   *ChiMiddleware
	auth    *auth.Middleware
}

// NewRouter creates a router. authmw may be nil when authentication is
// disabled.
func NewRouter(handler *Handler, chimw *ChiMiddleware, authmw *auth.Middleware) *Router {
	return &Router{
		handler: handler,
		chimw:   chimw,
		auth:    authmw,
	}
}

// Setup builds the route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.chimw.CORS())

	// Prometheus scrape endpoint. Unauthenticated: scoped for scrapers on
	// the operations network, same as the health probes.
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Use(rt.chimw.RateLimitHealth())
		r.Use(middleware.SecurityHeaders)
		r.Get("/", rt.handler.Health)
		r.Get("/live", rt.handler.HealthLive)
		r.Get("/ready", rt.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SecurityHeaders)
		if rt.auth != nil {
			r.Use(rt.auth.Require)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.PrometheusMetrics)
			r.Use(middleware.Compression)

			r.Group(func(r chi.Router) {
				r.Use(rt.chimw.RateLimitWrite())
				r.Post("/events", rt.handler.IngestEvent)
				r.Post("/events/{id}/resolve", rt.handler.ResolveEvent)
				r.Post("/alerts/{id}/acknowledge", rt.handler.AcknowledgeAlert)
				r.Post("/alerts/{id}/silence", rt.handler.SilenceAlert)
				r.Post("/alerts/{id}/resolve", rt.handler.ResolveAlert)
				r.Post("/alerts/{id}/false-positive", rt.handler.MarkAlertFalsePositive)
			})

			r.Group(func(r chi.Router) {
				r.Use(rt.chimw.RateLimitRead())
				r.Get("/events", rt.handler.ListEvents)
				r.Get("/events/{id}", rt.handler.GetEvent)
				r.Get("/alerts", rt.handler.ListAlerts)
				r.Get("/alerts/{id}", rt.handler.GetAlert)
				r.Get("/metrics/summary", rt.handler.MetricsSummary)
				r.Get("/detection/status", rt.handler.DetectionStatus)
				r.Get("/audit", rt.handler.AuditTrail)
			})
		})

		// The stream route skips the metrics and compression wrappers:
		// both wrap the ResponseWriter and would hide the net.Conn the
		// upgrader hijacks. The hub exports its own connection gauge.
		r.Group(func(r chi.Router) {
			r.Use(rt.chimw.RateLimitStream())
			r.Get("/alerts/stream", rt.handler.AlertStream)
		})
	})

	return r
}
