// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

/*
Package middleware provides HTTP middleware for the API surface.

All middleware uses the Chi-native func(http.Handler) http.Handler shape
so it can be applied with r.Use().

Components:

  - RequestID: X-Request-ID propagation plus logging/correlation context
  - PrometheusMetrics: request counters, latency histograms, active gauge
  - SecurityHeaders: nosniff, frame denial, no-store caching, HSTS
  - Compression: pooled gzip for clients that accept it

A typical route group stacks them as:

	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.SecurityHeaders)
	    r.Use(middleware.PrometheusMetrics)
	    r.Use(middleware.Compression)
	    ...
	})

RequestID is applied globally before routing so every log line carries a
request ID, including 404s and rate-limited rejections.
*/
package middleware
