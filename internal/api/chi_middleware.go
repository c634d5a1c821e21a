// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/petram44/praesidio/internal/config"
	"github.com/petram44/praesidio/internal/metrics"
)

// ChiMiddlewareConfig holds CORS and rate limiting settings.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins []string
	CORSAllowedHeaders []string
	CORSMaxAge         int

	// RateLimitRequests/Window bound the write path; reads and health get
	// fixed permissive tiers.
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// DefaultChiMiddlewareConfig returns a secure default configuration. CORS
// origins default to empty: browsers are denied until explicitly allowed.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedHeaders: []string{"Content-Type", "X-API-Key", "X-Request-ID"},
		CORSMaxAge:         86400,

		RateLimitRequests: 300,
		RateLimitWindow:   time.Minute,
	}
}

// NewChiMiddlewareConfig builds middleware settings from the app config.
func NewChiMiddlewareConfig(cfg *config.Config) *ChiMiddlewareConfig {
	mc := DefaultChiMiddlewareConfig()
	mc.CORSAllowedOrigins = cfg.API.CORSOrigins
	mc.RateLimitRequests = cfg.API.RateLimitReqs
	mc.RateLimitWindow = cfg.API.RateLimitWindow
	mc.RateLimitDisabled = cfg.API.RateLimitDisabled
	if cfg.Auth.HeaderName != "" && cfg.Auth.HeaderName != "X-API-Key" {
		mc.CORSAllowedHeaders = append(mc.CORSAllowedHeaders, cfg.Auth.HeaderName)
	}
	return mc
}

// Fixed rate limit tiers. Reads are permissive because dashboards poll;
// stream upgrades are rare per client.
var (
	rateLimitRead   = rateTier{requests: 1000, window: time.Minute}
	rateLimitHealth = rateTier{requests: 1000, window: time.Minute}
	rateLimitStream = rateTier{requests: 30, window: time.Minute}
)

type rateTier struct {
	requests int
	window   time.Duration
}

// ChiMiddleware provides Chi-compatible CORS and rate limiting factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates the middleware factory.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: config.CORSAllowedHeaders,
		MaxAge:         config.CORSMaxAge,
	})

	return &ChiMiddleware{
		config: config,
		cors:   corsHandler,
	}
}

// CORS returns the go-chi/cors handler. Applied globally so OPTIONS
// preflights resolve before routing.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimitWrite limits the ingest and lifecycle mutation endpoints using
// the configured budget.
func (m *ChiMiddleware) RateLimitWrite() func(http.Handler) http.Handler {
	return m.limit("write", m.config.RateLimitRequests, m.config.RateLimitWindow)
}

// RateLimitRead limits query endpoints.
func (m *ChiMiddleware) RateLimitRead() func(http.Handler) http.Handler {
	return m.limit("read", rateLimitRead.requests, rateLimitRead.window)
}

// RateLimitHealth limits health probes while staying permissive enough for
// aggressive monitoring intervals.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.limit("health", rateLimitHealth.requests, rateLimitHealth.window)
}

// RateLimitStream limits stream upgrade attempts.
func (m *ChiMiddleware) RateLimitStream() func(http.Handler) http.Handler {
	return m.limit("stream", rateLimitStream.requests, rateLimitStream.window)
}

func (m *ChiMiddleware) limit(group string, requests int, window time.Duration) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(group).Inc()
			NewResponseWriter(w, r).Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, "rate limit exceeded")
		}),
	)
}
