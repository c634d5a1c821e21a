// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package auth

import (
	"net"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/petram44/praesidio/internal/logging"
	"github.com/petram44/praesidio/internal/metrics"
)

// Middleware enforces API key authentication on the routes it wraps.
type Middleware struct {
	checker *KeyChecker
	limiter *FailureLimiter
	header  string
}

// NewMiddleware builds the auth middleware. header names the request header
// carrying the key, X-API-Key by default.
func NewMiddleware(checker *KeyChecker, limiter *FailureLimiter, header string) *Middleware {
	if header == "" {
		header = "X-API-Key"
	}
	return &Middleware{
		checker: checker,
		limiter: limiter,
		header:  header,
	}
}

// Require rejects requests without a valid API key. Failed attempts are
// rate limited per client IP before any key comparison runs.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		if m.limiter.Blocked(ip) {
			metrics.APIAuthFailures.WithLabelValues("rate_limited").Inc()
			logging.Warn().
				Str("component", "auth").
				Str("remote_ip", ip).
				Msg("Auth attempt rejected, failure budget exhausted")
			writeAuthError(w, http.StatusTooManyRequests, "too many failed authentication attempts")
			return
		}

		key := r.Header.Get(m.header)
		if key == "" {
			m.limiter.RecordFailure(ip)
			metrics.APIAuthFailures.WithLabelValues("missing_key").Inc()
			writeAuthError(w, http.StatusUnauthorized, "missing API key")
			return
		}

		if !m.checker.Verify(key) {
			m.limiter.RecordFailure(ip)
			metrics.APIAuthFailures.WithLabelValues("invalid_key").Inc()
			logging.Warn().
				Str("component", "auth").
				Str("remote_ip", ip).
				Str("key", logging.SanitizeToken(key)).
				Msg("Invalid API key")
			writeAuthError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr. Upstream middleware has already
// resolved forwarded addresses for trusted proxies.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // nothing to do when the client is gone
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
