// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gorillaws "github.com/gorilla/websocket"

	"github.com/petram44/praesidio/internal/audit"
	"github.com/petram44/praesidio/internal/config"
	"github.com/petram44/praesidio/internal/logging"
	"github.com/petram44/praesidio/internal/telemetry"
	"github.com/petram44/praesidio/internal/validation"
	ws "github.com/petram44/praesidio/internal/websocket"
)

// Handler serves the HTTP API over the telemetry facade.
type Handler struct {
	facade    *telemetry.SecurityLogger
	trail     *audit.Trail
	hub       *ws.Hub
	cfg       *config.Config
	version   string
	startTime time.Time
}

// NewHandler creates the API handler. trail and hub may be nil when the
// audit trail or alert stream is disabled.
func NewHandler(facade *telemetry.SecurityLogger, trail *audit.Trail, hub *ws.Hub, cfg *config.Config, version string) *Handler {
	return &Handler{
		facade:    facade,
		trail:     trail,
		hub:       hub,
		cfg:       cfg,
		version:   version,
		startTime: time.Now(),
	}
}

// decodeJSON reads the request body into v with a size cap. Oversized or
// malformed bodies produce a 400 and a false return.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		NewResponseWriter(w, r).BadRequest("invalid JSON body: " + err.Error())
		return false
	}
	return true
}

// validateRequest validates v and writes the 400 response on failure.
func validateRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
	return false
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getUpgrader builds the stream upgrader. Browsers must present an Origin
// on the allowlist; agents and CLI consumers that send no Origin pass.
func (h *Handler) getUpgrader() gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkStreamOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

func (h *Handler) checkStreamOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if h.cfg == nil {
		return true
	}
	for _, allowed := range h.cfg.API.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().
		Str("origin", origin).
		Msg("Stream connection rejected, origin not allowed")
	return false
}
