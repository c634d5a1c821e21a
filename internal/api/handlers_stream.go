// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package api

import (
	"net/http"

	"github.com/petram44/praesidio/internal/logging"
	ws "github.com/petram44/praesidio/internal/websocket"
)

// AlertStream handles GET /api/v1/alerts/stream, upgrading the connection
// and attaching it to the hub. New alerts and lifecycle transitions arrive
// as they happen.
func (h *Handler) AlertStream(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		NewResponseWriter(w, r).ServiceUnavailable("alert stream disabled")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logging.Warn().Err(err).Msg("Stream upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}
