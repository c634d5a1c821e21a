// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

/*
Package websocket streams alerts to connected dashboard clients.

The Hub owns the client set and fans out two message types: "alert" when
the detection engine opens a new alert, and "alert_update" when an analyst
acknowledges, silences, resolves, or dismisses one. Clients that fall
behind their send buffer are disconnected rather than allowed to stall
the broadcast loop.

The hub implements suture.Service (Serve/String) and is wired into the
alert registry via Hook, which never blocks:

	hub := websocket.NewHub(websocket.DefaultConfig())
	registry := detection.NewRegistry(hub.Hook())

Connections arrive through the API's stream handler, which upgrades the
request and hands the connection to NewClient.
*/
package websocket
