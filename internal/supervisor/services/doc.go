// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

// Package services adapts components without a native Serve(ctx) loop to
// suture.Service. Components that already block on a context (the
// dispatcher, the stream hub) are added to the tree directly and do not
// need a wrapper here.
package services
