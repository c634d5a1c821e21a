// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

/*
Package supervisor provides process supervision for Praesidio using
suture v4.

The supervisor tree organizes the long-running services into three layers
for failure isolation:

	RootSupervisor ("praesidio")
	├── PipelineSupervisor ("pipeline-layer")
	│   └── Dispatcher (alert and event delivery)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Alert stream hub
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that:
  - A delivery stall or notifier crash never blocks event ingestion
  - A stream hub restart drops subscribers, not stored events or alerts
  - Each layer restarts independently with its own failure budget

Crashed services restart automatically with exponential backoff; the
failure threshold, decay, and backoff come from TreeConfig. Suture
lifecycle events flow into the application log through the sutureslog
adapter over the shared zerolog logger.

Services must implement suture.Service: a Serve(ctx) method that blocks
until the context is canceled, and a String() name for log lines. The
dispatcher and the stream hub implement this directly; the HTTP server
needs the HTTPServerService wrapper from the services subpackage because
net/http predates context-driven shutdown.

Basic setup:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddPipelineService(dispatcher)
	tree.AddMessagingService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}
*/
package supervisor
