// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/petram44/praesidio/internal/api"
	"github.com/petram44/praesidio/internal/audit"
	"github.com/petram44/praesidio/internal/auth"
	"github.com/petram44/praesidio/internal/config"
	"github.com/petram44/praesidio/internal/detection"
	"github.com/petram44/praesidio/internal/eventstore"
	"github.com/petram44/praesidio/internal/logging"
	"github.com/petram44/praesidio/internal/metrics"
	"github.com/petram44/praesidio/internal/models"
	"github.com/petram44/praesidio/internal/supervisor"
	"github.com/petram44/praesidio/internal/supervisor/services"
	"github.com/petram44/praesidio/internal/telemetry"
	ws "github.com/petram44/praesidio/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init(logging.Config{})
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Msg("Starting Praesidio")

	// Pipeline core: store, classifier-backed engine, alert registry.
	store := eventstore.New(eventstore.Config{
		Capacity: cfg.Store.Capacity,
		IndexCap: cfg.Store.IndexCap,
	})

	engine, err := detection.NewEngine(detection.EngineConfig{
		CooldownEnabled: cfg.Detection.CooldownEnabled,
		CooldownSize:    cfg.Detection.CooldownSize,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build detection engine")
	}

	var recorder *audit.Recorder
	var trail *audit.Trail
	if cfg.Audit.Enabled {
		recorder = audit.NewRecorder(audit.Config{
			Enabled:   true,
			Capacity:  cfg.Audit.Capacity,
			QueueSize: cfg.Audit.QueueSize,
		})
		defer recorder.Close()
		trail = recorder.Trail()
	} else {
		logging.Warn().Msg("Audit trail disabled; alert lifecycle actions will not be recorded")
	}

	var hub *ws.Hub
	if cfg.Stream.Enabled {
		hub = ws.NewHub(ws.Config{
			ClientBuffer: cfg.Stream.ClientBuffer,
			MaxClients:   cfg.Stream.MaxClients,
		})
	}

	registry := detection.NewRegistry(alertTransitionHook(recorder, hub))

	notifiers, sinks, natsNotifier := buildDeliveries(cfg)
	if natsNotifier != nil {
		defer natsNotifier.Close()
	}

	dispatcher := telemetry.NewDispatcher(telemetry.DispatcherConfig{
		QueueSize:              cfg.Dispatch.QueueSize,
		DeliveryTimeoutSeconds: cfg.Dispatch.DeliveryTimeoutSeconds,
	}, registry, notifiers, sinks)

	facade := telemetry.NewSecurityLogger(telemetry.Config{
		DefaultQueryLimit: cfg.API.DefaultQueryLimit,
		MaxQueryLimit:     cfg.API.MaxQueryLimit,
	}, store, engine, registry, dispatcher)

	// HTTP surface.
	handler := api.NewHandler(facade, trail, hub, cfg, version)
	chimw := api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg))
	router := api.NewRouter(handler, chimw, buildAuth(cfg))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Supervision tree: pipeline and messaging layers restart
	// independently of the API layer.
	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddPipelineService(dispatcher)
	if hub != nil {
		tree.AddMessagingService(hub)
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	logging.Info().
		Str("addr", server.Addr).
		Bool("auth", cfg.Auth.Enabled).
		Bool("stream", cfg.Stream.Enabled).
		Bool("audit", cfg.Audit.Enabled).
		Msg("Praesidio is ready")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree failed")
		}
		cancel()
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Error during shutdown")
		}
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown window")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// alertTransitionHook composes the per-transition side effects: the
// transitions counter, the audit trail, and the live stream. The registry
// invokes it while holding its lock, so every branch must stay non-blocking;
// recorder and hub both enqueue and return.
func alertTransitionHook(recorder *audit.Recorder, hub *ws.Hub) detection.TransitionHook {
	var auditHook, hubHook detection.TransitionHook
	if recorder != nil {
		auditHook = recorder.Hook()
	}
	if hub != nil {
		hubHook = hub.Hook()
	}
	return func(alert *models.SecurityAlert, action, actor string) {
		metrics.RecordTransition(action)
		if auditHook != nil {
			auditHook(alert, action, actor)
		}
		if hubHook != nil {
			hubHook(alert, action, actor)
		}
	}
}

// buildDeliveries assembles the alert notifiers and event sinks from
// configuration. The log notifier is always present; the webhook serves as
// both notifier and event sink; NATS publishes alerts only. The NATS
// notifier is returned separately so main can close the connection on
// shutdown.
func buildDeliveries(cfg *config.Config) ([]detection.Notifier, []detection.EventSink, *detection.NATSNotifier) {
	notifiers := []detection.Notifier{detection.NewLogNotifier()}
	var sinks []detection.EventSink

	if cfg.Webhook.Enabled {
		sink := detection.NewWebhookSink(detection.WebhookConfig{
			Enabled:          true,
			URL:              cfg.Webhook.URL,
			Secret:           cfg.Webhook.Secret,
			TimeoutSeconds:   cfg.Webhook.TimeoutSeconds,
			RatePerSecond:    cfg.Webhook.RatePerSecond,
			RateBurst:        cfg.Webhook.RateBurst,
			FailureThreshold: cfg.Webhook.FailureThreshold,
		})
		notifiers = append(notifiers, sink)
		sinks = append(sinks, sink)
		logging.Info().Str("url", cfg.Webhook.URL).Msg("Webhook sink enabled")
	}

	var natsNotifier *detection.NATSNotifier
	if cfg.NATS.Enabled {
		n, err := detection.NewNATSNotifier(detection.NATSConfig{
			Enabled: true,
			URL:     cfg.NATS.URL,
			Subject: cfg.NATS.Subject,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to connect NATS publisher")
		}
		notifiers = append(notifiers, n)
		natsNotifier = n
		logging.Info().Str("subject", cfg.NATS.Subject).Msg("NATS alert publisher enabled")
	}

	return notifiers, sinks, natsNotifier
}

// buildAuth constructs the API key middleware, or nil when authentication
// is disabled.
func buildAuth(cfg *config.Config) *auth.Middleware {
	if !cfg.Auth.Enabled {
		if cfg.IsProduction() {
			logging.Warn().Msg("API authentication is DISABLED in production")
		} else {
			logging.Info().Msg("API authentication disabled")
		}
		return nil
	}

	checker, err := auth.NewKeyChecker(cfg.Auth.APIKeyHashes)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load API key hashes")
	}
	limiter := auth.NewFailureLimiter(cfg.Auth.FailureRate, cfg.Auth.FailureBurst)

	logging.Info().Int("keys", len(cfg.Auth.APIKeyHashes)).Msg("API key authentication enabled")
	return auth.NewMiddleware(checker, limiter, cfg.Auth.HeaderName)
}
