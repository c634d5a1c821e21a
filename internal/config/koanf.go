// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order. The
// first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/praesidio/config.yaml",
	"/etc/praesidio/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. They are applied first and
// overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        4625,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			DefaultQueryLimit: 100,
			MaxQueryLimit:     1000,
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
		},
		Auth: AuthConfig{
			Enabled:      false,
			APIKeyHashes: []string{},
			HeaderName:   "X-API-Key",
			FailureRate:  1,
			FailureBurst: 5,
		},
		Store: StoreConfig{
			Capacity: 10000,
			IndexCap: 1000,
		},
		Detection: DetectionConfig{
			CooldownEnabled: true,
			CooldownSize:    4096,
		},
		Dispatch: DispatchConfig{
			QueueSize:              1024,
			DeliveryTimeoutSeconds: 10,
		},
		Webhook: WebhookConfig{
			Enabled:          false,
			URL:              "",
			Secret:           "",
			TimeoutSeconds:   10,
			RatePerSecond:    2,
			RateBurst:        5,
			FailureThreshold: 5,
		},
		NATS: NATSConfig{
			Enabled: false,
			URL:     "nats://127.0.0.1:4222",
			Subject: "praesidio.alerts",
		},
		Stream: StreamConfig{
			Enabled:      true,
			ClientBuffer: 64,
			MaxClients:   256,
		},
		Audit: AuditConfig{
			Enabled:   true,
			Capacity:  10000,
			QueueSize: 256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds configuration from layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// AUTH_FAILURE_BURST -> auth.failure_burst, and so on.
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists the config paths parsed as comma-separated slices
// when supplied through environment variables.
var sliceConfigPaths = []string{
	"api.cors_origins",
	"api.trusted_proxies",
	"auth.api_key_hashes",
}

// processSliceFields converts comma-separated env values into slices. YAML
// sources already deliver real slices and are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to config paths. Unmapped
// variables return "" and are skipped so unrelated environment state never
// pollutes the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// API
		"api_default_query_limit": "api.default_query_limit",
		"api_max_query_limit":     "api.max_query_limit",
		"rate_limit_requests":     "api.rate_limit_reqs",
		"rate_limit_window":       "api.rate_limit_window",
		"disable_rate_limit":      "api.rate_limit_disabled",
		"cors_origins":            "api.cors_origins",
		"trusted_proxies":         "api.trusted_proxies",

		// Auth
		"auth_enabled":       "auth.enabled",
		"api_key_hashes":     "auth.api_key_hashes",
		"auth_header":        "auth.header_name",
		"auth_failure_rate":  "auth.failure_rate",
		"auth_failure_burst": "auth.failure_burst",

		// Event store
		"store_capacity":  "store.capacity",
		"store_index_cap": "store.index_cap",

		// Detection
		"detection_cooldown_enabled": "detection.cooldown_enabled",
		"detection_cooldown_size":    "detection.cooldown_size",

		// Dispatch
		"dispatch_queue_size":       "dispatch.queue_size",
		"dispatch_delivery_timeout": "dispatch.delivery_timeout_seconds",

		// Webhook
		"webhook_enabled":           "webhook.enabled",
		"webhook_url":               "webhook.url",
		"webhook_secret":            "webhook.secret",
		"webhook_timeout":           "webhook.timeout_seconds",
		"webhook_rate_per_second":   "webhook.rate_per_second",
		"webhook_rate_burst":        "webhook.rate_burst",
		"webhook_failure_threshold": "webhook.failure_threshold",

		// NATS
		"nats_enabled": "nats.enabled",
		"nats_url":     "nats.url",
		"nats_subject": "nats.subject",

		// Alert stream
		"stream_enabled":       "stream.enabled",
		"stream_client_buffer": "stream.client_buffer",
		"stream_max_clients":   "stream.max_clients",

		// Audit
		"audit_enabled":    "audit.enabled",
		"audit_capacity":   "audit.capacity",
		"audit_queue_size": "audit.queue_size",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
