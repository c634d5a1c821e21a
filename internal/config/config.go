// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package config

import (
	"time"
)

// Config holds all application configuration. Settings layer in order of
// precedence: built-in defaults, then an optional YAML config file, then
// environment variables.
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Auth      AuthConfig      `koanf:"auth"`
	Store     StoreConfig     `koanf:"store"`
	Detection DetectionConfig `koanf:"detection"`
	Dispatch  DispatchConfig  `koanf:"dispatch"`
	Webhook   WebhookConfig   `koanf:"webhook"`
	NATS      NATSConfig      `koanf:"nats"`
	Stream    StreamConfig    `koanf:"stream"`
	Audit     AuditConfig     `koanf:"audit"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds the HTTP listener settings.
//
// Environment Variables:
//   - HTTP_PORT: Listen port (default: 4625)
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
//   - ENVIRONMENT: "development" or "production"
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds request handling limits for the HTTP API.
type APIConfig struct {
	// DefaultQueryLimit applies when an event query specifies no limit.
	DefaultQueryLimit int `koanf:"default_query_limit"`

	// MaxQueryLimit caps any requested event query limit.
	MaxQueryLimit int `koanf:"max_query_limit"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins    []string `koanf:"cors_origins"`
	TrustedProxies []string `koanf:"trusted_proxies"`
}

// AuthConfig holds API key authentication settings. Keys are supplied as
// bcrypt hashes; plaintext keys never appear in configuration.
//
// Environment Variables:
//   - AUTH_ENABLED: Require an API key on mutating endpoints (default: false)
//   - API_KEY_HASHES: Comma-separated bcrypt hashes of accepted keys
//   - AUTH_FAILURE_RATE: Sustained auth failures allowed per second per IP
//   - AUTH_FAILURE_BURST: Burst of auth failures allowed per IP
type AuthConfig struct {
	Enabled      bool     `koanf:"enabled"`
	APIKeyHashes []string `koanf:"api_key_hashes"`

	// HeaderName carries the API key. Default X-API-Key.
	HeaderName string `koanf:"header_name"`

	FailureRate  float64 `koanf:"failure_rate"`
	FailureBurst int     `koanf:"failure_burst"`
}

// StoreConfig bounds the in-memory event store.
type StoreConfig struct {
	// Capacity is the maximum number of retained events; the oldest are
	// evicted beyond it.
	Capacity int `koanf:"capacity"`

	// IndexCap bounds each per-key index list.
	IndexCap int `koanf:"index_cap"`
}

// DetectionConfig tunes the pattern detection engine.
type DetectionConfig struct {
	CooldownEnabled bool `koanf:"cooldown_enabled"`
	CooldownSize    int  `koanf:"cooldown_size"`
}

// DispatchConfig bounds the alert and event delivery queue.
type DispatchConfig struct {
	QueueSize              int `koanf:"queue_size"`
	DeliveryTimeoutSeconds int `koanf:"delivery_timeout_seconds"`
}

// WebhookConfig configures the outbound webhook sink for events and alert
// notifications. Bodies are signed with HMAC-SHA256 when Secret is set.
type WebhookConfig struct {
	Enabled          bool    `koanf:"enabled"`
	URL              string  `koanf:"url"`
	Secret           string  `koanf:"secret"`
	TimeoutSeconds   int     `koanf:"timeout_seconds"`
	RatePerSecond    float64 `koanf:"rate_per_second"`
	RateBurst        int     `koanf:"rate_burst"`
	FailureThreshold uint32  `koanf:"failure_threshold"`
}

// NATSConfig configures the optional NATS alert publisher.
type NATSConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Subject string `koanf:"subject"`
}

// StreamConfig tunes the WebSocket alert stream.
type StreamConfig struct {
	Enabled bool `koanf:"enabled"`

	// ClientBuffer is the per-client outbound message buffer; slow
	// clients are disconnected when it fills.
	ClientBuffer int `koanf:"client_buffer"`

	// MaxClients caps concurrent stream subscribers.
	MaxClients int `koanf:"max_clients"`
}

// AuditConfig bounds the in-memory audit trail of alert lifecycle actions.
type AuditConfig struct {
	Enabled   bool `koanf:"enabled"`
	Capacity  int  `koanf:"capacity"`
	QueueSize int  `koanf:"queue_size"`
}

// LoggingConfig holds log output settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: Include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
