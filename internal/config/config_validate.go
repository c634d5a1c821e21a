// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateDispatch(); err != nil {
		return err
	}
	if err := c.validateWebhook(); err != nil {
		return err
	}
	if err := c.validateNATS(); err != nil {
		return err
	}
	if err := c.validateStream(); err != nil {
		return err
	}
	if err := c.validateAudit(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got: %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got: %s", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production, got: %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultQueryLimit < 1 {
		return fmt.Errorf("API_DEFAULT_QUERY_LIMIT must be at least 1, got: %d", c.API.DefaultQueryLimit)
	}
	if c.API.MaxQueryLimit < c.API.DefaultQueryLimit {
		return fmt.Errorf("API_MAX_QUERY_LIMIT (%d) must be >= API_DEFAULT_QUERY_LIMIT (%d)",
			c.API.MaxQueryLimit, c.API.DefaultQueryLimit)
	}
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got: %d", c.API.RateLimitReqs)
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got: %s", c.API.RateLimitWindow)
		}
	}
	return nil
}

// validateAuth requires key hashes when auth is on, and refuses plaintext
// looking values: every entry must be a bcrypt hash.
func (c *Config) validateAuth() error {
	if !c.Auth.Enabled {
		return nil
	}
	if len(c.Auth.APIKeyHashes) == 0 {
		return fmt.Errorf("API_KEY_HASHES is required when AUTH_ENABLED=true")
	}
	for i, hash := range c.Auth.APIKeyHashes {
		if !strings.HasPrefix(hash, "$2a$") && !strings.HasPrefix(hash, "$2b$") && !strings.HasPrefix(hash, "$2y$") {
			return fmt.Errorf("API_KEY_HASHES[%d] is not a bcrypt hash; hash keys before configuring them", i)
		}
	}
	if c.Auth.HeaderName == "" {
		return fmt.Errorf("AUTH_HEADER must not be empty when AUTH_ENABLED=true")
	}
	if c.Auth.FailureRate <= 0 {
		return fmt.Errorf("AUTH_FAILURE_RATE must be positive, got: %v", c.Auth.FailureRate)
	}
	if c.Auth.FailureBurst < 1 {
		return fmt.Errorf("AUTH_FAILURE_BURST must be at least 1, got: %d", c.Auth.FailureBurst)
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.Capacity < 1 {
		return fmt.Errorf("STORE_CAPACITY must be at least 1, got: %d", c.Store.Capacity)
	}
	if c.Store.IndexCap < 1 {
		return fmt.Errorf("STORE_INDEX_CAP must be at least 1, got: %d", c.Store.IndexCap)
	}
	return nil
}

func (c *Config) validateDispatch() error {
	if c.Dispatch.QueueSize < 1 {
		return fmt.Errorf("DISPATCH_QUEUE_SIZE must be at least 1, got: %d", c.Dispatch.QueueSize)
	}
	if c.Dispatch.DeliveryTimeoutSeconds < 1 {
		return fmt.Errorf("DISPATCH_DELIVERY_TIMEOUT must be at least 1, got: %d", c.Dispatch.DeliveryTimeoutSeconds)
	}
	return nil
}

func (c *Config) validateWebhook() error {
	if !c.Webhook.Enabled {
		return nil
	}
	if c.Webhook.URL == "" {
		return fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_ENABLED=true")
	}
	if err := validateWebhookURL(c.Webhook.URL); err != nil {
		return fmt.Errorf("WEBHOOK_URL is invalid: %w", err)
	}
	if c.IsProduction() && c.Webhook.Secret == "" {
		return fmt.Errorf("WEBHOOK_SECRET is required in production so deliveries are signed")
	}
	if c.Webhook.RatePerSecond <= 0 {
		return fmt.Errorf("WEBHOOK_RATE_PER_SECOND must be positive, got: %v", c.Webhook.RatePerSecond)
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if c.NATS.URL == "" {
		return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true")
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.Subject == "" {
		return fmt.Errorf("NATS_SUBJECT must not be empty when NATS_ENABLED=true")
	}
	return nil
}

func (c *Config) validateStream() error {
	if !c.Stream.Enabled {
		return nil
	}
	if c.Stream.ClientBuffer < 1 {
		return fmt.Errorf("STREAM_CLIENT_BUFFER must be at least 1, got: %d", c.Stream.ClientBuffer)
	}
	if c.Stream.MaxClients < 1 {
		return fmt.Errorf("STREAM_MAX_CLIENTS must be at least 1, got: %d", c.Stream.MaxClients)
	}
	return nil
}

func (c *Config) validateAudit() error {
	if !c.Audit.Enabled {
		return nil
	}
	if c.Audit.Capacity < 1 {
		return fmt.Errorf("AUDIT_CAPACITY must be at least 1, got: %d", c.Audit.Capacity)
	}
	if c.Audit.QueueSize < 1 {
		return fmt.Errorf("AUDIT_QUEUE_SIZE must be at least 1, got: %d", c.Audit.QueueSize)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %q", c.Logging.Format)
	}
	return nil
}

// validateWebhookURL accepts http/https URLs with optional paths; webhook
// receivers commonly route on the path.
func validateWebhookURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// validateNATSURL accepts nats, tls, ws, and wss schemes.
func validateNATSURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsed.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222, nats.example.com)")
	}
	return nil
}
