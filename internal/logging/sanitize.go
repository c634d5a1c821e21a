// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package logging

import "strings"

// Security event payloads routinely carry credentials, session tokens, and
// injection payloads. Everything in this file masks such values before they
// reach log output.

// SanitizeToken masks a token, keeping the first and last 4 characters.
// Example: "abcdef123456789" -> "abcd...6789"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeSessionID masks a session ID.
// Example: "abc123def456xyz" -> "abc1...6xyz"
func SanitizeSessionID(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	if len(sessionID) <= 12 {
		return "***"
	}
	return sessionID[:4] + "..." + sessionID[len(sessionID)-4:]
}

// SanitizeActorID masks an actor identifier for privacy.
// Example: "user-12345678" -> "user...5678"
func SanitizeActorID(actorID string) string {
	if actorID == "" {
		return ""
	}
	if len(actorID) <= 8 {
		return "***"
	}
	return actorID[:4] + "..." + actorID[len(actorID)-4:]
}

// SanitizeError replaces error messages that mention credential material
// with a generic message and truncates the rest.
func SanitizeError(err string) string {
	sensitivePatterns := []string{
		"password",
		"secret",
		"token",
		"key",
		"bearer",
		"authorization",
		"cookie",
	}

	lowerErr := strings.ToLower(err)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lowerErr, pattern) {
			return "sensitive error redacted"
		}
	}

	return TruncateString(err, 200)
}

// SanitizeValue sanitizes a value based on its key name. Values under
// credential-like keys are masked; everything else passes through.
func SanitizeValue(key, value string) string {
	sensitiveKeys := map[string]bool{
		"access_token":  true,
		"refresh_token": true,
		"token":         true,
		"password":      true,
		"secret":        true,
		"api_key":       true,
		"apikey":        true,
		"authorization": true,
		"bearer":        true,
		"cookie":        true,
		"session":       true,
		"session_id":    true,
		"sessionid":     true,
	}

	if sensitiveKeys[strings.ToLower(key)] {
		return SanitizeToken(value)
	}
	return value
}

// TruncateString truncates a string to maxLen runes, appending "..." when
// it was cut. Injection payloads can be arbitrarily large; log fields are
// bounded through this.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
