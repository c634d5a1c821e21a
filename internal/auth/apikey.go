// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost balances verification latency against brute-force resistance.
const bcryptCost = 12

// KeyChecker verifies API keys against a set of bcrypt hashes. Plaintext
// keys are never stored; operators configure only hashes.
type KeyChecker struct {
	hashes [][]byte
}

// NewKeyChecker creates a checker over the configured hashes.
func NewKeyChecker(hashes []string) (*KeyChecker, error) {
	if len(hashes) == 0 {
		return nil, fmt.Errorf("at least one API key hash is required")
	}
	out := make([][]byte, 0, len(hashes))
	for i, h := range hashes {
		if h == "" {
			return nil, fmt.Errorf("API key hash %d is empty", i)
		}
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return nil, fmt.Errorf("API key hash %d is not a valid bcrypt hash: %w", i, err)
		}
		out = append(out, []byte(h))
	}
	return &KeyChecker{hashes: out}, nil
}

// Verify reports whether key matches any configured hash. bcrypt comparison
// is timing-safe; every hash is tried so the latency does not reveal which
// entry matched.
func (c *KeyChecker) Verify(key string) bool {
	if key == "" {
		return false
	}
	matched := false
	for _, hash := range c.hashes {
		if bcrypt.CompareHashAndPassword(hash, []byte(key)) == nil {
			matched = true
		}
	}
	return matched
}

// HashKey produces a bcrypt hash suitable for API_KEY_HASHES. Exposed for
// the keygen command so operators never hand-roll hashing.
func HashKey(key string) (string, error) {
	if len(key) < 16 {
		return "", fmt.Errorf("API keys must be at least 16 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash key: %w", err)
	}
	return string(hash), nil
}
