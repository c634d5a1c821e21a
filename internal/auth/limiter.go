// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// maxTrackedClients bounds the per-IP limiter map; stale entries are
	// pruned once it is exceeded.
	maxTrackedClients = 10000

	// clientIdleExpiry is how long an IP may be quiet before its limiter
	// is discarded.
	clientIdleExpiry = 15 * time.Minute
)

// FailureLimiter throttles authentication failures per client IP. Each
// failure spends a token from that IP's bucket; once the bucket is empty
// further attempts are rejected before any key comparison runs, which
// blunts both brute force and bcrypt CPU exhaustion.
type FailureLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter

	ratePerSec float64
	burst      int

	// now is replaceable in tests.
	now func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewFailureLimiter allows ratePerSec sustained failures with the given
// burst per client IP.
func NewFailureLimiter(ratePerSec float64, burst int) *FailureLimiter {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	if burst < 1 {
		burst = 5
	}
	return &FailureLimiter{
		clients:    make(map[string]*clientLimiter),
		ratePerSec: ratePerSec,
		burst:      burst,
		now:        time.Now,
	}
}

// Blocked reports whether the IP has exhausted its failure budget. It does
// not consume a token.
func (f *FailureLimiter) Blocked(ip string) bool {
	return f.get(ip).Tokens() < 1
}

// RecordFailure spends one failure token for the IP. The return value is
// false when the budget was already exhausted.
func (f *FailureLimiter) RecordFailure(ip string) bool {
	return f.get(ip).Allow()
}

func (f *FailureLimiter) get(ip string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	entry, ok := f.clients[ip]
	if !ok {
		if len(f.clients) >= maxTrackedClients {
			f.pruneLocked(now)
		}
		entry = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(f.ratePerSec), f.burst)}
		f.clients[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// pruneLocked drops limiters idle past expiry. Callers hold f.mu.
func (f *FailureLimiter) pruneLocked(now time.Time) {
	for ip, entry := range f.clients {
		if now.Sub(entry.lastSeen) > clientIdleExpiry {
			delete(f.clients, ip)
		}
	}
}

// TrackedClients returns the number of IPs currently tracked.
func (f *FailureLimiter) TrackedClients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}
