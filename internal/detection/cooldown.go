// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package detection

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCooldownSize bounds the cooldown key cache.
const DefaultCooldownSize = 4096

// cooldownCache suppresses repeat alert emissions for the same
// (pattern, source address, window bucket) key. The reference behavior
// re-fires an alert on every event once a threshold is crossed; the
// cooldown key makes each pattern/source pair fire at most once per
// window-sized time bucket.
type cooldownCache struct {
	keys *lru.Cache[string, struct{}]
}

func newCooldownCache(size int) (*cooldownCache, error) {
	if size <= 0 {
		size = DefaultCooldownSize
	}
	keys, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("create cooldown cache: %w", err)
	}
	return &cooldownCache{keys: keys}, nil
}

// Suppress reports whether an emission for this pattern/source should be
// suppressed at now, recording the key when it is not.
func (c *cooldownCache) Suppress(pattern, source string, now time.Time, window time.Duration) bool {
	key := cooldownKey(pattern, source, now, window)
	if _, seen := c.keys.Get(key); seen {
		return true
	}
	c.keys.Add(key, struct{}{})
	return false
}

// Len returns the number of live cooldown keys.
func (c *cooldownCache) Len() int {
	return c.keys.Len()
}

func cooldownKey(pattern, source string, now time.Time, window time.Duration) string {
	secs := int64(window / time.Second)
	if secs <= 0 {
		secs = 1
	}
	bucket := now.Unix() / secs
	return fmt.Sprintf("%s|%s|%d", pattern, source, bucket)
}
