// Package ratelimit throttles outbound vendor calls and inbound webhook traffic.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Limiter gates work by a token bucket
type Limiter interface {
	// Wait blocks until a token is available or ctx is done.
	Wait(ctx context.Context) error
	// TryAcquireForKey uses a separate bucket per key, e.g. per client address.
	TryAcquireForKey(key string) bool
}

// Config describes a token bucket
type Config struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int

	// MaxKeys bounds the number of per-key buckets kept in memory.
	MaxKeys int
	// CleanupPeriod is how often idle per-key buckets are dropped.
	CleanupPeriod time.Duration
}

// Validate fills defaults and rejects a negative rate
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive, got %v", c.RequestsPerSecond)
	}
	if c.BurstSize <= 0 {
		c.BurstSize = int(c.RequestsPerSecond)
		if c.BurstSize < 1 {
			c.BurstSize = 1
		}
	}
	if c.MaxKeys <= 0 {
		c.MaxKeys = 10000
	}
	if c.CleanupPeriod <= 0 {
		c.CleanupPeriod = 5 * time.Minute
	}
	return nil
}
