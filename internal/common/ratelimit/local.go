package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// localLimiter is an in-process Limiter over golang.org/x/time/rate
type localLimiter struct {
	mu          sync.Mutex
	config      Config
	global      *rate.Limiter
	limiters    map[string]*limiterEntry
	lastCleanup time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewLocalLimiter creates a Limiter. A disabled config yields a limiter that always admits.
func NewLocalLimiter(config Config) (Limiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	limit := rate.Inf
	if config.Enabled {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	return &localLimiter{
		config:      config,
		global:      rate.NewLimiter(limit, config.BurstSize),
		limiters:    make(map[string]*limiterEntry),
		lastCleanup: time.Now(),
	}, nil
}

func (rl *localLimiter) Wait(ctx context.Context) error {
	if !rl.config.Enabled {
		return nil
	}
	return rl.global.Wait(ctx)
}

func (rl *localLimiter) TryAcquireForKey(key string) bool {
	if !rl.config.Enabled {
		return true
	}
	return rl.limiterForKey(key).Allow()
}

func (rl *localLimiter) limiterForKey(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastCleanup) > rl.config.CleanupPeriod {
		rl.cleanup(now)
	}

	if entry, ok := rl.limiters[key]; ok {
		entry.lastUsed = now
		return entry.limiter
	}

	if len(rl.limiters) >= rl.config.MaxKeys {
		rl.evictOldest()
	}

	limiter := rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize)
	rl.limiters[key] = &limiterEntry{limiter: limiter, lastUsed: now}
	return limiter
}

// cleanup drops buckets idle for more than two cleanup periods. Caller holds mu.
func (rl *localLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-2 * rl.config.CleanupPeriod)
	for key, entry := range rl.limiters {
		if entry.lastUsed.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
	rl.lastCleanup = now
}

// evictOldest drops the least recently used bucket. Caller holds mu.
func (rl *localLimiter) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range rl.limiters {
		if oldestKey == "" || entry.lastUsed.Before(oldest) {
			oldestKey = key
			oldest = entry.lastUsed
		}
	}
	delete(rl.limiters, oldestKey)
}
