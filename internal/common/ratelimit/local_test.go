package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	disabled := Config{}
	assert.NoError(t, disabled.Validate())

	bad := Config{Enabled: true, RequestsPerSecond: -1}
	assert.Error(t, bad.Validate())

	cfg := Config{Enabled: true, RequestsPerSecond: 0.5}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.BurstSize)
	assert.Equal(t, 10000, cfg.MaxKeys)
	assert.Equal(t, 5*time.Minute, cfg.CleanupPeriod)
}

func TestLocalLimiter_Disabled(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.True(t, limiter.TryAcquireForKey("10.0.0.1"))
	}
	assert.NoError(t, limiter.Wait(context.Background()))
}

func TestLocalLimiter_Burst(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{Enabled: true, RequestsPerSecond: 1, BurstSize: 2})
	require.NoError(t, err)

	require.NoError(t, limiter.Wait(context.Background()))
	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(ctx), "third call must wait beyond the burst")
}

func TestLocalLimiter_PerKeyBuckets(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{Enabled: true, RequestsPerSecond: 1, BurstSize: 1})
	require.NoError(t, err)

	assert.True(t, limiter.TryAcquireForKey("a"))
	assert.False(t, limiter.TryAcquireForKey("a"))
	assert.True(t, limiter.TryAcquireForKey("b"))
}

func TestLocalLimiter_MaxKeysEvicts(t *testing.T) {
	l, err := NewLocalLimiter(Config{Enabled: true, RequestsPerSecond: 1, BurstSize: 1, MaxKeys: 2})
	require.NoError(t, err)

	l.TryAcquireForKey("a")
	l.TryAcquireForKey("b")
	l.TryAcquireForKey("c")

	assert.Len(t, l.(*localLimiter).limiters, 2)
}

func TestLocalLimiter_WaitHonoursContext(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{Enabled: true, RequestsPerSecond: 0.001, BurstSize: 1})
	require.NoError(t, err)

	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(ctx))
}
