package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryWithBackoff_SucceedsAfterFailure(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), FixedRetryConfig(3, time.Millisecond), func() error {
		attempts++
		if attempts < 2 {
			return errors.New("temporary error")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRetryWithBackoff_AllAttemptsFail(t *testing.T) {
	attempts := 0
	testError := errors.New("persistent error")

	err := RetryWithBackoff(context.Background(), FixedRetryConfig(3, time.Millisecond), func() error {
		attempts++
		return testError
	})

	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.ErrorIs(t, err, testError)
}

func TestRetryWithBackoff_ZeroAttemptsRunsOnce(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), FixedRetryConfig(0, time.Millisecond), func() error {
		attempts++
		return errors.New("fail")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithBackoff_NonRetryableReturnedAsIs(t *testing.T) {
	fatal := errors.New("not found")
	config := FixedRetryConfig(5, time.Millisecond)
	config.RetryableErrors = func(err error) bool { return !errors.Is(err, fatal) }

	attempts := 0
	err := RetryWithBackoff(context.Background(), config, func() error {
		attempts++
		return fatal
	})

	assert.Same(t, fatal, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithBackoff_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	config := FixedRetryConfig(5, time.Hour)
	config.OnRetry = func(int, error) { cancel() }

	attempts := 0
	err := RetryWithBackoff(ctx, config, func() error {
		attempts++
		return errors.New("fail")
	})

	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "retry cancelled")
}

func TestRetryWithBackoff_OnRetryAttempts(t *testing.T) {
	var seen []int
	config := FixedRetryConfig(3, time.Millisecond)
	config.OnRetry = func(attempt int, _ error) { seen = append(seen, attempt) }

	_ = RetryWithBackoff(context.Background(), config, func() error { return errors.New("fail") })

	assert.Equal(t, []int{1, 2}, seen)
}

func TestRetryWithBackoff_ExponentialDelayCapped(t *testing.T) {
	config := RetryConfig{
		MaxAttempts:   4,
		InitialDelay:  5 * time.Millisecond,
		MaxDelay:      10 * time.Millisecond,
		BackoffFactor: 2.0,
	}

	start := time.Now()
	_ = RetryWithBackoff(context.Background(), config, func() error { return errors.New("fail") })
	elapsed := time.Since(start)

	// 5ms + 10ms + 10ms
	assert.GreaterOrEqual(t, elapsed, 25*time.Millisecond)
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
