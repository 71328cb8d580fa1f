// Package utils holds small helpers shared by the adapter packages.
package utils

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// RetryConfig controls RetryWithBackoff.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first one.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration

	// MaxDelay caps the wait when BackoffFactor grows it.
	MaxDelay time.Duration

	// BackoffFactor multiplies the delay after each wait. 1.0 keeps it fixed.
	BackoffFactor float64

	// JitterFactor adds up to this fraction of the delay at random (0.0-1.0).
	JitterFactor float64

	// RetryableErrors reports whether err should be attempted again.
	// A nil func retries every error.
	RetryableErrors func(error) bool

	// OnRetry is called before each wait with the failed attempt number.
	OnRetry func(attempt int, err error)
}

// FixedRetryConfig returns attempts spaced by a constant delay with no jitter.
func FixedRetryConfig(attempts int, delay time.Duration) RetryConfig {
	return RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  delay,
		MaxDelay:      delay,
		BackoffFactor: 1.0,
	}
}

// RetryWithBackoff runs fn until it succeeds, returns a non-retryable error,
// runs out of attempts or ctx is cancelled while waiting.
//
// A non-retryable error is returned unwrapped. Exhausted attempts return
// "max retries exceeded: <last error>" and a cancelled wait returns
// "retry cancelled: <ctx error>", both wrapping with %w.
func RetryWithBackoff(ctx context.Context, config RetryConfig, fn func() error) error {
	maxAttempts := config.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if config.RetryableErrors != nil && !config.RetryableErrors(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		if config.OnRetry != nil {
			config.OnRetry(attempt, err)
		}

		wait := delay
		if config.JitterFactor > 0 && wait > 0 {
			wait += time.Duration(rand.Int64N(int64(float64(wait)*config.JitterFactor) + 1))
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-timer.C:
		}

		if config.BackoffFactor > 1.0 {
			delay = time.Duration(float64(delay) * config.BackoffFactor)
			if config.MaxDelay > 0 && delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
