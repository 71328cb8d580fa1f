// Package circuitbreaker wraps sony/gobreaker with a count-based failure-rate window.
package circuitbreaker

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/common/logging"
)

// Config holds the configuration for a circuit breaker
type Config struct {
	// FailureRateThreshold is the failure percentage (0-100] that opens the breaker.
	FailureRateThreshold float64
	// SlidingWindowSize is the number of most recent calls the rate is computed over.
	// The rate is only evaluated once the window is full.
	SlidingWindowSize int
	// OpenTimeout is how long the breaker stays open before allowing a trial call.
	OpenTimeout time.Duration
	// HalfOpenMaxRequests is the number of trial calls allowed while half-open;
	// that many consecutive successes close the breaker.
	HalfOpenMaxRequests int
	// OnStateChange, when set, is invoked after every transition.
	OnStateChange func(name string, from, to State)
}

// DefaultConfig opens at 50% failures over the last 10 calls for 30s
func DefaultConfig() Config {
	return Config{
		FailureRateThreshold: 50,
		SlidingWindowSize:    10,
		OpenTimeout:          30 * time.Second,
		HalfOpenMaxRequests:  1,
	}
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.FailureRateThreshold <= 0 || c.FailureRateThreshold > 100 {
		return fmt.Errorf("FailureRateThreshold must be in (0, 100], got %v", c.FailureRateThreshold)
	}
	if c.SlidingWindowSize <= 0 {
		return fmt.Errorf("SlidingWindowSize must be positive, got %d", c.SlidingWindowSize)
	}
	if c.OpenTimeout <= 0 {
		return fmt.Errorf("OpenTimeout must be positive, got %v", c.OpenTimeout)
	}
	if c.HalfOpenMaxRequests <= 0 {
		return fmt.Errorf("HalfOpenMaxRequests must be positive, got %d", c.HalfOpenMaxRequests)
	}
	return nil
}

// State represents the current state of the circuit breaker
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Stats is a snapshot of a breaker for health reporting
type Stats struct {
	Name        string  `json:"name"`
	State       string  `json:"state"`
	FailureRate float64 `json:"failure_rate"`
	Successes   uint32  `json:"successes"`
	Failures    uint32  `json:"failures"`
}

// GoBreakerAdapter wraps Sony's gobreaker. gobreaker only counts consecutive
// or interval totals, so the adapter keeps its own window of the last
// SlidingWindowSize outcomes and feeds the trip decision back through
// IsSuccessful and ReadyToTrip.
type GoBreakerAdapter struct {
	name    string
	config  Config
	breaker *gobreaker.CircuitBreaker
	window  *slidingWindow
	logger  logging.Logger
}

// NewGoBreaker creates a circuit breaker. An invalid config falls back to DefaultConfig.
func NewGoBreaker(name string, config Config, logger logging.Logger) *GoBreakerAdapter {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	if err := config.Validate(); err != nil {
		logger.Warn("Invalid circuit breaker config, using defaults",
			logging.Field{"error", err.Error()},
			logging.Field{"name", name},
		)
		onChange := config.OnStateChange
		config = DefaultConfig()
		config.OnStateChange = onChange
	}

	g := &GoBreakerAdapter{
		name:   name,
		config: config,
		window: newSlidingWindow(config.SlidingWindowSize),
		logger: logger,
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: uint32(config.HalfOpenMaxRequests),
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(gobreaker.Counts) bool {
			return g.window.exceeded(config.FailureRateThreshold)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			g.window.reset()
			logger.Info("Circuit breaker state changed",
				logging.Field{"breaker", name},
				logging.Field{"from", from.String()},
				logging.Field{"to", to.String()},
			)
			if config.OnStateChange != nil {
				config.OnStateChange(name, fromGoBreaker(from), fromGoBreaker(to))
			}
		},
		IsSuccessful: g.isSuccessful,
	}
	g.breaker = gobreaker.NewCircuitBreaker(settings)

	return g
}

// ignored reports errors that say nothing about the health of the remote side.
func ignored(err error) bool {
	switch errors.GetType(err) {
	case errors.ErrTypeValidation, errors.ErrTypeNotFound, errors.ErrTypeUnsupported:
		return true
	}
	return stderrors.Is(err, context.Canceled)
}

// isSuccessful runs outside gobreaker's lock, so it may read the breaker state.
func (g *GoBreakerAdapter) isSuccessful(err error) bool {
	if err != nil && ignored(err) {
		return true
	}

	failed := err != nil
	if g.breaker.State() != gobreaker.StateClosed {
		return !failed
	}

	if g.window.record(failed, g.config.FailureRateThreshold) {
		// Reporting a failure makes gobreaker consult ReadyToTrip, which opens
		// the breaker even when the call that completed the window succeeded.
		return false
	}
	return !failed
}

// Execute runs fn through the breaker. A rejected call returns a circuit_open
// AppError without running fn.
func (g *GoBreakerAdapter) Execute(ctx context.Context, fn func() error) error {
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})

	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		g.logger.WithContext(ctx).Debug("Call rejected by circuit breaker",
			logging.Field{"breaker", g.name},
			logging.Field{"reason", err.Error()},
		)
		return errors.CircuitOpenError(g.name, err)
	}

	return err
}

// Name returns the breaker name
func (g *GoBreakerAdapter) Name() string {
	return g.name
}

// State returns the current state of the circuit breaker
func (g *GoBreakerAdapter) State() State {
	return fromGoBreaker(g.breaker.State())
}

// IsOpen returns true if the circuit breaker is open
func (g *GoBreakerAdapter) IsOpen() bool {
	return g.breaker.State() == gobreaker.StateOpen
}

// Stats returns current statistics
func (g *GoBreakerAdapter) Stats() Stats {
	counts := g.breaker.Counts()
	return Stats{
		Name:        g.name,
		State:       g.State().String(),
		FailureRate: g.window.failureRate(),
		Successes:   counts.TotalSuccesses,
		Failures:    counts.TotalFailures,
	}
}

func fromGoBreaker(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}
