// Package handlers exposes the envelope port over HTTP and receives Adobe Sign
// webhook callbacks.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/netip"
	"sync"
	"time"

	"github.com/google/uuid"

	"esign-adapter/internal/circuitbreaker"
	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/common/logging"
	"esign-adapter/internal/common/ratelimit"
	"esign-adapter/internal/config"
	"esign-adapter/internal/envstate"
	"esign-adapter/internal/esignature"
	"esign-adapter/internal/oauth2"
)

const defaultWebhookSyncTimeout = 30 * time.Second

// DependencyCheck reports whether a dependency is reachable
type DependencyCheck func(ctx context.Context) error

// BreakerStats reports the state of the vendor circuit breaker
type BreakerStats interface {
	Stats() circuitbreaker.Stats
}

// StatusTracker records envelope statuses seen by the handlers. *envstate.Tracker satisfies it.
type StatusTracker interface {
	Observe(ctx context.Context, source envstate.Source, envelope *esignature.Envelope) (bool, error)
	Last(ctx context.Context, id uuid.UUID) (*envstate.Snapshot, error)
}

// TokenSource exposes the cached vendor access token. *oauth2.Manager satisfies it.
type TokenSource interface {
	Token() *oauth2.Token
}

type Handlers struct {
	envelopes      esignature.EnvelopePort
	config         *config.Config
	webhookLimiter ratelimit.Limiter
	trustedProxies []netip.Prefix
	breaker        BreakerStats
	tracker        StatusTracker
	tokens         TokenSource
	checks         map[string]DependencyCheck
	logger         logging.Logger

	webhookSyncTimeout time.Duration
	// webhookSyncs tracks syncs still running after their callback was answered.
	webhookSyncs sync.WaitGroup
}

// Option configures Handlers
type Option func(*Handlers)

// WithWebhookLimiter throttles webhook callbacks per client address
func WithWebhookLimiter(limiter ratelimit.Limiter) Option {
	return func(h *Handlers) {
		h.webhookLimiter = limiter
	}
}

// WithTrustedProxies lets the listed proxies name the client in X-Forwarded-For.
// Without it the webhook limiter keys on the connection's address only.
func WithTrustedProxies(prefixes []netip.Prefix) Option {
	return func(h *Handlers) {
		h.trustedProxies = prefixes
	}
}

// WithWebhookSyncTimeout bounds the sync started by a webhook notification
func WithWebhookSyncTimeout(timeout time.Duration) Option {
	return func(h *Handlers) {
		if timeout > 0 {
			h.webhookSyncTimeout = timeout
		}
	}
}

// WithStatusTracker records statuses fetched by webhooks and API reads, and
// serves them on the status endpoint.
func WithStatusTracker(tracker StatusTracker) Option {
	return func(h *Handlers) {
		h.tracker = tracker
	}
}

// WithTokenSource reports the vendor token's validity on /health
func WithTokenSource(tokens TokenSource) Option {
	return func(h *Handlers) {
		h.tokens = tokens
	}
}

func WithBreaker(breaker BreakerStats) Option {
	return func(h *Handlers) {
		h.breaker = breaker
	}
}

// WithHealthCheck adds a named dependency to /health
func WithHealthCheck(name string, check DependencyCheck) Option {
	return func(h *Handlers) {
		h.checks[name] = check
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(h *Handlers) {
		h.logger = logger
	}
}

func New(envelopes esignature.EnvelopePort, cfg *config.Config, opts ...Option) *Handlers {
	h := &Handlers{
		envelopes:          envelopes,
		config:             cfg,
		checks:             make(map[string]DependencyCheck),
		webhookSyncTimeout: defaultWebhookSyncTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logging.GetGlobalLogger()
	}
	return h
}

// Wait blocks until webhook syncs still in flight finish, or ctx is done
func (h *Handlers) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.webhookSyncs.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// observe records envelope with the tracker, if any. Failures are logged only.
func (h *Handlers) observe(ctx context.Context, source envstate.Source, envelope *esignature.Envelope) {
	if h.tracker == nil {
		return
	}
	if _, err := h.tracker.Observe(ctx, source, envelope); err != nil {
		h.logger.WithContext(ctx).Warn("Failed to record envelope status",
			logging.Field{"envelope_id", envelope.ID.String()},
			logging.Err(err),
		)
	}
}

// errorResponse is the body of every non-2xx API response
type errorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// statusFor maps an error category onto the HTTP status returned to callers
func statusFor(err error) int {
	switch errors.GetType(err) {
	case errors.ErrTypeNotFound:
		return http.StatusNotFound
	case errors.ErrTypeValidation:
		return http.StatusBadRequest
	case errors.ErrTypeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrTypeAuth, errors.ErrTypeRemote, errors.ErrTypeConnection:
		return http.StatusBadGateway
	case errors.ErrTypeCircuitOpen:
		return http.StatusServiceUnavailable
	case errors.ErrTypeRateLimit:
		return http.StatusTooManyRequests
	case errors.ErrTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	errType := errors.GetType(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithContext(r.Context()).Error("Envelope request failed", err,
			logging.Field{"path", r.URL.Path},
			logging.Field{"type", string(errType)},
		)
	}

	message := err.Error()
	if appErr, ok := errors.As(err); ok {
		message = appErr.Message
	}
	writeJSON(w, status, errorResponse{Error: message, Type: string(errType)})
}
