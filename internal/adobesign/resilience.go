package adobesign

import (
	"context"
	stderrors "errors"
	"net/http"

	"esign-adapter/internal/circuitbreaker"
	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/common/logging"
	"esign-adapter/internal/common/utils"
)

// executor runs vendor calls through the circuit breaker, with retry as the
// outer layer so every attempt is seen by the breaker.
type executor struct {
	breaker *circuitbreaker.GoBreakerAdapter
	retry   utils.RetryConfig
	session *Session
	logger  logging.Logger
}

func newExecutor(breaker *circuitbreaker.GoBreakerAdapter, retry utils.RetryConfig, session *Session, logger logging.Logger) *executor {
	e := &executor{
		breaker: breaker,
		session: session,
		logger:  logger,
	}
	retry.RetryableErrors = retryable
	retry.OnRetry = func(attempt int, err error) {
		logger.Warn("Adobe Sign call failed, retrying",
			logging.Field{"attempt", attempt},
			logging.Field{"error", err.Error()},
		)
	}
	e.retry = retry
	return e
}

// run obtains a token and calls fn with it. Each attempt fetches the token
// again so a refresh after a rejected token is picked up.
func (e *executor) run(ctx context.Context, fn func(token string) error) error {
	return utils.RetryWithBackoff(ctx, e.retry, func() error {
		return e.breaker.Execute(ctx, func() error {
			token, err := e.session.Token(ctx)
			if err != nil {
				return err
			}
			err = fn(token)
			if rejectedToken(err) {
				e.session.InvalidateToken(ctx)
			}
			return err
		})
	})
}

func rejectedToken(err error) bool {
	appErr, ok := errors.As(err)
	return ok && appErr.Type == errors.ErrTypeAuth && appErr.StatusCode == http.StatusUnauthorized
}

// retryable excludes errors another attempt cannot fix
func retryable(err error) bool {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch errors.GetType(err) {
	case errors.ErrTypeNotFound, errors.ErrTypeValidation, errors.ErrTypeUnsupported, errors.ErrTypeCircuitOpen:
		return false
	}
	return true
}
