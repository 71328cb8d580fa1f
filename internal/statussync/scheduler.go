// Package statussync periodically refreshes the status of every mapped
// envelope from the vendor.
package statussync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/common/logging"
	"esign-adapter/internal/envstate"
	"esign-adapter/internal/esignature"
	"esign-adapter/internal/idmap"
	"esign-adapter/internal/metrics"
)

const (
	lockKey            = "esign:status-sync"
	defaultLockTTL     = 5 * time.Minute
	defaultConcurrency = 4
)

// Syncer refreshes one envelope. esignature.EnvelopePort satisfies it.
type Syncer interface {
	SyncEnvelopeStatus(ctx context.Context, id uuid.UUID) (*esignature.Envelope, error)
}

// Locker keeps replicas from running the same sync at once. *redis.Client satisfies it.
type Locker interface {
	AcquireLock(ctx context.Context, key string, expiration time.Duration) (string, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// Observer receives every envelope a run fetches. *envstate.Tracker satisfies it.
type Observer interface {
	Observe(ctx context.Context, source envstate.Source, envelope *esignature.Envelope) (bool, error)
}

// Breaker reports whether vendor calls are currently short-circuited
type Breaker interface {
	IsOpen() bool
}

// Result summarises one run
type Result struct {
	Synced  int
	Failed  int
	Changed int
	// Deferred counts envelopes left for the next run because the breaker opened.
	Deferred int
	Skipped  bool
}

type Scheduler struct {
	schedule    string
	cron        *cron.Cron
	syncer      Syncer
	ids         idmap.Store
	locker      Locker
	observer    Observer
	breaker     Breaker
	lockTTL     time.Duration
	concurrency int
	logger      logging.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	running atomic.Bool
}

type Option func(*Scheduler)

func WithLocker(locker Locker, ttl time.Duration) Option {
	return func(s *Scheduler) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithObserver hands each fetched envelope to observer
func WithObserver(observer Observer) Option {
	return func(s *Scheduler) {
		s.observer = observer
	}
}

// WithBreaker skips a run, or defers its remaining envelopes, while breaker is open
func WithBreaker(breaker Breaker) Option {
	return func(s *Scheduler) {
		s.breaker = breaker
	}
}

// WithConcurrency bounds the number of envelopes synced in parallel
func WithConcurrency(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// New validates schedule (standard cron with optional seconds, or a
// descriptor such as "@every 10m").
func New(schedule string, syncer Syncer, ids idmap.Store, opts ...Option) (*Scheduler, error) {
	if _, err := parser.Parse(schedule); err != nil {
		return nil, errors.ConfigError("invalid status sync schedule: " + err.Error())
	}

	s := &Scheduler{
		schedule:    schedule,
		syncer:      syncer,
		ids:         ids,
		lockTTL:     defaultLockTTL,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.GetGlobalLogger()
	}
	s.logger = s.logger.WithFields(logging.Field{"component", "status_sync"})

	s.cron = cron.New(cron.WithParser(parser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	return s, nil
}

// Start schedules the job. Runs started by the schedule are cancelled by Stop.
func (s *Scheduler) Start() error {
	ctx, cancel := context.WithCancel(context.Background())

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("Status sync failed", err)
		}
	})
	if err != nil {
		cancel()
		return errors.ConfigError("invalid status sync schedule: " + err.Error())
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Status sync scheduled", logging.Field{"schedule", s.schedule})
	return nil
}

// Stop cancels a running sync and waits for it, or for ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce syncs every mapped envelope. Individual failures are logged and
// counted, not returned.
func (s *Scheduler) RunOnce(ctx context.Context) (Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Result{Skipped: true}, nil
	}
	defer s.running.Store(false)

	if s.breakerOpen() {
		metrics.StatusSyncs.WithLabelValues("schedule", "deferred").Inc()
		s.logger.Warn("Status sync skipped: vendor circuit open")
		return Result{Skipped: true}, nil
	}

	if s.locker != nil {
		token, err := s.locker.AcquireLock(ctx, lockKey, s.lockTTL)
		if err != nil {
			return Result{}, err
		}
		if token == "" {
			s.logger.Debug("Status sync held by another instance")
			return Result{Skipped: true}, nil
		}
		defer func() {
			if err := s.locker.ReleaseLock(context.WithoutCancel(ctx), lockKey, token); err != nil {
				s.logger.Warn("Failed to release status sync lock", logging.Err(err))
			}
		}()
	}

	ids, err := s.ids.InternalIDs(ctx)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	var synced, failed, changed, deferred atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if s.breakerOpen() {
				deferred.Add(1)
				metrics.StatusSyncs.WithLabelValues("schedule", "deferred").Inc()
				return nil
			}
			envelope, err := s.syncer.SyncEnvelopeStatus(gctx, id)
			if err != nil {
				failed.Add(1)
				metrics.StatusSyncs.WithLabelValues("schedule", "failure").Inc()
				s.logger.Warn("Envelope status sync failed",
					logging.Field{"envelope_id", id.String()},
					logging.Err(err),
				)
				return nil
			}
			synced.Add(1)
			metrics.StatusSyncs.WithLabelValues("schedule", "success").Inc()
			if s.observer != nil {
				ok, err := s.observer.Observe(gctx, envstate.SourceSchedule, envelope)
				if err != nil {
					s.logger.Warn("Failed to record envelope status",
						logging.Field{"envelope_id", id.String()},
						logging.Err(err),
					)
				}
				if ok {
					changed.Add(1)
				}
			}
			s.logger.Debug("Envelope status synced",
				logging.Field{"envelope_id", id.String()},
				logging.Field{"status", string(envelope.Status)},
			)
			return nil
		})
	}
	err = g.Wait()
	result := Result{
		Synced:   int(synced.Load()),
		Failed:   int(failed.Load()),
		Changed:  int(changed.Load()),
		Deferred: int(deferred.Load()),
	}
	if err != nil {
		return result, err
	}

	s.logger.Info("Status sync completed",
		logging.Field{"synced", result.Synced},
		logging.Field{"failed", result.Failed},
		logging.Field{"changed", result.Changed},
		logging.Field{"deferred", result.Deferred},
		logging.Field{"duration", time.Since(start)},
	)
	return result, nil
}

func (s *Scheduler) breakerOpen() bool {
	return s.breaker != nil && s.breaker.IsOpen()
}
