package envstate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"esign-adapter/internal/common/logging"
	"esign-adapter/internal/esignature"
	"esign-adapter/internal/metrics"
)

// Tracker turns fetched envelopes into stored snapshots and reports status
// transitions.
type Tracker struct {
	store  Store
	logger logging.Logger
	now    func() time.Time

	// mu orders the read-compare-write of Observe within one process.
	mu sync.Mutex
}

type TrackerOption func(*Tracker)

func WithLogger(logger logging.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		t.now = now
	}
}

func NewTracker(store Store, opts ...TrackerOption) *Tracker {
	t := &Tracker{store: store, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = logging.GetGlobalLogger()
	}
	t.logger = t.logger.WithFields(logging.Field{"component", "status_tracker"})
	return t
}

// Observe records envelope's current status and reports whether it differs
// from the last one stored. Envelopes without an id or status are ignored.
func (t *Tracker) Observe(ctx context.Context, source Source, envelope *esignature.Envelope) (bool, error) {
	if envelope == nil || envelope.ID == uuid.Nil || envelope.Status == "" {
		return false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	previous, err := t.store.Get(ctx, envelope.ID)
	if err != nil {
		return false, err
	}

	now := t.now().UTC()
	snapshot := Snapshot{
		EnvelopeID: envelope.ID,
		ExternalID: envelope.ExternalEnvelopeID,
		Status:     envelope.Status,
		Source:     source,
		ObservedAt: now,
		ChangedAt:  now,
	}
	changed := previous == nil || previous.Status != envelope.Status
	if !changed {
		snapshot.ChangedAt = previous.ChangedAt
	}
	if err := t.store.Save(ctx, snapshot); err != nil {
		return false, err
	}

	if changed {
		metrics.StatusChanges.WithLabelValues(string(source), string(envelope.Status)).Inc()
		fields := []logging.Field{
			{"envelope_id", envelope.ID.String()},
			{"source", string(source)},
			{"status", string(envelope.Status)},
		}
		if previous != nil {
			fields = append(fields, logging.Field{"previous_status", string(previous.Status)})
		}
		t.logger.WithContext(ctx).Info("Envelope status changed", fields...)
	}
	return changed, nil
}

// Last returns the stored snapshot for id, or nil when none was observed
func (t *Tracker) Last(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	return t.store.Get(ctx, id)
}
