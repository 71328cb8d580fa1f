// Package envstate keeps the last envelope status seen from the vendor,
// whichever path observed it: a webhook, the scheduled sync or an API read.
package envstate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"esign-adapter/internal/esignature"
)

// Source names the path that observed a status
type Source string

const (
	SourceWebhook  Source = "webhook"
	SourceSchedule Source = "schedule"
	SourceAPI      Source = "api"
)

// Snapshot is the last known status of one envelope
type Snapshot struct {
	EnvelopeID uuid.UUID                 `json:"envelopeId"`
	ExternalID string                    `json:"externalId,omitempty"`
	Status     esignature.EnvelopeStatus `json:"status"`
	Source     Source                    `json:"source"`
	ObservedAt time.Time                 `json:"observedAt"`
	// ChangedAt is when Status last took its current value.
	ChangedAt time.Time `json:"changedAt"`
}

// Store persists one Snapshot per envelope.
type Store interface {
	Save(ctx context.Context, snapshot Snapshot) error
	// Get returns nil, nil when nothing was observed for id.
	Get(ctx context.Context, id uuid.UUID) (*Snapshot, error)
}

type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[uuid.UUID]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[uuid.UUID]Snapshot)}
}

func (s *MemoryStore) Save(_ context.Context, snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.EnvelopeID] = snapshot
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[id]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}
