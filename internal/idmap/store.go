// Package idmap keeps the bidirectional mapping between internal envelope
// ids and the ids the signing vendor assigns. Both directions of a pair are
// written together or not at all, and entries are never evicted.
package idmap

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"esign-adapter/internal/common/errors"
)

// Store maps internal envelope ids to external ids and back.
type Store interface {
	// Put records internalID <-> externalID.
	Put(ctx context.Context, internalID uuid.UUID, externalID string) error
	ExternalID(ctx context.Context, internalID uuid.UUID) (string, bool, error)
	InternalID(ctx context.Context, externalID string) (uuid.UUID, bool, error)
	Contains(ctx context.Context, internalID uuid.UUID) (bool, error)
	// InternalIDs lists every mapped internal id in no particular order.
	InternalIDs(ctx context.Context) ([]uuid.UUID, error)
}

func validatePair(internalID uuid.UUID, externalID string) error {
	if internalID == uuid.Nil {
		return errors.ValidationError("internal id is required")
	}
	if externalID == "" {
		return errors.ValidationError("external id is required")
	}
	return nil
}

// MemoryStore is a process-local Store. One lock guards both maps so a
// reader never sees half of a pair.
type MemoryStore struct {
	mu         sync.RWMutex
	toExternal map[uuid.UUID]string
	toInternal map[string]uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		toExternal: make(map[uuid.UUID]string),
		toInternal: make(map[string]uuid.UUID),
	}
}

func (s *MemoryStore) Put(_ context.Context, internalID uuid.UUID, externalID string) error {
	if err := validatePair(internalID, externalID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if previous, ok := s.toExternal[internalID]; ok && previous != externalID {
		delete(s.toInternal, previous)
	}
	s.toExternal[internalID] = externalID
	s.toInternal[externalID] = internalID
	return nil
}

func (s *MemoryStore) ExternalID(_ context.Context, internalID uuid.UUID) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	externalID, ok := s.toExternal[internalID]
	return externalID, ok, nil
}

func (s *MemoryStore) InternalID(_ context.Context, externalID string) (uuid.UUID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	internalID, ok := s.toInternal[externalID]
	return internalID, ok, nil
}

func (s *MemoryStore) Contains(_ context.Context, internalID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.toExternal[internalID]
	return ok, nil
}

func (s *MemoryStore) InternalIDs(_ context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(s.toExternal))
	for id := range s.toExternal {
		ids = append(ids, id)
	}
	return ids, nil
}
