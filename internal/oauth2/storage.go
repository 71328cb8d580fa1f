package oauth2

import (
	"context"
	"sync"
)

// TokenStorage persists the access token across restarts or between replicas.
type TokenStorage interface {
	// SaveToken stores token under serviceID, replacing any previous one.
	SaveToken(ctx context.Context, serviceID string, token *Token) error
	// LoadToken returns nil, nil when nothing is stored for serviceID.
	LoadToken(ctx context.Context, serviceID string) (*Token, error)
	DeleteToken(ctx context.Context, serviceID string) error
}

// MemoryTokenStorage keeps tokens in process memory
type MemoryTokenStorage struct {
	mu     sync.RWMutex
	tokens map[string]Token
}

func NewMemoryTokenStorage() *MemoryTokenStorage {
	return &MemoryTokenStorage{tokens: make(map[string]Token)}
}

func (s *MemoryTokenStorage) SaveToken(_ context.Context, serviceID string, token *Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[serviceID] = *token
	return nil
}

func (s *MemoryTokenStorage) LoadToken(_ context.Context, serviceID string) (*Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[serviceID]
	if !ok {
		return nil, nil
	}
	return &token, nil
}

func (s *MemoryTokenStorage) DeleteToken(_ context.Context, serviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, serviceID)
	return nil
}
