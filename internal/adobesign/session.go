package adobesign

import (
	"context"

	"esign-adapter/internal/idmap"
)

// TokenSource supplies bearer tokens. *oauth2.Manager implements it.
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
	// Invalidate forgets the current token after the vendor rejected it.
	Invalidate(ctx context.Context)
}

// Session is the state shared by every adapter operation: the access token
// and the envelope id mapping. Both are safe for concurrent use.
type Session struct {
	tokens TokenSource
	ids    idmap.Store
}

func NewSession(tokens TokenSource, ids idmap.Store) *Session {
	return &Session{tokens: tokens, ids: ids}
}

// Token returns a bearer token valid for at least the refresh margin
func (s *Session) Token(ctx context.Context) (string, error) {
	return s.tokens.GetToken(ctx)
}

func (s *Session) InvalidateToken(ctx context.Context) {
	s.tokens.Invalidate(ctx)
}

func (s *Session) IDs() idmap.Store {
	return s.ids
}
