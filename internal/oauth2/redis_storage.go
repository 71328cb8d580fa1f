package oauth2

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"esign-adapter/internal/crypto"
)

// RedisInterface is the subset of the redis client used for token storage
type RedisInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisTokenStorage stores tokens in redis, encrypted with AES-GCM. Entries
// expire together with the access token, but never sooner than minTTL so a
// rotated refresh token is kept for a while.
type RedisTokenStorage struct {
	client    RedisInterface
	encryptor *crypto.ConfigEncryptor
	prefix    string
	minTTL    time.Duration
}

func NewRedisTokenStorage(client RedisInterface, encryptor *crypto.ConfigEncryptor) *RedisTokenStorage {
	return &RedisTokenStorage{
		client:    client,
		encryptor: encryptor,
		prefix:    "oauth2:token:",
		minTTL:    24 * time.Hour,
	}
}

func (s *RedisTokenStorage) key(serviceID string) string {
	return s.prefix + serviceID
}

func (s *RedisTokenStorage) SaveToken(ctx context.Context, serviceID string, token *Token) error {
	sealed, err := s.encryptor.EncryptJSON(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	ttl := s.minTTL
	if remaining := time.Until(token.Expiry); remaining > ttl {
		ttl = remaining
	}

	if err := s.client.Set(ctx, s.key(serviceID), sealed, ttl); err != nil {
		return fmt.Errorf("failed to save token to redis: %w", err)
	}
	return nil
}

func (s *RedisTokenStorage) LoadToken(ctx context.Context, serviceID string) (*Token, error) {
	sealed, err := s.client.Get(ctx, s.key(serviceID))
	if stderrors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token from redis: %w", err)
	}

	var token Token
	if err := s.encryptor.DecryptJSON(sealed, &token); err != nil {
		return nil, fmt.Errorf("failed to decrypt stored token: %w", err)
	}
	return &token, nil
}

func (s *RedisTokenStorage) DeleteToken(ctx context.Context, serviceID string) error {
	if err := s.client.Delete(ctx, s.key(serviceID)); err != nil {
		return fmt.Errorf("failed to delete token from redis: %w", err)
	}
	return nil
}
