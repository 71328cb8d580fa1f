package envstate

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"esign-adapter/internal/redis"
)

const keyPrefix = "esign:status:"

// RedisClient is the part of the redis client the store needs
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
}

// RedisStore shares snapshots between replicas as JSON values without a TTL.
type RedisStore struct {
	client RedisClient
}

func NewRedisStore(client RedisClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, snapshot Snapshot) error {
	if err := s.client.Set(ctx, keyPrefix+snapshot.EnvelopeID.String(), snapshot, 0); err != nil {
		return fmt.Errorf("failed to save envelope status: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	var snapshot Snapshot
	err := s.client.GetJSON(ctx, keyPrefix+id.String(), &snapshot)
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read envelope status: %w", err)
	}
	return &snapshot, nil
}
