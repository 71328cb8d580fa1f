package idmap

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"esign-adapter/internal/redis"
)

const (
	internalKeyPrefix = "esign:idmap:int:"
	externalKeyPrefix = "esign:idmap:ext:"
)

// RedisClient is the part of the redis client the store needs
type RedisClient interface {
	SetPair(ctx context.Context, key1 string, value1 interface{}, key2 string, value2 interface{}) error
	Get(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}

// RedisStore shares the mapping between replicas. Each pair is written in a
// single MULTI/EXEC without a TTL.
type RedisStore struct {
	client RedisClient
}

func NewRedisStore(client RedisClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, internalID uuid.UUID, externalID string) error {
	if err := validatePair(internalID, externalID); err != nil {
		return err
	}
	return s.client.SetPair(ctx,
		internalKeyPrefix+internalID.String(), externalID,
		externalKeyPrefix+externalID, internalID.String(),
	)
}

func (s *RedisStore) ExternalID(ctx context.Context, internalID uuid.UUID) (string, bool, error) {
	externalID, err := s.client.Get(ctx, internalKeyPrefix+internalID.String())
	if stderrors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read id mapping: %w", err)
	}
	return externalID, true, nil
}

func (s *RedisStore) InternalID(ctx context.Context, externalID string) (uuid.UUID, bool, error) {
	value, err := s.client.Get(ctx, externalKeyPrefix+externalID)
	if stderrors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to read id mapping: %w", err)
	}
	internalID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt id mapping for %s: %w", externalID, err)
	}
	return internalID, true, nil
}

func (s *RedisStore) Contains(ctx context.Context, internalID uuid.UUID) (bool, error) {
	ok, err := s.client.Exists(ctx, internalKeyPrefix+internalID.String())
	if err != nil {
		return false, fmt.Errorf("failed to check id mapping: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) InternalIDs(ctx context.Context) ([]uuid.UUID, error) {
	keys, err := s.client.ScanKeys(ctx, internalKeyPrefix+"*")
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(keys))
	for _, key := range keys {
		id, err := uuid.Parse(strings.TrimPrefix(key, internalKeyPrefix))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
