package idmap

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/redis"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClient(&redis.Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	redisStore, _ := newRedisStore(t)
	result := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}

	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		ctx := context.Background()
		pg, err := NewPostgresStore(ctx, dsn)
		require.NoError(t, err)
		require.NoError(t, pg.Migrate(ctx))
		t.Cleanup(func() {
			_, _ = pg.pool.Exec(context.Background(), `TRUNCATE envelope_id_mappings`)
			pg.Close()
		})
		result["postgres"] = pg
	}
	return result
}

func TestStore_RoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			internalID := uuid.New()
			externalID := "CBJCHBCAABAA-" + internalID.String()[:8]

			require.NoError(t, store.Put(ctx, internalID, externalID))

			gotExternal, ok, err := store.ExternalID(ctx, internalID)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, externalID, gotExternal)

			gotInternal, ok, err := store.InternalID(ctx, externalID)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, internalID, gotInternal)

			contains, err := store.Contains(ctx, internalID)
			require.NoError(t, err)
			assert.True(t, contains)

			ids, err := store.InternalIDs(ctx)
			require.NoError(t, err)
			assert.Contains(t, ids, internalID)
		})
	}
}

func TestStore_Unmapped(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := store.ExternalID(ctx, uuid.New())
			require.NoError(t, err)
			assert.False(t, ok)

			_, ok, err = store.InternalID(ctx, "unknown-agreement")
			require.NoError(t, err)
			assert.False(t, ok)

			contains, err := store.Contains(ctx, uuid.New())
			require.NoError(t, err)
			assert.False(t, contains)
		})
	}
}

func TestStore_RejectsIncompletePair(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			err := store.Put(ctx, uuid.Nil, "agreement-1")
			assert.True(t, errors.IsType(err, errors.ErrTypeValidation))

			err = store.Put(ctx, uuid.New(), "")
			assert.True(t, errors.IsType(err, errors.ErrTypeValidation))

			ids, err := store.InternalIDs(ctx)
			require.NoError(t, err)
			assert.Empty(t, ids)
		})
	}
}

func TestRedisStore_Keys(t *testing.T) {
	store, mr := newRedisStore(t)
	internalID := uuid.New()

	require.NoError(t, store.Put(context.Background(), internalID, "agreement-1"))

	forward, err := mr.Get("esign:idmap:int:" + internalID.String())
	require.NoError(t, err)
	assert.Equal(t, "agreement-1", forward)

	reverse, err := mr.Get("esign:idmap:ext:agreement-1")
	require.NoError(t, err)
	assert.Equal(t, internalID.String(), reverse)

	assert.Zero(t, mr.TTL("esign:idmap:int:"+internalID.String()))
	assert.Zero(t, mr.TTL("esign:idmap:ext:agreement-1"))
}

func TestRedisStore_CorruptReverseEntry(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("esign:idmap:ext:agreement-1", "not-a-uuid"))

	_, _, err := store.InternalID(context.Background(), "agreement-1")
	assert.Error(t, err)
}

func TestMemoryStore_ReplacesStaleReverseEntry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	internalID := uuid.New()

	require.NoError(t, store.Put(ctx, internalID, "agreement-1"))
	require.NoError(t, store.Put(ctx, internalID, "agreement-2"))

	_, ok, _ := store.InternalID(ctx, "agreement-1")
	assert.False(t, ok)

	got, ok, _ := store.InternalID(ctx, "agreement-2")
	assert.True(t, ok)
	assert.Equal(t, internalID, got)
}

// Readers must never observe one direction of a pair without the other.
func TestMemoryStore_PairVisibleTogether(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const writers = 8
	const perWriter = 200

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			ids, _ := store.InternalIDs(ctx)
			for _, id := range ids {
				externalID, ok, _ := store.ExternalID(ctx, id)
				if !ok {
					continue
				}
				back, ok, _ := store.InternalID(ctx, externalID)
				if !ok || back != id {
					t.Errorf("reverse mapping missing for %s", id)
					return
				}
			}
		}
	}()

	var writersWG sync.WaitGroup
	for w := 0; w < writers; w++ {
		writersWG.Add(1)
		go func() {
			defer writersWG.Done()
			for i := 0; i < perWriter; i++ {
				id := uuid.New()
				_ = store.Put(ctx, id, id.String()+"-ext")
			}
		}()
	}
	writersWG.Wait()
	close(done)
	wg.Wait()

	ids, err := store.InternalIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, writers*perWriter)
}
