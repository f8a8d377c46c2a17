package kvstore

import (
	"context"
	"testing"

	"storefront-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func TestStores(t *testing.T) {
	redisStore, _ := newRedisStore(t)

	stores := map[string]domain.KeyValueStore{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "wishlist:missing")
			assert.ErrorIs(t, err, domain.ErrKeyNotFound)

			require.NoError(t, store.Set(ctx, "wishlist:s1", []byte(`[{"id":"bh-1"}]`)))
			got, err := store.Get(ctx, "wishlist:s1")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"bh-1"}]`, string(got))

			require.NoError(t, store.Set(ctx, "wishlist:s1", []byte(`[]`)))
			got, err = store.Get(ctx, "wishlist:s1")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))
		})
	}
}

func TestRedisStoreHasNoTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, store.Set(context.Background(), "wishlist:s2", []byte(`[]`)))

	assert.Equal(t, int64(0), int64(mr.TTL("wishlist:s2")))
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client)

	mr.Close()

	err = store.Set(context.Background(), "wishlist:s3", []byte(`[]`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
