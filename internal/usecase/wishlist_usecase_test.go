package usecase

import (
	"context"
	"testing"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/infrastructure/kvstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistToggleIsInvolution(t *testing.T) {
	ctx := context.Background()
	rec := &recordingNotifier{}
	w := NewWishlistManager(ctx, newFakeKV(), "s1", rec)
	p := hat("p", 10, 1)

	res, err := w.Toggle(ctx, p)
	require.NoError(t, err)
	assert.True(t, res.InWishlist)
	assert.True(t, res.Persisted)
	assert.True(t, w.IsInWishlist("p"))

	res, err = w.Toggle(ctx, p)
	require.NoError(t, err)
	assert.False(t, res.InWishlist)
	assert.False(t, w.IsInWishlist("p"))
	assert.Empty(t, w.Items())

	assert.Equal(t, []domain.NotificationKind{domain.NotifyWishlistAdded, domain.NotifyWishlistRemoved}, rec.kinds())
}

func TestWishlistAddIsSet(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	w := NewWishlistManager(ctx, kv, "s1", nil)

	_, err := w.Add(ctx, hat("a", 1, 1))
	require.NoError(t, err)
	n, err := w.Add(ctx, hat("a", 1, 1))
	require.NoError(t, err)
	_, err = w.Add(ctx, hat("b", 1, 1))
	require.NoError(t, err)

	assert.Equal(t, domain.NotifyNoop, n.Kind)
	items := w.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, 2, kv.sets, "no-op add must not write")

	n, err = w.Remove(ctx, "zzz")
	require.NoError(t, err)
	assert.Equal(t, domain.NotifyNoop, n.Kind)
}

func TestWishlistSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()

	first := NewWishlistManager(ctx, kv, "s1", nil)
	_, err := first.Toggle(ctx, hat("a", 1, 1))
	require.NoError(t, err)
	_, err = first.Toggle(ctx, hat("b", 2, 1))
	require.NoError(t, err)

	second := NewWishlistManager(ctx, kv, "s1", nil)
	assert.True(t, second.IsInWishlist("a"))
	assert.True(t, second.IsInWishlist("b"))
	assert.Equal(t, 2, second.View().Count)

	other := NewWishlistManager(ctx, kv, "s2", nil)
	assert.Empty(t, other.Items())
}

func TestWishlistCorruptDataStartsEmpty(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string]string{
		"not json":   "{{{",
		"wrong type": `{"id":"a"}`,
	} {
		t.Run(name, func(t *testing.T) {
			kv := newFakeKV()
			kv.data[domain.WishlistKey("s1")] = []byte(raw)

			w := NewWishlistManager(ctx, kv, "s1", nil)
			assert.Empty(t, w.Items())

			_, err := w.Toggle(ctx, hat("a", 1, 1))
			require.NoError(t, err)
			assert.True(t, w.IsInWishlist("a"))
		})
	}
}

func TestWishlistDedupesStoredEntries(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	kv.data[domain.WishlistKey("s1")] = []byte(`[{"id":"a","name":"A"},{"id":"a","name":"A again"},{"id":""}]`)

	w := NewWishlistManager(ctx, kv, "s1", nil)

	items := w.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Name)
}

func TestWishlistWriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	kv.setErr = errBackend
	w := NewWishlistManager(ctx, kv, "s1", nil)

	res, err := w.Toggle(ctx, hat("a", 1, 1))

	assert.ErrorIs(t, err, errBackend)
	assert.False(t, res.Persisted)
	assert.True(t, res.InWishlist)
	assert.True(t, w.IsInWishlist("a"))
}

func TestWishlistOverRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := kvstore.NewRedisClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	store := kvstore.NewRedisStore(client)

	w := NewWishlistManager(ctx, store, "s1", nil)
	_, err = w.Toggle(ctx, hat("gf-1", 999, 4, "Negro"))
	require.NoError(t, err)

	raw, err := mr.Get("wishlist:s1")
	require.NoError(t, err)
	assert.Contains(t, raw, `"id":"gf-1"`)

	reloaded := NewWishlistManager(ctx, store, "s1", nil)
	assert.True(t, reloaded.IsInWishlist("gf-1"))
}
