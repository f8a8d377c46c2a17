package notify

import (
	"bytes"
	"testing"

	"storefront-backend/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFeedDrainsInOrder(t *testing.T) {
	f := NewFeed(4)
	f.Notify(domain.Notification{Kind: domain.NotifyAdded, ProductID: "a"})
	f.Notify(domain.Notification{Kind: domain.NotifyRemoved, ProductID: "a"})

	got := f.Drain()
	assert.Len(t, got, 2)
	assert.Equal(t, domain.NotifyAdded, got[0].Kind)
	assert.Equal(t, domain.NotifyRemoved, got[1].Kind)
	assert.Equal(t, 0, f.Len())
	assert.Empty(t, f.Drain())
}

func TestFeedDropsOldestWhenFull(t *testing.T) {
	f := NewFeed(2)
	for _, id := range []string{"a", "b", "c"} {
		f.Notify(domain.Notification{Kind: domain.NotifyAdded, ProductID: id})
	}

	got := f.Drain()
	assert.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ProductID)
	assert.Equal(t, "c", got[1].ProductID)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)

	NewLogNotifier(&l).Notify(domain.Notification{Kind: domain.NotifyStockLimit, ProductID: "bh-2", Message: "stock limit"})

	assert.Contains(t, buf.String(), `"kind":"stock_limit"`)
	assert.Contains(t, buf.String(), `"product_id":"bh-2"`)
}
