package notify

import (
	"sync"

	"storefront-backend/internal/domain"
)

// Feed buffers notifications for one session until they are drained.
// When the buffer is full the oldest notification is dropped.
type Feed struct {
	mu    sync.Mutex
	items []domain.Notification
	limit int
}

func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 32
	}
	return &Feed{limit: limit}
}

func (f *Feed) Notify(n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.items) == f.limit {
		f.items = f.items[1:]
	}
	f.items = append(f.items, n)
}

// Drain returns the pending notifications oldest first and empties the feed.
func (f *Feed) Drain() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	if out == nil {
		return []domain.Notification{}
	}
	return out
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
