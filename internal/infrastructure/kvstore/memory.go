package kvstore

import (
	"context"
	"slices"

	"storefront-backend/internal/domain"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is a process-local KeyValueStore for development.
type MemoryStore struct {
	store *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: gocache.New(gocache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := s.store.Get(key)
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return slices.Clone(v.([]byte)), nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.store.Set(key, slices.Clone(value), gocache.NoExpiration)
	return nil
}
