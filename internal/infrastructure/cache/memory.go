// Package cache implements pkg/cache on top of patrickmn/go-cache.
package cache

import (
	"time"

	"storefront-backend/pkg/cache"

	gocache "github.com/patrickmn/go-cache"
)

type memoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache returns a process-local cache. Entries past their TTL read
// as missing straight away and are swept every cleanupInterval.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) cache.CacheService {
	return &memoryCache{items: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *memoryCache) Get(key string) (interface{}, bool) {
	return c.items.Get(key)
}

func (c *memoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.items.Set(key, value, ttl)
}

func (c *memoryCache) Delete(key string) {
	c.items.Delete(key)
}

func (c *memoryCache) Flush() {
	c.items.Flush()
}

func (c *memoryCache) OnEvicted(fn func(key string, value interface{})) {
	c.items.OnEvicted(fn)
}
