// Package cache is the in-process cache shared by the catalog, config enums
// and session registry.
package cache

import "time"

// CacheService stores values by key with a per-entry lifetime. Values are
// kept as given; callers that hand out cached slices must copy them.
type CacheService interface {
	Get(key string) (interface{}, bool)
	// Set stores value for ttl. Zero means the cache default, negative never expires.
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Flush()
	// OnEvicted replaces the eviction callback. It runs on expiry and on
	// Delete, but not on Flush.
	OnEvicted(fn func(key string, value interface{}))
}
