package domain

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValueStore.Get for a missing key.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the durable storage behind the wishlist.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// WishlistKeyPrefix namespaces wishlist snapshots in the key-value store.
const WishlistKeyPrefix = "wishlist:"

// WishlistKey is keyed on the long-lived shopper id, never the cart session.
func WishlistKey(shopperID string) string {
	return WishlistKeyPrefix + shopperID
}

type WishlistView struct {
	Items []Product `json:"items"`
	Count int       `json:"count"`
}

type WishlistToggleResult struct {
	InWishlist   bool         `json:"inWishlist"`
	Wishlist     WishlistView `json:"wishlist"`
	Notification Notification `json:"notification"`
	// Persisted is false when the store write failed; the change is kept in memory.
	Persisted bool `json:"persisted"`
}
