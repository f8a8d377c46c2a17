package objectrepo

import (
	"context"
	"errors"
	"fmt"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/storage"

	"github.com/goccy/go-json"
)

// ObjectStore is the subset of storage.R2Storage the catalog needs.
type ObjectStore interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
}

// CatalogObject reads and writes the catalog as one JSON document in a bucket.
type CatalogObject struct {
	store ObjectStore
	key   string
}

func NewCatalogObject(store ObjectStore, key string) *CatalogObject {
	return &CatalogObject{store: store, key: key}
}

func (c *CatalogObject) LoadCatalog(ctx context.Context) (*domain.CatalogSnapshot, error) {
	data, err := c.store.GetObject(ctx, c.key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, fmt.Errorf("catalog object %q: %w", c.key, err)
	}
	if err != nil {
		return nil, err
	}
	var snap domain.CatalogSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode catalog object %q: %w", c.key, err)
	}
	return &snap, nil
}

// Publish uploads snap, replacing the current catalog document.
func (c *CatalogObject) Publish(ctx context.Context, snap *domain.CatalogSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.store.PutObject(ctx, c.key, data, "application/json")
}
