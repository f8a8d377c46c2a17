package objectrepo

import (
	"context"
	"errors"
	"testing"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memObjects struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memObjects) GetObject(_ context.Context, key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (m *memObjects) PutObject(_ context.Context, key string, data []byte, contentType string) error {
	if m.err != nil {
		return m.err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func TestCatalogObject_PublishThenLoad(t *testing.T) {
	store := newMemObjects()
	c := NewCatalogObject(store, "catalog/catalog.json")

	snap := &domain.CatalogSnapshot{
		Brands:   []domain.Brand{{ID: "1", Name: "Barba Hats", Slug: "barbahats"}},
		Products: []domain.Product{{ID: "bh-1", Name: "Sombrero", Price: 1200, Stock: 4, Colors: []string{"Negro"}}},
	}
	require.NoError(t, c.Publish(context.Background(), snap))
	assert.Equal(t, "application/json", store.types["catalog/catalog.json"])

	got, err := c.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestCatalogObject_Missing(t *testing.T) {
	c := NewCatalogObject(newMemObjects(), "nope.json")
	_, err := c.LoadCatalog(context.Background())
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestCatalogObject_Corrupt(t *testing.T) {
	store := newMemObjects()
	store.objects["c.json"] = []byte("{not json")
	_, err := NewCatalogObject(store, "c.json").LoadCatalog(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode catalog object")
}

func TestCatalogObject_BackendError(t *testing.T) {
	store := newMemObjects()
	store.err = errors.New("boom")
	_, err := NewCatalogObject(store, "c.json").LoadCatalog(context.Background())
	assert.EqualError(t, err, "boom")
}
