package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *fakeCatalogSource {
	return &fakeCatalogSource{snap: domain.CatalogSnapshot{
		Brands: []domain.Brand{
			{ID: "barbahats", Name: "BarbaHats", Slug: "barbahats"},
			{ID: "jchats", Name: "JC Hats", Slug: "jchats"},
		},
		Products: []domain.Product{
			{ID: "bh-1", Name: "BarbaHats Classic Black", Price: 899, Stock: 35, Colors: []string{"Negro", "Gris"}, Collection: "BarbaHats", Brand: "barbahats"},
			{ID: "bh-2", Name: "BarbaHats Gold Edition", Price: 1299, Stock: 0, Colors: []string{"Negro/Dorado"}, Collection: "BarbaHats", Brand: "barbahats"},
			{ID: "jc-1", Name: "JC Urban Snapback", Price: 649, Stock: 12, Colors: []string{"Negro", "Blanco"}, Collection: "Urbano", Brand: "jchats"},
			{ID: "broken", Name: "Broken", Price: -5},
		},
	}}
}

func TestCatalogListProducts(t *testing.T) {
	uc := NewCatalogUsecase(testCatalog(), newTestCache(), time.Minute)
	ctx := context.Background()

	all, err := uc.ListProducts(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3, "invalid products are skipped")

	black, err := uc.ListProducts(ctx, domain.ProductFilter{Colors: []string{"Negro"}, InStockOnly: true})
	require.NoError(t, err)
	ids := []string{}
	for _, p := range black {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"bh-1", "jc-1"}, ids)
}

func TestCatalogCachesSnapshot(t *testing.T) {
	src := testCatalog()
	uc := NewCatalogUsecase(src, newTestCache(), time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.ListProducts(ctx, domain.ProductFilter{})
		}()
	}
	wg.Wait()
	_, err := uc.GetProduct(ctx, "bh-1")
	require.NoError(t, err)
	assert.LessOrEqual(t, src.loads, 2)
	loads := src.loads

	uc.Invalidate()
	_, err = uc.ListProducts(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, loads+1, src.loads)
}

func TestCatalogGetProduct(t *testing.T) {
	uc := NewCatalogUsecase(testCatalog(), newTestCache(), time.Minute)

	p, err := uc.GetProduct(context.Background(), "jc-1")
	require.NoError(t, err)
	assert.Equal(t, "JC Urban Snapback", p.Name)

	_, err = uc.GetProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogGetBrand(t *testing.T) {
	uc := NewCatalogUsecase(testCatalog(), newTestCache(), time.Minute)

	view, err := uc.GetBrand(context.Background(), "BarbaHats")
	require.NoError(t, err)
	assert.Equal(t, "barbahats", view.Brand.Slug)
	assert.Len(t, view.Products, 2)

	_, err = uc.GetBrand(context.Background(), "unknown")
	assert.ErrorIs(t, err, domain.ErrBrandNotFound)

	brands, err := uc.ListBrands(context.Background())
	require.NoError(t, err)
	assert.Len(t, brands, 2)
}

func TestCatalogFacets(t *testing.T) {
	uc := NewCatalogUsecase(testCatalog(), newTestCache(), time.Minute)

	f, err := uc.Facets(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"BarbaHats", "Urbano"}, f.Collections)
	assert.Equal(t, []string{"Blanco", "Gris", "Negro", "Negro/Dorado"}, f.Colors)
	assert.Equal(t, []string{"barbahats", "jchats"}, f.Brands)
}

func TestCatalogSourceError(t *testing.T) {
	src := testCatalog()
	src.err = errBackend
	uc := NewCatalogUsecase(src, newTestCache(), time.Minute)

	_, err := uc.ListProducts(context.Background(), domain.ProductFilter{})
	assert.ErrorIs(t, err, errBackend)
}
