package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"

	"golang.org/x/sync/singleflight"
)

const (
	catalogSnapshotKey = "catalog:snapshot"
	catalogFacetsKey   = "catalog:facets"
)

// CatalogUsecase serves the read-only catalog from a cached snapshot.
type CatalogUsecase struct {
	source domain.CatalogSource
	cache  cache.CacheService
	ttl    time.Duration
	group  singleflight.Group
}

func NewCatalogUsecase(source domain.CatalogSource, cache cache.CacheService, ttl time.Duration) *CatalogUsecase {
	return &CatalogUsecase{
		source: source,
		cache:  cache,
		ttl:    ttl,
	}
}

func (u *CatalogUsecase) snapshot(ctx context.Context) (*domain.CatalogSnapshot, error) {
	if val, found := u.cache.Get(catalogSnapshotKey); found {
		return val.(*domain.CatalogSnapshot), nil
	}

	v, err, _ := u.group.Do(catalogSnapshotKey, func() (interface{}, error) {
		start := time.Now()
		snap, err := u.source.LoadCatalog(context.WithoutCancel(ctx))
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		valid := snap.Products[:0:0]
		for _, p := range snap.Products {
			if err := p.Validate(); err != nil {
				logger.WithContext(ctx).Warn().Err(err).Msg("Catalog: skipping invalid product")
				continue
			}
			valid = append(valid, p)
		}
		snap.Products = valid
		u.cache.Set(catalogSnapshotKey, snap, u.ttl)
		logger.WithContext(ctx).Info().
			Int("products", len(snap.Products)).
			Int("brands", len(snap.Brands)).
			Dur("duration_ms", time.Since(start)).
			Msg("Catalog: loaded")
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.CatalogSnapshot), nil
}

// ListProducts returns the products matching filter in catalog order.
func (u *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	snap, err := u.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(snap.Products))
	for i := range snap.Products {
		if filter.Matches(&snap.Products[i]) {
			out = append(out, snap.Products[i])
		}
	}
	return out, nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	snap, err := u.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snap.Products {
		if snap.Products[i].ID == id {
			p := snap.Products[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, domain.ErrProductNotFound)
}

func (u *CatalogUsecase) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	snap, err := u.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.Brands), nil
}

// GetBrand returns the brand page for slug.
func (u *CatalogUsecase) GetBrand(ctx context.Context, slug string) (*domain.BrandView, error) {
	snap, err := u.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(snap.Brands, func(b domain.Brand) bool { return strings.EqualFold(b.Slug, slug) })
	if i < 0 {
		return nil, fmt.Errorf("%s: %w", slug, domain.ErrBrandNotFound)
	}
	brand := snap.Brands[i]
	products, err := u.ListProducts(ctx, domain.ProductFilter{Brand: brand.Slug})
	if err != nil {
		return nil, err
	}
	return &domain.BrandView{Brand: brand, Products: products}, nil
}

// Facets lists distinct collections, colors and brands, sorted.
func (u *CatalogUsecase) Facets(ctx context.Context) (*domain.Facets, error) {
	if val, found := u.cache.Get(catalogFacetsKey); found {
		return val.(*domain.Facets), nil
	}
	snap, err := u.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	collections := map[string]struct{}{}
	colors := map[string]struct{}{}
	brands := map[string]struct{}{}
	for _, p := range snap.Products {
		if p.Collection != "" {
			collections[p.Collection] = struct{}{}
		}
		if p.Brand != "" {
			brands[p.Brand] = struct{}{}
		}
		for _, c := range p.Colors {
			colors[c] = struct{}{}
		}
	}
	f := &domain.Facets{
		Collections: sortedKeys(collections),
		Colors:      sortedKeys(colors),
		Brands:      sortedKeys(brands),
	}
	u.cache.Set(catalogFacetsKey, f, u.ttl)
	return f, nil
}

// Invalidate drops the cached snapshot so the next read reloads it.
func (u *CatalogUsecase) Invalidate() {
	u.cache.Delete(catalogSnapshotKey)
	u.cache.Delete(catalogFacetsKey)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
