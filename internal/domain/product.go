package domain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Product is a catalog entry. The cart and wishlist hold snapshots of it.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Stock         int      `json:"stock"`
	Colors        []string `json:"colors"`
	Collection    string   `json:"collection"`
	Brand         string   `json:"brand,omitempty"` // brand slug
	Image         string   `json:"image"`
	Images        []string `json:"images,omitempty"`
	Description   string   `json:"description,omitempty"`
	Materials     string   `json:"materials,omitempty"`
	Features      []string `json:"features,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	ReviewCount   int      `json:"reviewCount,omitempty"`
	IsNew         bool     `json:"isNew,omitempty"`
	IsOnSale      bool     `json:"isOnSale,omitempty"`
}

// Validate checks the numeric invariants of a product record.
func (p *Product) Validate() error {
	var errs []error
	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if p.Price < 0 {
		errs = append(errs, fmt.Errorf("price %v is negative", p.Price))
	}
	if p.OriginalPrice != nil && *p.OriginalPrice < p.Price {
		errs = append(errs, fmt.Errorf("original price %v is below price %v", *p.OriginalPrice, p.Price))
	}
	if p.Stock < 0 {
		errs = append(errs, fmt.Errorf("stock %d is negative", p.Stock))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("product %q: %w", p.ID, err)
	}
	return nil
}

// HasColor reports whether color is one of the product's variants.
// The empty color means "no color chosen" and is always accepted.
func (p *Product) HasColor(color string) bool {
	return color == "" || slices.Contains(p.Colors, color)
}

type Brand struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Tagline     string `json:"tagline"`
	Logo        string `json:"logo,omitempty"`
	BannerImage string `json:"bannerImage"`
}

// BrandView is a brand page: the brand plus its products.
type BrandView struct {
	Brand    Brand     `json:"brand"`
	Products []Product `json:"products"`
}

type ProductFilter struct {
	Query       string
	Colors      []string
	Collections []string
	Brand       string
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
}

// Matches applies the filter to one product. Empty facets match everything.
func (f ProductFilter) Matches(p *Product) bool {
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if len(f.Colors) > 0 && !slices.ContainsFunc(p.Colors, func(c string) bool { return slices.Contains(f.Colors, c) }) {
		return false
	}
	if len(f.Collections) > 0 && !slices.Contains(f.Collections, p.Collection) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.InStockOnly && p.Stock <= 0 {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
		return false
	}
	return true
}

// Facets lists the distinct filter values present in the catalog.
type Facets struct {
	Collections []string `json:"collections"`
	Colors      []string `json:"colors"`
	Brands      []string `json:"brands"`
}

// CatalogSnapshot is the whole catalog in one document.
type CatalogSnapshot struct {
	Brands   []Brand   `json:"brands"`
	Products []Product `json:"products"`
}

// CatalogSource loads the full catalog. Filtering happens in memory.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) (*CatalogSnapshot, error)
}

// StockRepository adjusts stock after an order is placed.
type StockRepository interface {
	// DecrementStock lowers stock by qty, never below zero.
	DecrementStock(ctx context.Context, productID string, qty int) error
}

// ProductRepository is the writable Postgres side of the catalog.
type ProductRepository interface {
	CatalogSource
	StockRepository
	UpsertBrand(ctx context.Context, b *Brand) error
	UpsertProduct(ctx context.Context, p *Product) error
}
