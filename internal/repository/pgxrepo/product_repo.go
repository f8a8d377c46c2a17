package pgxrepo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

// --- Numeric helpers ---

func numericToFloat64(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}

func float64ToNumeric(f float64) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(strconv.FormatFloat(f, 'f', -1, 64))
	return n
}

func float64PtrToNumeric(f *float64) pgtype.Numeric {
	var n pgtype.Numeric
	if f != nil {
		_ = n.Scan(strconv.FormatFloat(*f, 'f', -1, 64))
	}
	return n
}

func numericToFloat64Ptr(n pgtype.Numeric) *float64 {
	if !n.Valid {
		return nil
	}
	f, _ := n.Float64Value()
	val := f.Float64
	return &val
}

func ptrStrToStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strToPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

const selectBrands = `
SELECT id, name, slug, description, tagline, logo, banner_image
FROM brands
ORDER BY position, name`

const selectProducts = `
SELECT id, name, price, original_price, stock, colors, collection, brand,
       image, images, description, materials, features, rating, review_count,
       is_new, is_on_sale
FROM products
ORDER BY position, id`

func (r *productRepository) LoadCatalog(ctx context.Context) (*domain.CatalogSnapshot, error) {
	start := time.Now()
	db := conn(ctx, r.db)

	snap := &domain.CatalogSnapshot{}

	rows, err := db.Query(ctx, selectBrands)
	if err != nil {
		return nil, fmt.Errorf("query brands: %w", err)
	}
	for rows.Next() {
		var b domain.Brand
		var logo *string
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.Tagline, &logo, &b.BannerImage); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		b.Logo = ptrStrToStr(logo)
		snap.Brands = append(snap.Brands, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.Query(ctx, selectProducts)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			p                     domain.Product
			price, original, rate pgtype.Numeric
			brand                 *string
		)
		if err := rows.Scan(&p.ID, &p.Name, &price, &original, &p.Stock, &p.Colors, &p.Collection, &brand,
			&p.Image, &p.Images, &p.Description, &p.Materials, &p.Features, &rate, &p.ReviewCount,
			&p.IsNew, &p.IsOnSale); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Price = numericToFloat64(price)
		p.OriginalPrice = numericToFloat64Ptr(original)
		p.Rating = numericToFloat64(rate)
		p.Brand = ptrStrToStr(brand)
		snap.Products = append(snap.Products, p)
	}
	err = rows.Err()
	logger.DBQuery(ctx, "LoadCatalog", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *productRepository) UpsertBrand(ctx context.Context, b *domain.Brand) error {
	_, err := conn(ctx, r.db).Exec(ctx, `
INSERT INTO brands (id, name, slug, description, tagline, logo, banner_image, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, (SELECT COALESCE(MAX(position), 0) + 1 FROM brands))
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    slug = EXCLUDED.slug,
    description = EXCLUDED.description,
    tagline = EXCLUDED.tagline,
    logo = EXCLUDED.logo,
    banner_image = EXCLUDED.banner_image`,
		b.ID, b.Name, b.Slug, b.Description, b.Tagline, strToPtr(b.Logo), b.BannerImage)
	if err != nil {
		return fmt.Errorf("upsert brand %s: %w", b.ID, err)
	}
	return nil
}

func (r *productRepository) UpsertProduct(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := conn(ctx, r.db).Exec(ctx, `
INSERT INTO products (id, name, price, original_price, stock, colors, collection, brand,
                      image, images, description, materials, features, rating, review_count,
                      is_new, is_on_sale, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
        (SELECT COALESCE(MAX(position), 0) + 1 FROM products))
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    original_price = EXCLUDED.original_price,
    stock = EXCLUDED.stock,
    colors = EXCLUDED.colors,
    collection = EXCLUDED.collection,
    brand = EXCLUDED.brand,
    image = EXCLUDED.image,
    images = EXCLUDED.images,
    description = EXCLUDED.description,
    materials = EXCLUDED.materials,
    features = EXCLUDED.features,
    rating = EXCLUDED.rating,
    review_count = EXCLUDED.review_count,
    is_new = EXCLUDED.is_new,
    is_on_sale = EXCLUDED.is_on_sale`,
		p.ID, p.Name, float64ToNumeric(p.Price), float64PtrToNumeric(p.OriginalPrice), p.Stock,
		nonNil(p.Colors), p.Collection, strToPtr(p.Brand), p.Image, nonNil(p.Images),
		p.Description, p.Materials, nonNil(p.Features), float64ToNumeric(p.Rating), p.ReviewCount,
		p.IsNew, p.IsOnSale)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}

// DecrementStock lowers stock, flooring at zero. Unknown ids are ignored.
func (r *productRepository) DecrementStock(ctx context.Context, productID string, qty int) error {
	_, err := conn(ctx, r.db).Exec(ctx,
		`UPDATE products SET stock = GREATEST(stock - $2, 0) WHERE id = $1`, productID, qty)
	if err != nil {
		return fmt.Errorf("decrement stock %s: %w", productID, err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
