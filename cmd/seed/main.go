// Command seed loads the hat catalog into Postgres or publishes it as the
// catalog snapshot object.
//
// Usage:
//
//	go run ./cmd/seed                      # embedded catalog into CATALOG_SOURCE
//	go run ./cmd/seed -file my.json -target object
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront-backend/config"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/repository/objectrepo"
	"storefront-backend/internal/repository/pgxrepo"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/storage"

	"github.com/goccy/go-json"
)

//go:embed catalog.json
var defaultCatalog []byte

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	var file, target string
	flag.StringVar(&file, "file", "", "catalog JSON file (default: embedded catalog)")
	flag.StringVar(&target, "target", cfg.CatalogSource, "where to write the catalog (postgres, object)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	data := defaultCatalog
	if file != "" {
		var err error
		if data, err = os.ReadFile(file); err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("Failed to read catalog file")
		}
	}
	snap, err := parseCatalog(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid catalog")
	}

	switch target {
	case config.CatalogSourcePostgres:
		pool, err := pgxrepo.NewPgxPool(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()
		if err := pgxrepo.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		err = seedRepository(ctx, pgxrepo.NewProductRepository(pool), pgxrepo.NewTransactionManager(pool), snap)
		if err != nil {
			log.Fatal().Err(err).Msg("Seeding failed")
		}
	case config.CatalogSourceObject:
		r2, err := storage.NewR2Storage(ctx, storage.R2Options{
			AccountID: cfg.R2AccountID,
			AccessKey: cfg.R2AccessKeyID,
			SecretKey: cfg.R2AccessKeySecret,
			Bucket:    cfg.R2BucketName,
			Timeout:   cfg.R2Timeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
		}
		if err := objectrepo.NewCatalogObject(r2, cfg.CatalogObjectKey).Publish(ctx, snap); err != nil {
			log.Fatal().Err(err).Msg("Publishing catalog failed")
		}
	default:
		log.Fatal().Str("target", target).Msg("Unknown target")
	}

	log.Info().
		Str("target", target).
		Int("brands", len(snap.Brands)).
		Int("products", len(snap.Products)).
		Msg("Catalog seeded")
}

// parseCatalog decodes and checks a catalog document. Every product must be
// valid and reference a known brand when it names one.
func parseCatalog(data []byte) (*domain.CatalogSnapshot, error) {
	var snap domain.CatalogSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	brands := make(map[string]struct{}, len(snap.Brands))
	for _, b := range snap.Brands {
		brands[b.Slug] = struct{}{}
	}

	var errs []error
	seen := make(map[string]struct{}, len(snap.Products))
	for i := range snap.Products {
		p := &snap.Products[i]
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
		if _, dup := seen[p.ID]; dup {
			errs = append(errs, fmt.Errorf("product %q: duplicate id", p.ID))
		}
		seen[p.ID] = struct{}{}
		if _, ok := brands[p.Brand]; p.Brand != "" && !ok {
			errs = append(errs, fmt.Errorf("product %q: unknown brand %q", p.ID, p.Brand))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &snap, nil
}

type catalogWriter interface {
	UpsertBrand(ctx context.Context, b *domain.Brand) error
	UpsertProduct(ctx context.Context, p *domain.Product) error
}

// seedRepository upserts the whole catalog in one transaction.
func seedRepository(ctx context.Context, repo catalogWriter, tm domain.TransactionManager, snap *domain.CatalogSnapshot) error {
	return tm.Do(ctx, func(ctx context.Context) error {
		for i := range snap.Brands {
			if err := repo.UpsertBrand(ctx, &snap.Brands[i]); err != nil {
				return err
			}
		}
		for i := range snap.Products {
			if err := repo.UpsertProduct(ctx, &snap.Products[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
