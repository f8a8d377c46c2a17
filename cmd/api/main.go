package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-backend/config"
	"storefront-backend/internal/delivery/http/middleware"
	v1 "storefront-backend/internal/delivery/http/v1"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/infrastructure/kvstore"
	"storefront-backend/internal/infrastructure/notify"
	"storefront-backend/internal/repository/objectrepo"
	"storefront-backend/internal/repository/pgxrepo"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/storage"
	"storefront-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

const serviceName = "storefront-api"

var version = "dev"

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	ctx := context.Background()

	// Initialize Database with pgx
	pgxPool, err := pgxrepo.NewPgxPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgxPool.Close()
	if err := pgxrepo.Migrate(ctx, pgxPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	// Initialize Repositories
	productRepo := pgxrepo.NewProductRepository(pgxPool)
	orderRepo := pgxrepo.NewOrderRepository(pgxPool)
	txManager := pgxrepo.NewTransactionManager(pgxPool)

	// Catalog source: Postgres tables or a JSON snapshot in R2
	var catalogSource domain.CatalogSource = productRepo
	if cfg.CatalogSource == config.CatalogSourceObject {
		r2Storage, err := storage.NewR2Storage(ctx, storage.R2Options{
			AccountID: cfg.R2AccountID,
			AccessKey: cfg.R2AccessKeyID,
			SecretKey: cfg.R2AccessKeySecret,
			Bucket:    cfg.R2BucketName,
			Timeout:   cfg.R2Timeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
		}
		catalogSource = objectrepo.NewCatalogObject(r2Storage, cfg.CatalogObjectKey)
		log.Info().Str("key", cfg.CatalogObjectKey).Msg("Catalog served from object storage")
	}

	// Wishlist store
	var wishlistStore domain.KeyValueStore
	switch cfg.WishlistStore {
	case config.WishlistStoreRedis:
		redisClient, err := kvstore.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		wishlistStore = kvstore.NewRedisStore(redisClient)
	default:
		log.Warn().Msg("Wishlist store is in-memory; wishlists are lost on restart")
		wishlistStore = kvstore.NewMemoryStore()
	}

	// Initialize Cache (In-Memory)
	// Catalog entries expire by CACHE_CATALOG_TTL; sessions get their own cache
	// so eviction callbacks only ever see sessions.
	memCache := cache.NewMemoryCache(cfg.CacheCatalogTTL, 2*cfg.CacheCatalogTTL)
	sessionCache := cache.NewMemoryCache(cfg.SessionTTL, time.Minute)

	shipping := domain.ShippingPolicy{
		FreeThreshold: cfg.ShippingFreeThreshold,
		FlatRate:      cfg.ShippingFlatRate,
	}

	// --- Modules Initialization ---
	catalogUC := usecase.NewCatalogUsecase(catalogSource, memCache, cfg.CacheCatalogTTL)
	checkoutUC := usecase.NewCheckoutUsecase(orderRepo, productRepo, txManager, catalogUC, shipping, cfg.CheckoutTimeout)
	orderUC := usecase.NewOrderUsecase(orderRepo)

	sessions := usecase.NewSessionRegistry(
		sessionCache,
		wishlistStore,
		cfg.SessionTTL,
		func() domain.NotificationFeed { return notify.NewFeed(cfg.NotificationBuffer) },
		notify.NewLogNotifier(log),
	)

	// Set up Router
	mux := http.NewServeMux()
	v1.Handlers{
		Catalog:      v1.NewCatalogHandler(catalogUC),
		Cart:         v1.NewCartHandler(catalogUC),
		Wishlist:     v1.NewWishlistHandler(catalogUC),
		Checkout:     v1.NewCheckoutHandler(checkoutUC),
		Orders:       v1.NewOrderHandler(orderUC),
		Notification: v1.NewNotificationHandler(),
		Config:       v1.NewConfigHandler(memCache, shipping),
		Health:       v1.NewHealthHandler(pgxPool),
		Session:      middleware.NewSessionMiddleware(sessions, cfg.SessionTTL, cfg.ShopperCookieTTL, cfg.Env == "production"),
	}.Register(mux)

	rateLimiter := middleware.NewRateLimiter(
		ctx,
		cfg.RateLimitRPS,
		cfg.RateLimitBurst,
		time.Minute,   // sweep period
		3*time.Minute, // idle client TTL
	)

	// Sessions are attached per route by the mux; the optional user sits inside
	// the request logger so its id lands on the context logger.
	handler := middleware.OptionalAuth(mux)
	handler = middleware.NewCORSMiddleware(cfg)(handler)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, version, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")
	rateLimiter.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop(serviceName)
}
