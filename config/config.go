package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	CatalogSourcePostgres = "postgres"
	CatalogSourceObject   = "object"

	WishlistStoreRedis  = "redis"
	WishlistStoreMemory = "memory"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DBUrl         string
	JWTSecret     string
	AllowedOrigin string
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Catalog
	CatalogSource    string // postgres | object
	CatalogObjectKey string
	CacheCatalogTTL  time.Duration
	// R2 Storage (catalog snapshot)
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2Timeout         time.Duration
	// Sessions
	SessionTTL         time.Duration
	ShopperCookieTTL   time.Duration
	NotificationBuffer int
	WishlistStore      string // redis | memory
	RedisURL           string
	// Business Rules
	ShippingFreeThreshold float64
	ShippingFlatRate      float64
	CheckoutTimeout       time.Duration
	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() *Config {
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// .env is optional; containers rely on the process environment.
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("CRITICAL: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is empty, orders will never carry a user id")
	}
	return cfg
}

// FromEnv reads the configuration from the process environment without loading any dotenv file.
func FromEnv() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBUrl:         getEnv("DB_DSN", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 20),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 2),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		CatalogSource:    getEnv("CATALOG_SOURCE", CatalogSourcePostgres),
		CatalogObjectKey: getEnv("CATALOG_OBJECT_KEY", "catalog/catalog.json"),
		CacheCatalogTTL:  getDurationEnv("CACHE_CATALOG_TTL", 10*time.Minute),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2Timeout:         getDurationEnv("R2_TIMEOUT", 15*time.Second),

		SessionTTL:         getDurationEnv("SESSION_TTL", 24*time.Hour),
		ShopperCookieTTL:   getDurationEnv("SHOPPER_COOKIE_TTL", 365*24*time.Hour),
		NotificationBuffer: getIntEnv("NOTIFICATION_BUFFER", 32),
		WishlistStore:      getEnv("WISHLIST_STORE", WishlistStoreRedis),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Free shipping from 500, flat 99 below
		ShippingFreeThreshold: getFloatEnv("SHIPPING_FREE_THRESHOLD", 500),
		ShippingFlatRate:      getFloatEnv("SHIPPING_FLAT_RATE", 99),
		CheckoutTimeout:       getDurationEnv("CHECKOUT_TIMEOUT", 10*time.Second),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.DBUrl == "" {
		errs = append(errs, errors.New("DB_DSN environment variable is required"))
	}
	switch c.CatalogSource {
	case CatalogSourcePostgres:
	case CatalogSourceObject:
		if c.R2AccountID == "" || c.R2BucketName == "" {
			errs = append(errs, errors.New("R2_ACCOUNT_ID and R2_BUCKET_NAME are required when CATALOG_SOURCE=object"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CATALOG_SOURCE %q", c.CatalogSource))
	}
	switch c.WishlistStore {
	case WishlistStoreRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when WISHLIST_STORE=redis"))
		}
	case WishlistStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown WISHLIST_STORE %q", c.WishlistStore))
	}
	if c.ShippingFreeThreshold < 0 || c.ShippingFlatRate < 0 {
		errs = append(errs, errors.New("shipping amounts must not be negative"))
	}
	if c.CheckoutTimeout <= 0 {
		errs = append(errs, errors.New("CHECKOUT_TIMEOUT must be positive"))
	}
	if c.ShopperCookieTTL < c.SessionTTL {
		errs = append(errs, errors.New("SHOPPER_COOKIE_TTL must not be shorter than SESSION_TTL"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}
