package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend names.
const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageS3       = "s3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	API      APIConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	S3       S3Config
	Catalog  CatalogConfig
	Listing  ListingConfig
	Cart     CartConfig
	Logger   LoggerConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// APIConfig holds the remote store API configuration.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StorageConfig selects where the cart record and catalogue cache live.
type StorageConfig struct {
	Backend string // "file", "memory", "postgres", "redis" or "s3"
	Dir     string // used by the file backend
	CartKey string
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// S3Config holds AWS S3 configuration for the object backend.
type S3Config struct {
	Bucket string
	Region string
	Prefix string // Key prefix within bucket (e.g., "storefront/")
}

// CatalogConfig holds catalogue caching configuration.
type CatalogConfig struct {
	CacheTTL        time.Duration
	RefreshSchedule string // cron spec; empty disables the refresher
}

// ListingConfig holds product list windowing configuration.
type ListingConfig struct {
	PageSize      int
	LoadMoreDelay time.Duration
}

// CartConfig holds cart behaviour configuration.
type CartConfig struct {
	LastAddedTTL        time.Duration
	NotificationTimeout time.Duration
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// Load loads configuration from environment variables, reading a .env file
// first when one is present.
func Load() (*Config, error) {
	// A missing .env is fine: variables can be set by other means.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "127.0.0.1"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "https://itx-frontend-test.onrender.com/api"),
			Timeout: getEnvAsDuration("API_TIMEOUT", 15*time.Second),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", StorageFile),
			Dir:     getEnv("STORAGE_DIR", defaultStorageDir()),
			CartKey: getEnv("STORAGE_CART_KEY", "cart-storage"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "storefront"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		S3: S3Config{
			Bucket: getEnv("S3_BUCKET", ""),
			Region: getEnv("S3_REGION", "us-east-1"),
			Prefix: getEnv("S3_PREFIX", "storefront/"),
		},
		Catalog: CatalogConfig{
			CacheTTL:        getEnvAsDuration("CATALOG_CACHE_TTL", time.Hour),
			RefreshSchedule: getEnv("CATALOG_REFRESH_SCHEDULE", ""),
		},
		Listing: ListingConfig{
			PageSize:      getEnvAsInt("LISTING_PAGE_SIZE", 20),
			LoadMoreDelay: getEnvAsDuration("LISTING_LOAD_MORE_DELAY", 500*time.Millisecond),
		},
		Cart: CartConfig{
			LastAddedTTL:        getEnvAsDuration("CART_LAST_ADDED_TTL", 5*time.Second),
			NotificationTimeout: getEnvAsDuration("NOTIFICATION_TIMEOUT", 3*time.Second),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("invalid API base URL: %s (must start with http:// or https://)", c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	if c.Storage.CartKey == "" {
		return fmt.Errorf("storage cart key is required")
	}

	switch c.Storage.Backend {
	case StorageFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage directory is required for the file backend")
		}
	case StorageMemory:
	case StoragePostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	case StorageRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis backend")
		}
	case StorageS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required for the s3 backend")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required for the s3 backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be file, memory, postgres, redis, or s3)", c.Storage.Backend)
	}

	if c.Catalog.CacheTTL <= 0 {
		return fmt.Errorf("catalog cache TTL must be positive")
	}

	if c.Listing.PageSize < 1 {
		return fmt.Errorf("listing page size must be at least 1")
	}

	if c.Listing.LoadMoreDelay < 0 {
		return fmt.Errorf("listing load-more delay cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func defaultStorageDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + string(os.PathSeparator) + "storefront"
	}
	return ".storefront"
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a time.Duration
// (e.g. "500ms", "1h") or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
