package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Catalog modes
const (
	CatalogModeBackend = "backend"
	CatalogModeShopify = "shopify"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Catalog     CatalogConfig
	Shopify     ShopifyConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Session     SessionConfig
}

// CatalogConfig points at the catalog backend that fetches, validates and commits products
type CatalogConfig struct {
	Mode    string        // CATALOG_MODE: backend (default) or shopify for direct Admin API fetch/commit
	BaseURL string        // CATALOG_API_URL, e.g. http://backend:8080
	Timeout time.Duration // CATALOG_API_TIMEOUT
}

type ShopifyConfig struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
}

// Configured reports whether direct Shopify access is possible
func (c ShopifyConfig) Configured() bool {
	return c.ShopDomain != "" && c.AccessToken != ""
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether the commit journal database is configured
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// RedisConfig configures the search state store; empty Addr means in-memory
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	TTL             time.Duration // SESSION_TTL: idle time before a session is discarded
	KnownTagOptions []string      // KNOWN_TAG_OPTIONS: merged into every session's tag vocabulary
	CommitWebhook   string        // COMMIT_WEBHOOK_URL: receives every journaled commit attempt
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CATALOG_MODE", CatalogModeBackend)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	catalogTimeout, err := time.ParseDuration(getEnvOrViper("CATALOG_API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_API_TIMEOUT: %w", err)
	}
	sessionTTL, err := time.ParseDuration(getEnvOrViper("SESSION_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	redisDB, err := strconv.Atoi(getEnvOrViper("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Catalog: CatalogConfig{
			Mode:    strings.ToLower(strings.TrimSpace(getEnvOrViper("CATALOG_MODE", CatalogModeBackend))),
			BaseURL: strings.TrimSpace(getEnvOrViper("CATALOG_API_URL", "")),
			Timeout: catalogTimeout,
		},
		Shopify: ShopifyConfig{
			ShopDomain:  strings.TrimSpace(getEnvOrViper("SHOPIFY_SHOP_DOMAIN", "")),
			AccessToken: strings.TrimSpace(getEnvOrViper("SHOPIFY_ACCESS_TOKEN", "")),
			APIVersion:  getEnvOrViper("SHOPIFY_API_VERSION", "2026-01"),
		},
		Database: DatabaseConfig{
			Host:     strings.TrimSpace(getEnvOrViper("DB_HOST", "")),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "productconsole"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getEnvOrViper("REDIS_ADDR", "")),
			Password: getEnvOrViper("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Session: SessionConfig{
			TTL:             sessionTTL,
			KnownTagOptions: splitList(getEnvOrViper("KNOWN_TAG_OPTIONS", "")),
			CommitWebhook:   getEnvOrViper("COMMIT_WEBHOOK_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields
func (c *Config) Validate() error {
	switch c.Catalog.Mode {
	case CatalogModeBackend:
		if c.Catalog.BaseURL == "" {
			return fmt.Errorf("CATALOG_API_URL is required")
		}
	case CatalogModeShopify:
		if !c.Shopify.Configured() {
			return fmt.Errorf("SHOPIFY_SHOP_DOMAIN and SHOPIFY_ACCESS_TOKEN are required when CATALOG_MODE=shopify")
		}
		// validation still runs on the backend
		if c.Catalog.BaseURL == "" {
			return fmt.Errorf("CATALOG_API_URL is required for validation")
		}
	default:
		return fmt.Errorf("unknown CATALOG_MODE %q", c.Catalog.Mode)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
