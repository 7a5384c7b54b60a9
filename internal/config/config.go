package config

import (
	"fmt"
	"time"

	"github.com/souqly/marketplace/pkg/config"
	"github.com/souqly/marketplace/pkg/database"
)

// Config holds all marketplace server configuration, loaded from environment
// variables.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"marketplace"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"marketplace"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"marketplace"`
	PostgresSSLMode  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// SearchEngine selects the index backend: "meilisearch" or "memory".
	SearchEngine      string        `env:"SEARCH_ENGINE" envDefault:"meilisearch"`
	MeilisearchURL    string        `env:"MEILISEARCH_URL" envDefault:"http://localhost:7700"`
	MeilisearchAPIKey string        `env:"MEILISEARCH_API_KEY"`
	MeilisearchIndex  string        `env:"MEILISEARCH_INDEX" envDefault:"products"`
	SyncTimeout       time.Duration `env:"INDEX_SYNC_TIMEOUT" envDefault:"3s"`
	ReindexBatchSize  int           `env:"REINDEX_BATCH_SIZE" envDefault:"500"`
	// ReindexTimeout bounds the admin reindex request. Zero leaves the
	// rebuild unbounded so large stores can complete a full pass.
	ReindexTimeout time.Duration `env:"REINDEX_TIMEOUT" envDefault:"0"`

	// KafkaBrokers empty disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	switch c.SearchEngine {
	case "meilisearch", "memory":
	default:
		return fmt.Errorf("invalid SEARCH_ENGINE: %q (must be meilisearch or memory)", c.SearchEngine)
	}
	if c.SearchEngine == "meilisearch" && c.MeilisearchURL == "" {
		return fmt.Errorf("MEILISEARCH_URL is required when SEARCH_ENGINE=meilisearch")
	}
	if c.Environment == "production" && c.JWTSecret == "dev-secret-change-me" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

// PostgresConfig assembles the database connection settings, keeping the
// library defaults for pool sizing.
func (c *Config) PostgresConfig() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPassword
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSLMode
	return pg
}
