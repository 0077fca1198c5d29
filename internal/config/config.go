// Package config loads the indexer's runtime configuration from an optional
// .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// IndexerSettings controls the tick loop's concurrency and pacing, per
// spec.md §6.
type IndexerSettings struct {
	// Concurrency bounds the number of items processed in parallel within
	// a single tick phase.
	Concurrency int `env:"INDEXER_CONCURRENCY,default=10"`
	// PollingInterval is the delay between the end of one tick and the
	// start of the next.
	PollingInterval time.Duration `env:"INDEXER_POLLING_INTERVAL,default=1s"`
	// RestartDelay is how long the run loop sleeps after a tick returns a
	// transient error before retrying.
	RestartDelay time.Duration `env:"INDEXER_RESTART_DELAY,default=60s"`
}

// DefaultIndexerSettings returns spec.md §6's defaults: concurrency 10,
// 1s polling interval, 60s restart delay.
func DefaultIndexerSettings() IndexerSettings {
	return IndexerSettings{
		Concurrency:     10,
		PollingInterval: time.Second,
		RestartDelay:    60 * time.Second,
	}
}

// Config holds every setting the indexer sidecar needs at startup. Struct
// tags drive envdecode.Decode in LoadFromEnv; fields without a default are
// required and checked again in Validate for a clearer error message.
type Config struct {
	// PostgreSQL connection.
	PostgresHost     string `env:"INDEXER_POSTGRES_HOST"`
	PostgresPort     int    `env:"INDEXER_POSTGRES_PORT,default=5432"`
	PostgresDB       string `env:"INDEXER_POSTGRES_DB,default=postgres"`
	PostgresUser     string `env:"INDEXER_POSTGRES_USER,default=postgres"`
	PostgresPassword string `env:"INDEXER_POSTGRES_PASSWORD"`
	PostgresSSLMode  string `env:"INDEXER_POSTGRES_SSLMODE,default=require"`

	// Indexer tick behavior.
	Indexer IndexerSettings

	// GaugeInterval is how often the gauge updater samples queue depths.
	GaugeInterval time.Duration `env:"INDEXER_GAUGE_INTERVAL,default=5s"`

	// L3 poller supervisor.
	L3RefreshInterval time.Duration `env:"INDEXER_L3_REFRESH_INTERVAL,default=15s"`
	L3BatchSize       int           `env:"INDEXER_L3_BATCH_SIZE,default=2000"`

	// Materialized-view refresher cadences.
	MatViewFastInterval time.Duration `env:"INDEXER_MATVIEW_FAST_INTERVAL,default=1m"`
	MatViewSlowInterval time.Duration `env:"INDEXER_MATVIEW_SLOW_INTERVAL,default=30m"`

	// LogLevel and LogFormat feed internal/logging.
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`

	// MigrationsPath points at the forward-migration SQL files applied on
	// startup.
	MigrationsPath string `env:"INDEXER_MIGRATIONS_PATH,default=migrations"`
}

// DefaultConfig returns a Config populated with every default named in
// spec.md §6 plus this expansion's additional settings.
func DefaultConfig() *Config {
	return &Config{
		PostgresPort:        5432,
		PostgresDB:          "postgres",
		PostgresUser:        "postgres",
		PostgresSSLMode:     "require",
		Indexer:             DefaultIndexerSettings(),
		GaugeInterval:       5 * time.Second,
		L3RefreshInterval:   15 * time.Second,
		L3BatchSize:         2000,
		MatViewFastInterval: time.Minute,
		MatViewSlowInterval: 30 * time.Minute,
		LogLevel:            "info",
		LogFormat:           "json",
		MigrationsPath:      "migrations",
	}
}

// LoadFromEnv loads configuration from an optional .env file (via godotenv,
// so local runs don't need exported vars) layered with the real process
// environment, then decodes it onto DefaultConfig via envdecode's env
// struct tags. All variables use an INDEXER_ prefix except the shared
// LOG_LEVEL/LOG_FORMAT pair.
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()
	if err := envdecode.Decode(cfg); err != nil {
		// envdecode errors out when none of the tagged fields are present in
		// the environment; treat that as "use the defaults" rather than a
		// load failure, since every field here already has one.
		if !strings.Contains(err.Error(), "none of the target fields were set") {
			return nil, fmt.Errorf("decode env: %w", err)
		}
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.PostgresHost == "" {
		return fmt.Errorf("INDEXER_POSTGRES_HOST is required")
	}
	if c.PostgresPassword == "" {
		return fmt.Errorf("INDEXER_POSTGRES_PASSWORD is required")
	}
	if c.Indexer.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if c.L3BatchSize < 1 {
		return fmt.Errorf("L3 batch size must be at least 1")
	}
	return nil
}

// PostgresDSN returns the PostgreSQL connection string for lib/pq.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresDB,
		c.PostgresUser, c.PostgresPassword, c.PostgresSSLMode,
	)
}
