package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10, cfg.Indexer.Concurrency)
	assert.Equal(t, time.Second, cfg.Indexer.PollingInterval)
	assert.Equal(t, 60*time.Second, cfg.Indexer.RestartDelay)
	assert.Equal(t, 2000, cfg.L3BatchSize)
	assert.Equal(t, 15*time.Second, cfg.L3RefreshInterval)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("INDEXER_POSTGRES_HOST", "db.internal")
	t.Setenv("INDEXER_POSTGRES_PASSWORD", "secret")
	t.Setenv("INDEXER_CONCURRENCY", "25")
	t.Setenv("INDEXER_POLLING_INTERVAL", "2s")
	t.Setenv("INDEXER_L3_BATCH_SIZE", "500")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.PostgresHost)
	assert.Equal(t, 25, cfg.Indexer.Concurrency)
	assert.Equal(t, 2*time.Second, cfg.Indexer.PollingInterval)
	assert.Equal(t, 500, cfg.L3BatchSize)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_InvalidInt(t *testing.T) {
	t.Setenv("INDEXER_CONCURRENCY", "not-a-number")
	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadFromEnv_NoOverridesUsesDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Indexer, cfg.Indexer)
}

func TestValidate_MissingHost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PostgresPassword = "secret"
	assert.Error(t, cfg.Validate())
}

func TestValidate_MissingPassword(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PostgresHost = "localhost"
	assert.Error(t, cfg.Validate())
}

func TestValidate_InvalidConcurrency(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PostgresHost = "localhost"
	cfg.PostgresPassword = "secret"
	cfg.Indexer.Concurrency = 0
	assert.Error(t, cfg.Validate())
}

func TestPostgresDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PostgresHost = "localhost"
	cfg.PostgresPassword = "secret"
	cfg.PostgresUser = "arkiv"

	dsn := cfg.PostgresDSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "user=arkiv")
	assert.Contains(t, dsn, "password=secret")
}
