package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/adboard")
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")

	cfg, err := NewConfig()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 20, cfg.RankingDefaultPageSize)
	assert.Equal(t, 100, cfg.RankingMaxPageSize)
	assert.Equal(t, 5*time.Second, cfg.WorkerPollInterval)
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/adboard")
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("WORKER_ENABLED", "false")
	t.Setenv("WORKER_POLL_INTERVAL", "2s")
	t.Setenv("RANKING_DEFAULT_PAGE_SIZE", "10")
	t.Setenv("RANKING_MAX_PAGE_SIZE", "not-a-number")

	cfg, err := NewConfig()

	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.WorkerEnabled)
	assert.Equal(t, 2*time.Second, cfg.WorkerPollInterval)
	assert.Equal(t, 10, cfg.RankingDefaultPageSize)
	assert.Equal(t, 100, cfg.RankingMaxPageSize, "unparsable values fall back to the default")
}

func TestNewConfig_Validation(t *testing.T) {
	t.Run("database url required", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		_, err := NewConfig()
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("max page size below default", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/adboard")
		t.Setenv("RANKING_DEFAULT_PAGE_SIZE", "50")
		t.Setenv("RANKING_MAX_PAGE_SIZE", "10")
		_, err := NewConfig()
		assert.ErrorContains(t, err, "RANKING_MAX_PAGE_SIZE")
	})
}
