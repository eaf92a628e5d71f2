package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MOIRAI_DB_PATH", filepath.Join(t.TempDir(), "moirai.db"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.Persistence)
	assert.Equal(t, 30*time.Second, cfg.CycleInterval)
	assert.Equal(t, 5*time.Minute, cfg.TrendInterval)
	assert.Equal(t, time.Hour, cfg.OptimizeInterval)
	assert.Equal(t, 30*time.Second, cfg.DispatchTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MOIRAI_DB_PATH", filepath.Join(t.TempDir(), "moirai.db"))
	t.Setenv("MOIRAI_ENV", "production")
	t.Setenv("MOIRAI_HTTP_PORT", "9090")
	t.Setenv("MOIRAI_PERSISTENCE", "file")
	t.Setenv("MOIRAI_CYCLE_INTERVAL", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "file", cfg.Persistence)
	assert.Equal(t, 10*time.Second, cfg.CycleInterval)
}

func TestLoadRejectsUnknownPersistence(t *testing.T) {
	t.Setenv("MOIRAI_PERSISTENCE", "redis")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadIgnoresInvalidDuration(t *testing.T) {
	t.Setenv("MOIRAI_DB_PATH", filepath.Join(t.TempDir(), "moirai.db"))
	t.Setenv("MOIRAI_CYCLE_INTERVAL", "soon")
	t.Setenv("MOIRAI_TREND_INTERVAL", "-5m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.CycleInterval)
	assert.Equal(t, 5*time.Minute, cfg.TrendInterval)
}
