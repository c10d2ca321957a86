package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8111", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 168, cfg.Agent.DedupWindowHours)
	assert.Equal(t, 10, cfg.Insights.MinTransactions)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = "9090"
log_level = "debug"

[store]
driver = "sqlite"
dsn = "/tmp/test.db"

[agent]
min_transactions = 8

[insights]
min_transactions = 20
zscore_threshold = 3.0
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.Store.DSN)
	assert.Equal(t, 8, cfg.Agent.MinTransactions)
	assert.Equal(t, 20, cfg.Insights.MinTransactions)
	assert.Equal(t, 3.0, cfg.Insights.ZScoreThreshold)

	// Unset fields keep their defaults.
	assert.Equal(t, 168, cfg.Agent.DedupWindowHours)
	assert.Equal(t, 7, cfg.Insights.DuplicateWindowDays)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = "9090"
`), 0o644))

	t.Setenv("PORT", "7000")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("STORE_DSN", "override.db")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port, "env beats file")
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "override.db", cfg.Store.DSN)
	assert.Equal(t, "warn", cfg.Server.LogLevel)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
