package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, ModeDebug, cfg.Server.Mode)
	assert.Empty(t, cfg.JWT.Secret)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, SequenceStore, cfg.Sequence.Backend)
	assert.Equal(t, 3, cfg.Settlement.SuffixLength)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Empty(t, cfg.Settlement.ReconcileSchedule)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: "8080"
  shutdownTimeout: 15s
store:
  driver: postgres
postgres:
  dsn: postgres://lotto@localhost/lotto
settlement:
  reconcileSchedule: "*/5 * * * *"
  debitOnPurchase: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SETTLEMENT_SUFFIXLENGTH", "2")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://lotto@localhost/lotto", cfg.Postgres.DSN)
	assert.Equal(t, "*/5 * * * *", cfg.Settlement.ReconcileSchedule)
	assert.True(t, cfg.Settlement.DebitOnPurchase)
	assert.Equal(t, 2, cfg.Settlement.SuffixLength)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LOG_LEVEL") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:     ServerConfig{Port: "4000", ShutdownTimeout: time.Second},
			Store:      StoreConfig{Driver: DriverSQLite},
			SQLite:     SQLiteConfig{Path: "lotto.db"},
			Sequence:   SequenceConfig{Backend: SequenceStore},
			Settlement: SettlementConfig{SuffixLength: 3},
			RateLimit:  RateLimitConfig{RequestsPerSecond: 1, Burst: 1},
		}
	}
	require.NoError(t, valid().Validate())

	release := valid()
	release.Server.Mode = ModeRelease
	release.JWT.Secret = "s3cret"
	require.NoError(t, release.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "cassandra" }},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = DriverPostgres }},
		{"unknown sequence backend", func(c *Config) { c.Sequence.Backend = "etcd" }},
		{"redis without addr", func(c *Config) { c.Sequence.Backend = SequenceRedis }},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }},
		{"zero suffix length", func(c *Config) { c.Settlement.SuffixLength = 0 }},
		{"release without jwt secret", func(c *Config) { c.Server.Mode = ModeRelease }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
