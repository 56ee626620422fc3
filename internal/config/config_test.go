package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/pokedex/internal/config"
	"github.com/KirkDiggler/pokedex/internal/errors"
)

func noEnv(string) string { return "" }

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := config.Load(config.LoadInput{Getenv: noEnv})
	require.NoError(t, err)

	assert.Equal(t, "https://pokeapi.co/api/v2/", cfg.Catalog.BaseURL)
	assert.Equal(t, 151, cfg.Catalog.RosterSize)
	assert.Equal(t, 20, cfg.Catalog.BatchSize)
	assert.Equal(t, 20, cfg.Catalog.PageSize)
	assert.Equal(t, 3, cfg.Catalog.MaxAttempts)
	assert.Equal(t, time.Hour, cfg.Catalog.CacheTTL)
	assert.Equal(t, config.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "pokemon-store", cfg.Storage.Key)
	assert.NotEmpty(t, cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "pokedex.yaml", `
catalog:
  roster_size: 30
  http_timeout: 2s
  retry_interval: 50ms
storage:
  backend: redis
redis:
  endpoint: localhost:6379
log:
  level: debug
`)

	cfg, err := config.Load(config.LoadInput{Path: path, Getenv: noEnv})
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Catalog.RosterSize)
	assert.Equal(t, 2*time.Second, cfg.Catalog.HTTPTimeout)
	assert.Equal(t, 50*time.Millisecond, cfg.Catalog.RetryInterval)
	assert.Equal(t, 20, cfg.Catalog.BatchSize, "unset keys keep defaults")
	assert.Equal(t, config.BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "localhost:6379", cfg.Redis.Endpoint)
}

func TestLoadMissingOrBadFile(t *testing.T) {
	_, err := config.Load(config.LoadInput{Path: filepath.Join(t.TempDir(), "nope.yaml"), Getenv: noEnv})
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = config.Load(config.LoadInput{Path: writeFile(t, "bad.yaml", "catalog: [unclosed"), Getenv: noEnv})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeFile(t, "pokedex.yaml", "catalog:\n  roster_size: 30\n")

	cfg, err := config.Load(config.LoadInput{
		Path: path,
		Getenv: envOf(map[string]string{
			"POKEDEX_CATALOG_ROSTER_SIZE": "12",
			"POKEDEX_CATALOG_CACHE_TTL":   "5m",
			"POKEDEX_STORAGE_BACKEND":     "memory",
			"POKEDEX_LOG_LEVEL":           "ERROR",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Catalog.RosterSize)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, config.BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "ERROR", cfg.Log.Level)
}

func TestEnvironmentOverrideErrors(t *testing.T) {
	_, err := config.Load(config.LoadInput{Getenv: envOf(map[string]string{
		"POKEDEX_CATALOG_BATCH_SIZE":   "lots",
		"POKEDEX_CATALOG_HTTP_TIMEOUT": "soon",
	})})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	fields, ok := errors.GetMeta(err)["validation_errors"].(map[string][]string)
	require.True(t, ok)
	assert.Contains(t, fields, "POKEDEX_CATALOG_BATCH_SIZE")
	assert.Contains(t, fields, "POKEDEX_CATALOG_HTTP_TIMEOUT")
}

func TestEnvFiles(t *testing.T) {
	first := writeFile(t, ".env", "POKEDEX_CATALOG_PAGE_SIZE=5\nPOKEDEX_STORAGE_KEY=from-first\n")
	second := writeFile(t, ".env.local", "POKEDEX_STORAGE_KEY=from-second\nPOKEDEX_CATALOG_MAX_ATTEMPTS=7\n")

	cfg, err := config.Load(config.LoadInput{
		EnvFiles: []string{first, second, filepath.Join(t.TempDir(), "missing.env")},
		Getenv:   envOf(map[string]string{"POKEDEX_CATALOG_PAGE_SIZE": "9"}),
	})
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Catalog.PageSize, "process environment wins")
	assert.Equal(t, "from-first", cfg.Storage.Key, "earlier file wins")
	assert.Equal(t, 7, cfg.Catalog.MaxAttempts)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{name: "roster too large", mutate: func(c *config.Config) { c.Catalog.RosterSize = 5000 }, field: "catalog.roster_size"},
		{name: "zero batch", mutate: func(c *config.Config) { c.Catalog.BatchSize = 0 }, field: "catalog.batch_size"},
		{name: "no timeout", mutate: func(c *config.Config) { c.Catalog.HTTPTimeout = 0 }, field: "catalog.http_timeout"},
		{name: "negative ttl", mutate: func(c *config.Config) { c.Catalog.CacheTTL = -time.Second }, field: "catalog.cache_ttl"},
		{name: "unknown backend", mutate: func(c *config.Config) { c.Storage.Backend = "s3" }, field: "storage.backend"},
		{name: "file without path", mutate: func(c *config.Config) { c.Storage.Path = "" }, field: "storage.path"},
		{name: "redis without endpoint", mutate: func(c *config.Config) { c.Storage.Backend = config.BackendRedis }, field: "redis.endpoint"},
		{name: "bad log level", mutate: func(c *config.Config) { c.Log.Level = "loud" }, field: "log.level"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			fields, _ := errors.GetMeta(err)["validation_errors"].(map[string][]string)
			assert.Contains(t, fields, tc.field)
		})
	}

	assert.NoError(t, config.DefaultConfig().Validate())
}

func TestParseLevel(t *testing.T) {
	level, err := config.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = config.ParseLevel(" Warn ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = config.ParseLevel("verbose")
	assert.True(t, errors.IsInvalidArgument(err))
}
