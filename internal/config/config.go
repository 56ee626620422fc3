// Package config loads pokedex settings from YAML, .env and the environment
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/pokedex/internal/errors"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "POKEDEX_"

// Storage backends
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config represents the complete pokedex configuration
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Storage StorageConfig `yaml:"storage"`
	Redis   RedisConfig   `yaml:"redis"`
	Log     LogConfig     `yaml:"log"`
}

// CatalogConfig configures roster fetching and browsing
type CatalogConfig struct {
	BaseURL       string        `yaml:"base_url"`
	RosterSize    int           `yaml:"roster_size"`
	BatchSize     int           `yaml:"batch_size"`
	PageSize      int           `yaml:"page_size"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	MaxAttempts   int           `yaml:"max_attempts"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	// CacheTTL applies when the roster is cached in redis; 0 disables the cache
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// StorageConfig selects where progress is persisted
type StorageConfig struct {
	Backend string `yaml:"backend"`
	// Path is the progress file for the file backend
	Path string `yaml:"path"`
	// Key is the redis key for the redis backend
	Key string `yaml:"key"`
}

// RedisConfig configures the redis connection
type RedisConfig struct {
	// Endpoint is host:port; empty disables redis entirely
	Endpoint string `yaml:"endpoint"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:       "https://pokeapi.co/api/v2/",
			RosterSize:    151,
			BatchSize:     20,
			PageSize:      20,
			HTTPTimeout:   10 * time.Second,
			MaxAttempts:   3,
			RetryInterval: 500 * time.Millisecond,
			CacheTTL:      time.Hour,
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    defaultProgressPath(),
			Key:     "pokemon-store",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

func defaultProgressPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "pokedex-progress.json"
	}
	return filepath.Join(dir, "pokedex", "progress.json")
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("catalog.base_url", c.Catalog.BaseURL, vb)
	errors.ValidateRange("catalog.roster_size", c.Catalog.RosterSize, 1, 1025, vb)
	errors.ValidateRange("catalog.batch_size", c.Catalog.BatchSize, 1, 200, vb)
	errors.ValidateRange("catalog.page_size", c.Catalog.PageSize, 1, 200, vb)
	errors.ValidateRange("catalog.max_attempts", c.Catalog.MaxAttempts, 1, 10, vb)
	if c.Catalog.HTTPTimeout <= 0 {
		vb.InvalidField("catalog.http_timeout", "must be positive")
	}
	if c.Catalog.RetryInterval < 0 {
		vb.InvalidField("catalog.retry_interval", "cannot be negative")
	}
	if c.Catalog.CacheTTL < 0 {
		vb.InvalidField("catalog.cache_ttl", "cannot be negative")
	}

	errors.ValidateEnum("storage.backend", c.Storage.Backend, []string{BackendFile, BackendRedis, BackendMemory}, vb)
	switch c.Storage.Backend {
	case BackendFile:
		errors.ValidateRequired("storage.path", c.Storage.Path, vb)
	case BackendRedis:
		errors.ValidateRequired("storage.key", c.Storage.Key, vb)
		errors.ValidateRequired("redis.endpoint", c.Redis.Endpoint, vb)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		vb.InvalidField("log.level", err.Error())
	}

	return vb.Build()
}

// ParseLevel maps a level name to a slog level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, errors.InvalidArgumentf("unknown log level %q", name)
	}
	return level, nil
}

// LoadInput defines where configuration is read from
type LoadInput struct {
	// Path is an optional YAML file; a missing file is an error only when set explicitly
	Path string
	// EnvFiles are loaded before environment overrides; missing files are skipped
	EnvFiles []string
	// Getenv defaults to os.Getenv
	Getenv func(string) string
}

// Load builds the configuration: defaults, then the YAML file, then POKEDEX_*
// overrides from .env files and the environment. The result is validated.
func Load(input LoadInput) (*Config, error) {
	cfg := DefaultConfig()

	if input.Path != "" {
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return nil, errors.InvalidArgumentf("failed to read config file %s: %v", input.Path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.InvalidArgumentf("failed to parse config file %s: %v", input.Path, err)
		}
	}

	fileEnv := make(map[string]string)
	for _, file := range input.EnvFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		values, err := godotenv.Read(file)
		if err != nil {
			return nil, errors.InvalidArgumentf("failed to load env file %s: %v", file, err)
		}
		// earlier files win, as with godotenv.Load
		for k, v := range values {
			if _, ok := fileEnv[k]; !ok {
				fileEnv[k] = v
			}
		}
	}

	getenv := input.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	// the process environment wins over .env files
	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fileEnv[key]
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	vb := errors.NewValidationBuilder()

	str := func(name string, dst *string) {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		v := getenv(EnvPrefix + name)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			vb.InvalidField(EnvPrefix+name, "not an integer")
			return
		}
		*dst = n
	}
	dur := func(name string, dst *time.Duration) {
		v := getenv(EnvPrefix + name)
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			vb.InvalidField(EnvPrefix+name, "not a duration")
			return
		}
		*dst = d
	}

	str("CATALOG_BASE_URL", &c.Catalog.BaseURL)
	num("CATALOG_ROSTER_SIZE", &c.Catalog.RosterSize)
	num("CATALOG_BATCH_SIZE", &c.Catalog.BatchSize)
	num("CATALOG_PAGE_SIZE", &c.Catalog.PageSize)
	dur("CATALOG_HTTP_TIMEOUT", &c.Catalog.HTTPTimeout)
	num("CATALOG_MAX_ATTEMPTS", &c.Catalog.MaxAttempts)
	dur("CATALOG_RETRY_INTERVAL", &c.Catalog.RetryInterval)
	dur("CATALOG_CACHE_TTL", &c.Catalog.CacheTTL)
	str("STORAGE_BACKEND", &c.Storage.Backend)
	str("STORAGE_PATH", &c.Storage.Path)
	str("STORAGE_KEY", &c.Storage.Key)
	str("REDIS_ENDPOINT", &c.Redis.Endpoint)
	str("LOG_LEVEL", &c.Log.Level)

	return vb.Build()
}
