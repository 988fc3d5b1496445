// Package config loads the degrees configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-degrees/pkg/validation"
)

// Defaults
const (
	DefaultDataDir         = "large"
	DefaultAddr            = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultLogLevel        = "info"
	DefaultTokenTTL        = 24 * time.Hour
	DefaultGraphQLMaxDepth = 8
)

// Environment variables that override file values
const (
	EnvDataDir     = "DEGREES_DATA_DIR"
	EnvSnapshot    = "DEGREES_SNAPSHOT"
	EnvMaxDepth    = "DEGREES_MAX_DEPTH"
	EnvAddr        = "DEGREES_ADDR"
	EnvLogLevel    = "LOG_LEVEL"
	EnvJWTSecret   = "DEGREES_JWT_SECRET"
	EnvDatabaseURL = "DEGREES_DATABASE_URL"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Config is the full runtime configuration
type Config struct {
	Dataset DatasetConfig `yaml:"dataset"`
	Search  SearchConfig  `yaml:"search"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// DatasetConfig selects where people, movies and credits are read from.
// A snapshot takes precedence over a database, which takes precedence over
// the CSV directory.
type DatasetConfig struct {
	Dir         string `yaml:"dir"`
	Snapshot    string `yaml:"snapshot"`
	DatabaseURL string `yaml:"database_url"`
}

// Source names the configured dataset source: "snapshot", "postgres" or "csv"
func (d DatasetConfig) Source() string {
	switch {
	case d.Snapshot != "":
		return "snapshot"
	case d.DatabaseURL != "":
		return "postgres"
	default:
		return "csv"
	}
}

// SearchConfig tunes shortest-path searches
type SearchConfig struct {
	// MaxDepth limits path length; 0 means unlimited
	MaxDepth int `yaml:"max_depth"`
}

// ServerConfig configures the HTTP service
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// CORSOrigins lists origins allowed to call the API; empty disables CORS
	CORSOrigins []string        `yaml:"cors_origins"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Auth        AuthConfig      `yaml:"auth"`

	// GraphQLMaxDepth bounds the nesting of /graphql queries
	GraphQLMaxDepth int `yaml:"graphql_max_depth"`

	// HSTSMaxAge turns on Strict-Transport-Security when positive
	HSTSMaxAge time.Duration `yaml:"hsts_max_age"`
	// MemoryLimit in bytes marks /health degraded near it; 0 uses GOMEMLIMIT
	MemoryLimit uint64 `yaml:"memory_limit"`
}

// AuthConfig enables authentication on the query API when either a JWT
// secret or API key hashes are set
type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	APIKeyHashes []string      `yaml:"api_key_hashes"`
}

// Enabled reports whether any credential is configured
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || len(a.APIKeyHashes) > 0
}

// RateLimitConfig configures per-client request limiting.
// A zero RequestsPerSecond disables the limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path (optional, may be empty), applies environment overrides and
// defaults, then validates the result
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Dataset.Dir = v
	}
	if v := os.Getenv(EnvSnapshot); v != "" {
		c.Dataset.Snapshot = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.Server.Auth.JWTSecret = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Dataset.DatabaseURL = v
	}
	if v := os.Getenv(EnvMaxDepth); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxDepth, v, err)
		}
		c.Search.MaxDepth = depth
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Dataset.Dir = validation.DefaultOr(c.Dataset.Dir, DefaultDataDir)
	c.Server.Addr = validation.DefaultOr(c.Server.Addr, DefaultAddr)
	c.Server.ReadTimeout = validation.DefaultOrDuration(c.Server.ReadTimeout, DefaultReadTimeout)
	c.Server.WriteTimeout = validation.DefaultOrDuration(c.Server.WriteTimeout, DefaultWriteTimeout)
	c.Server.ShutdownTimeout = validation.DefaultOrDuration(c.Server.ShutdownTimeout, DefaultShutdownTimeout)
	c.Log.Level = validation.DefaultOr(c.Log.Level, DefaultLogLevel)
	c.Server.Auth.TokenTTL = validation.DefaultOrDuration(c.Server.Auth.TokenTTL, DefaultTokenTTL)
	c.Server.GraphQLMaxDepth = validation.DefaultOr(c.Server.GraphQLMaxDepth, DefaultGraphQLMaxDepth)
}

// Validate checks every field. Only the selected dataset source is checked;
// the CSV directory's existence is left to ValidateDatasetDir.
func (c *Config) Validate() error {
	v := validation.NewConfigValidator("config").
		NonNegative("search.max_depth", c.Search.MaxDepth).
		ListenAddr("server.addr", c.Server.Addr).
		RangeDuration("server.read_timeout", c.Server.ReadTimeout, time.Millisecond, time.Hour).
		RangeDuration("server.write_timeout", c.Server.WriteTimeout, time.Millisecond, time.Hour).
		RangeDuration("server.shutdown_timeout", c.Server.ShutdownTimeout, time.Millisecond, 10*time.Minute).
		OneOf("log.level", c.Log.Level, logLevels).
		NonNegative("server.rate_limit.burst", c.Server.RateLimit.Burst).
		Custom("server.rate_limit.requests_per_second", func() error {
			if c.Server.RateLimit.RequestsPerSecond < 0 {
				return fmt.Errorf("must be non-negative, got %v", c.Server.RateLimit.RequestsPerSecond)
			}
			return nil
		}).
		Positive("server.graphql_max_depth", c.Server.GraphQLMaxDepth).
		NonNegativeDuration("server.hsts_max_age", c.Server.HSTSMaxAge).
		RangeDuration("server.auth.token_ttl", c.Server.Auth.TokenTTL, time.Minute, 365*24*time.Hour).
		Custom("server.auth.jwt_secret", func() error {
			if s := c.Server.Auth.JWTSecret; s != "" && len(s) < 32 {
				return errors.New("must be at least 32 characters")
			}
			return nil
		})

	switch c.Dataset.Source() {
	case "csv":
		v.Required("dataset.dir", c.Dataset.Dir)
	case "postgres":
		v.Custom("dataset.database_url", func() error {
			if !strings.HasPrefix(c.Dataset.DatabaseURL, "postgres://") && !strings.HasPrefix(c.Dataset.DatabaseURL, "postgresql://") {
				return errors.New("must be a postgres:// URL")
			}
			return nil
		})
	default:
		v.Custom("dataset.snapshot", func() error {
			info, err := os.Stat(c.Dataset.Snapshot)
			if err != nil {
				return err
			}
			if info.IsDir() {
				return errors.New("is a directory")
			}
			return nil
		})
	}

	return v.Validate()
}

// ValidateDatasetDir checks that the CSV directory exists. It is separate from
// Validate because commands that take the directory as an argument check it
// after flags are applied.
func (c *Config) ValidateDatasetDir() error {
	return validation.NewConfigValidator("config").
		ExistingDir("dataset.dir", c.Dataset.Dir).
		Validate()
}
