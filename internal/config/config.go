// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultCacheTTLSeconds = 60

// Config holds all runtime configuration for the proxy.
type Config struct {
	// APIHost is the upstream API base URL, e.g. "https://swapi.dev".
	APIHost string `env:"API_HOST" envDefault:"https://swapi.dev"`

	// ServerHost and ServerPort form the externally visible address of
	// this service. Embedded upstream URLs are rewritten to point here.
	ServerHost string `env:"SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SERVER_PORT" envDefault:"3000"`

	// Redis connection.
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`

	// CacheTTLRaw is the fixed expiry applied to every cache entry, in
	// seconds. Kept as a string so an unparsable value degrades to the
	// default instead of failing startup.
	CacheTTLRaw string `env:"EXPIRE_CACHE_TIME"`

	// CacheTTLSeconds is the resolved form of CacheTTLRaw.
	CacheTTLSeconds int `env:"-"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOGGER_LEVEL" envDefault:"info"`

	// Environment toggles development conveniences such as per-request
	// logging and pretty console output.
	Environment string `env:"ENVIRONMENT" envDefault:"production"`
}

// Load reads configuration from the environment.
// An unset or invalid EXPIRE_CACHE_TIME falls back to 60 seconds rather
// than failing startup.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.CacheTTLSeconds = defaultCacheTTLSeconds
	if ttl, err := strconv.Atoi(cfg.CacheTTLRaw); err == nil && ttl > 0 {
		cfg.CacheTTLSeconds = ttl
	}
	return cfg, nil
}

// CacheTTL returns the cache expiry as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// ExternalHost is the address clients use to reach this service,
// substituted for the upstream host in every proxied payload.
func (c *Config) ExternalHost() string {
	return fmt.Sprintf("http://%s:%d", c.ServerHost, c.ServerPort)
}

// RedisAddr returns the host:port address of the cache store.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
