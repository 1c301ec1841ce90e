// Package config defines service configuration and its loading.
//
// Values are layered: defaults from New, then an optional .env file, then an
// optional YAML file named by DIAMOND_CONFIG, then DIAMOND_* environment
// variables. The result is validated before it is returned.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// StoreDriver picks the record store: memory, sqlite or postgres.
	StoreDriver string `koanf:"store_driver" validate:"oneof=memory sqlite postgres"`

	// StoreDSN is the driver connection string. Ignored by the memory driver.
	StoreDSN string `koanf:"store_dsn" validate:"required_unless=StoreDriver memory"`

	// ConnectRetries and ConnectRetryDelayMS bound the startup connection loop.
	ConnectRetries      int `koanf:"connect_retries" validate:"min=1"`
	ConnectRetryDelayMS int `koanf:"connect_retry_delay_ms" validate:"min=0"`

	// RedisAddr enables the shared Redis lock when set.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db" validate:"min=0"`

	// LockTTLMS is how long a Redis lock outlives a holder that stopped
	// extending it. Live holders extend the key every third of the TTL.
	LockTTLMS int `koanf:"lock_ttl_ms" validate:"min=1"`

	// RefreshSchedule is a cron expression for the periodic refresh.
	// Empty disables it.
	RefreshSchedule string `koanf:"refresh_schedule"`

	// MaxLeaderboardLimit caps GET /api/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit" validate:"min=1"`
}

// New returns a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":5000",
		StoreDriver:         "sqlite",
		StoreDSN:            "file:diamond.db",
		ConnectRetries:      5,
		ConnectRetryDelayMS: 2000,
		RedisDB:             0,
		LockTTLMS:           30_000,
		MaxLeaderboardLimit: 100,
	}
}

// ConnectRetryDelay returns ConnectRetryDelayMS as a duration.
func (c *Config) ConnectRetryDelay() time.Duration {
	return time.Duration(c.ConnectRetryDelayMS) * time.Millisecond
}

// LockTTL returns LockTTLMS as a duration.
func (c *Config) LockTTL() time.Duration {
	return time.Duration(c.LockTTLMS) * time.Millisecond
}
