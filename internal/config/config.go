// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

// Package config loads rngdash configuration from struct defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import "time"

// Warehouse driver names.
const (
	DriverSnowflake  = "snowflake"
	DriverDuckDB     = "duckdb"
	DriverClickHouse = "clickhouse"
)

// Config holds all application configuration.
type Config struct {
	Warehouse WarehouseConfig `koanf:"warehouse"`
	Server    ServerConfig    `koanf:"server"`
	Cache     CacheConfig     `koanf:"cache"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// WarehouseConfig selects and tunes the SQL warehouse the views read from.
type WarehouseConfig struct {
	// Driver is one of snowflake, duckdb or clickhouse.
	Driver string `koanf:"driver"`

	Snowflake     SnowflakeConfig `koanf:"snowflake"`
	DuckDBPath    string          `koanf:"duckdb_path"`
	ClickHouseDSN string          `koanf:"clickhouse_dsn"`

	Tables TablesConfig `koanf:"tables"`

	QueryTimeout   time.Duration `koanf:"query_timeout"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	MaxOpenConns   int           `koanf:"max_open_conns"`
	MaxIdleConns   int           `koanf:"max_idle_conns"`

	// QueriesPerSecond bounds the rate of statements sent to the warehouse.
	// Zero disables the limiter.
	QueriesPerSecond float64 `koanf:"queries_per_second"`
	QueryBurst       int     `koanf:"query_burst"`

	// SampleLimit caps rows returned by the raw table sample.
	SampleLimit int `koanf:"sample_limit"`

	// HealthInterval is how often the supervised health check pings the warehouse.
	HealthInterval time.Duration `koanf:"health_interval"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// SnowflakeConfig mirrors the connection fields of a Snowflake account.
type SnowflakeConfig struct {
	Account       string `koanf:"account"`
	User          string `koanf:"user"`
	Password      string `koanf:"password"`
	Role          string `koanf:"role"`
	Warehouse     string `koanf:"warehouse"`
	Database      string `koanf:"database"`
	Schema        string `koanf:"schema"`
	Authenticator string `koanf:"authenticator"`
}

// TablesConfig names the fixed source tables. Names are interpolated into
// SQL, so they are validated as plain (optionally qualified) identifiers.
type TablesConfig struct {
	Daily     string `koanf:"daily"`
	City      string `koanf:"city"`
	HourlyDPO string `koanf:"hourly_dpo"`
}

// All returns the configured table names in display order.
func (t TablesConfig) All() []string {
	return []string{t.Daily, t.City, t.HourlyDPO}
}

// BreakerConfig tunes the warehouse circuit breaker.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// CacheConfig controls the short-lived cache of loaded result sets.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// SecurityConfig holds CORS and rate limit settings for the HTTP surface.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings; see the logging package.
type LoggingConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	Caller     bool   `koanf:"caller"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// Load reads configuration from all sources and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
