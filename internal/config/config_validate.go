// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package config

import (
	"fmt"
	"regexp"
	"strings"
)

// tableNamePattern accepts NAME, SCHEMA.NAME and DB.SCHEMA.NAME identifiers.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*){0,2}$`)

var validDrivers = map[string]bool{
	DriverSnowflake:  true,
	DriverDuckDB:     true,
	DriverClickHouse: true,
}

var validAuthenticators = map[string]bool{
	"snowflake":             true,
	"externalbrowser":       true,
	"oauth":                 true,
	"username_password_mfa": true,
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateWarehouse(); err != nil {
		return err
	}
	if err := c.validateTables(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateWarehouse() error {
	w := &c.Warehouse
	if !validDrivers[w.Driver] {
		return fmt.Errorf("WAREHOUSE_DRIVER must be one of: snowflake, duckdb, clickhouse (got %q)", w.Driver)
	}

	switch w.Driver {
	case DriverSnowflake:
		if err := c.validateSnowflake(); err != nil {
			return err
		}
	case DriverClickHouse:
		if w.ClickHouseDSN == "" {
			return fmt.Errorf("CLICKHOUSE_DSN is required when WAREHOUSE_DRIVER=clickhouse")
		}
	}

	if w.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive")
	}
	if w.ConnectTimeout <= 0 {
		return fmt.Errorf("CONNECT_TIMEOUT must be positive")
	}
	if w.MaxOpenConns < 1 {
		return fmt.Errorf("WAREHOUSE_MAX_OPEN_CONNS must be at least 1")
	}
	if w.QueriesPerSecond < 0 {
		return fmt.Errorf("WAREHOUSE_QUERIES_PER_SECOND must not be negative")
	}
	if w.QueriesPerSecond > 0 && w.QueryBurst < 1 {
		return fmt.Errorf("WAREHOUSE_QUERY_BURST must be at least 1 when the query rate is limited")
	}
	if w.SampleLimit < 1 || w.SampleLimit > 10000 {
		return fmt.Errorf("SAMPLE_LIMIT must be between 1 and 10000")
	}
	if w.Breaker.FailureRatio <= 0 || w.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	return nil
}

func (c *Config) validateSnowflake() error {
	sf := &c.Warehouse.Snowflake
	if sf.Account == "" {
		return fmt.Errorf("SNOWFLAKE_ACCOUNT is required when WAREHOUSE_DRIVER=snowflake")
	}
	if sf.User == "" {
		return fmt.Errorf("SNOWFLAKE_USER is required when WAREHOUSE_DRIVER=snowflake")
	}
	auth := strings.ToLower(sf.Authenticator)
	if !validAuthenticators[auth] {
		return fmt.Errorf("SNOWFLAKE_AUTHENTICATOR must be one of: snowflake, externalbrowser, oauth, username_password_mfa")
	}
	if auth == "snowflake" && sf.Password == "" {
		return fmt.Errorf("SNOWFLAKE_PASSWORD is required for the snowflake authenticator")
	}
	return nil
}

func (c *Config) validateTables() error {
	names := map[string]string{
		"RNG_DAILY_TABLE":      c.Warehouse.Tables.Daily,
		"RNG_CITY_TABLE":       c.Warehouse.Tables.City,
		"RNG_HOURLY_DPO_TABLE": c.Warehouse.Tables.HourlyDPO,
	}
	for env, name := range names {
		if !tableNamePattern.MatchString(name) {
			return fmt.Errorf("%s must be a plain table identifier, got %q", env, name)
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.Timeout < c.Warehouse.QueryTimeout {
		return fmt.Errorf("HTTP_TIMEOUT (%s) must not be shorter than QUERY_TIMEOUT (%s)",
			c.Server.Timeout, c.Warehouse.QueryTimeout)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when CACHE_ENABLED=true")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if c.Logging.Level != "" && !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	if c.Logging.File != "" && c.Logging.MaxSizeMB < 1 {
		return fmt.Errorf("LOG_MAX_SIZE_MB must be at least 1 when LOG_FILE is set")
	}
	return nil
}
