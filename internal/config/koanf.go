// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/rngdash/config.yaml",
	"/etc/rngdash/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// sliceConfigPaths are keys whose env values are comma-separated lists.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// envMappings maps lowercased environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"warehouse_driver":             "warehouse.driver",
	"duckdb_path":                  "warehouse.duckdb_path",
	"clickhouse_dsn":               "warehouse.clickhouse_dsn",
	"snowflake_account":            "warehouse.snowflake.account",
	"snowflake_user":               "warehouse.snowflake.user",
	"snowflake_password":           "warehouse.snowflake.password",
	"snowflake_role":               "warehouse.snowflake.role",
	"snowflake_warehouse":          "warehouse.snowflake.warehouse",
	"snowflake_database":           "warehouse.snowflake.database",
	"snowflake_schema":             "warehouse.snowflake.schema",
	"snowflake_authenticator":      "warehouse.snowflake.authenticator",
	"rng_daily_table":              "warehouse.tables.daily",
	"rng_city_table":               "warehouse.tables.city",
	"rng_hourly_dpo_table":         "warehouse.tables.hourly_dpo",
	"query_timeout":                "warehouse.query_timeout",
	"connect_timeout":              "warehouse.connect_timeout",
	"warehouse_max_open_conns":     "warehouse.max_open_conns",
	"warehouse_max_idle_conns":     "warehouse.max_idle_conns",
	"warehouse_queries_per_second": "warehouse.queries_per_second",
	"warehouse_query_burst":        "warehouse.query_burst",
	"sample_limit":                 "warehouse.sample_limit",
	"warehouse_health_interval":    "warehouse.health_interval",
	"breaker_timeout":              "warehouse.breaker.timeout",
	"breaker_failure_ratio":        "warehouse.breaker.failure_ratio",

	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"cache_enabled": "cache.enabled",
	"cache_ttl":     "cache.ttl",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":        "logging.level",
	"log_format":       "logging.format",
	"log_caller":       "logging.caller",
	"log_file":         "logging.file",
	"log_max_size_mb":  "logging.max_size_mb",
	"log_max_backups":  "logging.max_backups",
	"log_max_age_days": "logging.max_age_days",
	"log_compress":     "logging.compress",
}

// defaultConfig returns the defaults applied before file and env layers.
func defaultConfig() *Config {
	return &Config{
		Warehouse: WarehouseConfig{
			Driver:     DriverSnowflake,
			DuckDBPath: "",
			Snowflake: SnowflakeConfig{
				Authenticator: "snowflake",
			},
			Tables: TablesConfig{
				Daily:     "TEMP.PUBLIC.RNG_DAILY",
				City:      "TEMP.PUBLIC.RNG_CITY_DAILY",
				HourlyDPO: "TEMP.PUBLIC.RNG_HOURLY_DPO",
			},
			QueryTimeout:     60 * time.Second,
			ConnectTimeout:   15 * time.Second,
			MaxOpenConns:     8,
			MaxIdleConns:     4,
			QueriesPerSecond: 20,
			QueryBurst:       10,
			SampleLimit:      200,
			HealthInterval:   time.Minute,
			Breaker: BreakerConfig{
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8501,
			Timeout:         90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     2 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 14,
		},
	}
}

// LoadWithKoanf loads configuration using the file found by findConfigFile.
func LoadWithKoanf() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom loads configuration with an explicit YAML path; an empty path
// skips the file layer.
//
// Layers, lowest to highest priority:
//  1. struct defaults
//  2. YAML file
//  3. environment variables
func LoadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns CONFIG_PATH when it exists, else the first existing
// default path, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// processSliceFields splits comma-separated env strings into slices. YAML
// lists are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc maps an environment variable name to a koanf path, or ""
// to skip it.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
