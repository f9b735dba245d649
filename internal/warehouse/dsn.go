// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package warehouse

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	sf "github.com/snowflakedb/gosnowflake"

	"github.com/tomtom215/rngdash/internal/config"
)

// openDB opens (but does not ping) the configured driver.
func openDB(cfg *config.WarehouseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverSnowflake:
		dsn, err := snowflakeDSN(&cfg.Snowflake, cfg.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		return sql.Open("snowflake", dsn)

	case config.DriverDuckDB:
		return sql.Open("duckdb", cfg.DuckDBPath)

	case config.DriverClickHouse:
		opts, err := clickhouse.ParseDSN(cfg.ClickHouseDSN)
		if err != nil {
			return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
		}
		if cfg.ConnectTimeout > 0 {
			opts.DialTimeout = cfg.ConnectTimeout
		}
		return clickhouse.OpenDB(opts), nil

	default:
		return nil, fmt.Errorf("unsupported warehouse driver %q", cfg.Driver)
	}
}

// snowflakeDSN builds a gosnowflake DSN. With the oauth authenticator the
// password field carries the access token.
func snowflakeDSN(c *config.SnowflakeConfig, loginTimeout time.Duration) (string, error) {
	sc := &sf.Config{
		Account:      c.Account,
		User:         c.User,
		Role:         c.Role,
		Warehouse:    c.Warehouse,
		Database:     c.Database,
		Schema:       c.Schema,
		LoginTimeout: loginTimeout,
		Application:  "rngdash",
	}

	switch strings.ToLower(c.Authenticator) {
	case "", "snowflake":
		sc.Authenticator = sf.AuthTypeSnowflake
		sc.Password = c.Password
	case "externalbrowser":
		sc.Authenticator = sf.AuthTypeExternalBrowser
	case "oauth":
		sc.Authenticator = sf.AuthTypeOAuth
		sc.Token = c.Password
	case "username_password_mfa":
		sc.Authenticator = sf.AuthTypeUsernamePasswordMFA
		sc.Password = c.Password
	default:
		return "", fmt.Errorf("unsupported snowflake authenticator %q", c.Authenticator)
	}

	dsn, err := sf.DSN(sc)
	if err != nil {
		return "", fmt.Errorf("build snowflake dsn: %w", err)
	}
	return dsn, nil
}
