// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package main

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/rngdash/internal/config"
)

const redacted = "********"

func newConfigCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Validate configuration and print the effective values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			if err := printConfig(cmd.OutOrStdout(), cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "\nconfiguration OK")
			return nil
		},
	})
	return cmd
}

// printConfig writes the effective settings with secrets masked.
func printConfig(w io.Writer, cfg *config.Config) error {
	wh := cfg.Warehouse
	rows := [][2]string{
		{"warehouse.driver", wh.Driver},
	}
	switch wh.Driver {
	case config.DriverSnowflake:
		rows = append(rows,
			[2]string{"warehouse.snowflake.account", wh.Snowflake.Account},
			[2]string{"warehouse.snowflake.user", wh.Snowflake.User},
			[2]string{"warehouse.snowflake.password", mask(wh.Snowflake.Password)},
			[2]string{"warehouse.snowflake.role", wh.Snowflake.Role},
			[2]string{"warehouse.snowflake.warehouse", wh.Snowflake.Warehouse},
			[2]string{"warehouse.snowflake.database", wh.Snowflake.Database},
			[2]string{"warehouse.snowflake.schema", wh.Snowflake.Schema},
			[2]string{"warehouse.snowflake.authenticator", wh.Snowflake.Authenticator},
		)
	case config.DriverDuckDB:
		rows = append(rows, [2]string{"warehouse.duckdb_path", wh.DuckDBPath})
	case config.DriverClickHouse:
		rows = append(rows, [2]string{"warehouse.clickhouse_dsn", maskDSN(wh.ClickHouseDSN)})
	}
	rows = append(rows,
		[2]string{"warehouse.tables.daily", wh.Tables.Daily},
		[2]string{"warehouse.tables.city", wh.Tables.City},
		[2]string{"warehouse.tables.hourly_dpo", wh.Tables.HourlyDPO},
		[2]string{"warehouse.query_timeout", wh.QueryTimeout.String()},
		[2]string{"warehouse.sample_limit", strconv.Itoa(wh.SampleLimit)},
		[2]string{"cache.enabled", strconv.FormatBool(cfg.Cache.Enabled)},
		[2]string{"cache.ttl", cfg.Cache.TTL.String()},
		[2]string{"server.addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)},
		[2]string{"security.cors_origins", strings.Join(cfg.Security.CORSOrigins, ",")},
		[2]string{"logging.level", cfg.Logging.Level},
		[2]string{"logging.format", cfg.Logging.Format},
	)

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "KEY\tVALUE")
	for _, r := range rows {
		v := r[1]
		if v == "" {
			v = emptyCell
		}
		fmt.Fprintf(tw, "%s\t%s\n", r[0], v)
	}
	return tw.Flush()
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return redacted
}

// maskDSN hides the password of a URL-style DSN.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); !ok {
		return dsn
	}
	u.User = url.UserPassword(u.User.Username(), redacted)
	return u.String()
}
