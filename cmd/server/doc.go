// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

/*
Package main is the entry point for the RnG dashboard API server.

The server compares engagement metrics of the RnG (retention and growth)
cohorts between two dates and serves the day-over-day, city, hourly DPO and
weekly trend views as JSON.

# Startup

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, optionally rotated with lumberjack
 3. Warehouse: connect and ping; failure exits with status 1
 4. Pipeline and chi router
 5. Supervisor tree: warehouse health check and HTTP server

# Supervision

	RootSupervisor ("rngdash")
	├── DataSupervisor ("data-layer")
	│   └── WarehouseHealthService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

# Example

	export WAREHOUSE_DRIVER=snowflake
	export SNOWFLAKE_ACCOUNT=acme-xy12345
	export SNOWFLAKE_USER=analyst
	export SNOWFLAKE_PASSWORD=...
	./rngdash-server

Local development against a DuckDB file:

	WAREHOUSE_DRIVER=duckdb DUCKDB_PATH=./rng.duckdb ./rngdash-server

SIGINT and SIGTERM trigger a graceful shutdown bounded by
server.shutdown_timeout.
*/
package main
