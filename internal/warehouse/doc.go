// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

/*
Package warehouse is the raw result loader: it owns the database/sql handle
to the analytics warehouse and turns fixed source queries into
engagement.ResultSet values.

# Drivers

  - snowflake: github.com/snowflakedb/gosnowflake (production)
  - duckdb: github.com/duckdb/duckdb-go/v2 (local files and tests)
  - clickhouse: github.com/ClickHouse/clickhouse-go/v2

# Load Path

Each Load call goes through, in order: the result cache, singleflight
deduplication of identical in-flight queries, the query rate limiter, the
circuit breaker and a per-statement timeout.

# Result Normalisation

  - Column names are lowercased.
  - DATE and TIMESTAMP values become YYYY-MM-DD dimension strings.
  - Well-known dimensions (category, cohorts, city, start_date, order_hour)
    are always strings; integral numbers render without decimals.
  - Numeric values and numeric strings become measures.
  - Unparseable text in a known measure column becomes null.
  - SQL NULL leaves the column absent on that row.

# Errors

  - *ConnectivityError: the warehouse is unreachable or the breaker is open.
    Fatal() reports true so the engagement pipeline aborts the request.
  - *QueryError: the statement failed; wraps ErrQueryTimeout on timeout.
*/
package warehouse
