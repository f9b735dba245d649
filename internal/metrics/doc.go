// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API router.

# Available Metrics

Warehouse Metrics:
  - warehouse_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - warehouse_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type (timeout, connectivity, query)
  - warehouse_rows_loaded_total: Rows returned by source queries (counter)
    Labels: table

API Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_rate_limit_hits_total

View Metrics:
  - view_render_duration_seconds: Pipeline time per view (histogram)
  - view_renders_total: Rendered views by status (counter)
  - view_section_errors_total: Metric sections that failed (counter)

Cache and Circuit Breaker Metrics:
  - cache_hits_total, cache_misses_total, cache_entries, cache_evictions_total
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_state_transitions_total

# Usage

	start := time.Now()
	rs, err := loader.Load(ctx, q)
	metrics.RecordDBQuery("load", q.Table, time.Since(start), err)
*/
package metrics
