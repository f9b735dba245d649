// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

/*
Package api provides the HTTP API of the engagement dashboard.

# Endpoints

	GET /api/v1/health/live                       liveness
	GET /api/v1/health/ready                      warehouse ping (503 when down)
	GET /api/v1/views/dod?date=&compare=          day-over-day comparison
	GET /api/v1/views/city?date=&compare=         city-level comparison
	GET /api/v1/views/hourly-dpo?date=&compare=   hourly DPO pivots and grid deltas
	GET /api/v1/views/weekly?date=                weekly trend series
	GET /api/v1/views/weekly/chart.svg?date=&metric=
	GET /api/v1/tables                            configured and visible tables
	GET /api/v1/tables/{name}/sample?date=        raw rows of a configured table
	GET /metrics                                  Prometheus

date defaults to today and compare to date minus seven days. A compare date
after the selected date is rejected with 400.

# Responses

JSON responses use the envelope {success, data, error, meta}. A view whose
source query fails is still a 200 with data.status "empty" and a message;
an unreachable warehouse is a 503 SERVICE_UNAVAILABLE.

# Middleware

Requests pass through request IDs, real IP extraction, panic recovery and
CORS globally. Data routes add per-IP rate limiting (go-chi/httprate),
security headers, Prometheus instrumentation and gzip compression.
*/
package api
