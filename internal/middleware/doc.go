// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

/*
Package middleware provides chi-compatible HTTP middleware for the dashboard API.

Key Components:

  - RequestID: UUID request IDs in the X-Request-ID header, request context
    and logging context (request_id, correlation_id)
  - PrometheusMetrics: request count, latency, in-flight gauge and rate limit
    rejections, labelled by chi route pattern
  - Compression: gzip for clients that send Accept-Encoding: gzip

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Use(middleware.Compression)
	    ...
	})

Thread Safety:

All middleware is stateless apart from the pooled gzip writers and the
Prometheus collectors, both of which are safe for concurrent use.
*/
package middleware
