// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package metrics

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Warehouse Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warehouse_query_duration_seconds",
			Help:    "Duration of warehouse queries in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}, // Cloud warehouse latency
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_query_errors_total",
			Help: "Total number of warehouse query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBRowsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_rows_loaded_total",
			Help: "Total number of rows returned by source queries",
		},
		[]string{"table"},
	)

	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "warehouse_connections_in_use",
			Help: "Current number of warehouse connections in use",
		},
	)

	WarehouseUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "warehouse_up",
			Help: "Whether the last warehouse health check succeeded (1) or failed (0)",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// View Pipeline Metrics
	ViewRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "view_render_duration_seconds",
			Help:    "Time to load, pivot and compare one dashboard view",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"view"},
	)

	ViewRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "view_renders_total",
			Help: "Total number of rendered views by status",
		},
		[]string{"view", "status"}, // status: "ok", "empty", "error"
	)

	ViewSectionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "view_section_errors_total",
			Help: "Total number of metric sections that could not be computed",
		},
		[]string{"view", "metric"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "resultset"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version", "warehouse_driver"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// Error types used for the error_type label.
const (
	ErrorTypeTimeout      = "timeout"
	ErrorTypeConnectivity = "connectivity"
	ErrorTypeQuery        = "query"
)

// fatal matches errors that mark the warehouse as unreachable.
type fatal interface {
	Fatal() bool
}

// ErrorType buckets a query error into a low-cardinality label value.
func ErrorType(err error) string {
	var f fatal
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	case errors.As(err, &f) && f.Fatal():
		return ErrorTypeConnectivity
	default:
		return ErrorTypeQuery
	}
}

// RecordDBQuery records a warehouse query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, ErrorType(err)).Inc()
	}
}

// RecordRowsLoaded records the size of a loaded result set
func RecordRowsLoaded(table string, rows int) {
	DBRowsLoaded.WithLabelValues(table).Add(float64(rows))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordView records one rendered view and the sections that failed in it
func RecordView(view, status string, duration time.Duration, failedMetrics []string) {
	ViewRenderDuration.WithLabelValues(view).Observe(duration.Seconds())
	ViewRendersTotal.WithLabelValues(view, status).Inc()
	for _, m := range failedMetrics {
		ViewSectionErrors.WithLabelValues(view, m).Inc()
	}
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordBreakerTransition records a circuit breaker state change. States use
// the 0=closed, 1=half-open, 2=open encoding.
func RecordBreakerTransition(name, from, to string, toState float64) {
	CircuitBreakerState.WithLabelValues(name).Set(toState)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// SetAppInfo publishes build information
func SetAppInfo(version, driver string) {
	AppInfo.WithLabelValues(version, runtime.Version(), driver).Set(1)
}

// SetWarehouseUp records the outcome of a warehouse health check.
func SetWarehouseUp(up bool) {
	if up {
		WarehouseUp.Set(1)
		return
	}
	WarehouseUp.Set(0)
}
