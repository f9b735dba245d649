// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package api

import (
	"net/http"
	"time"
)

// HealthLive handles liveness check requests.
// Returns 200 OK if the process is alive, regardless of the warehouse.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness check requests.
// Returns 200 OK only if the warehouse answers a ping, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	connected := h.warehouse != nil && h.warehouse.Ping(r.Context()) == nil
	driver := ""
	if h.warehouse != nil {
		driver = h.warehouse.Driver()
	}

	statusCode := http.StatusOK
	if !connected {
		statusCode = http.StatusServiceUnavailable
	}
	rw.SuccessWithStatus(statusCode, map[string]interface{}{
		"warehouse_connected": connected,
		"warehouse_driver":    driver,
		"ready_to_serve":      connected,
		"uptime":              time.Since(h.startTime).Seconds(),
	})
}
