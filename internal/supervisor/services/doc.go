// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

/*
Package services provides suture.Service wrappers for dashboard components.

HTTPServerService turns http.Server's blocking ListenAndServe into a
context-aware Serve with graceful shutdown.

WarehouseHealthService pings the warehouse on an interval and publishes the
warehouse_up and app_uptime_seconds gauges. Check failures are logged on
state change only and never fail the service.
*/
package services
