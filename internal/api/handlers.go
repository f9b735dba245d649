// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package api

import (
	"context"
	"time"

	"github.com/tomtom215/rngdash/internal/engagement"
)

// Reporter renders dashboard views. *engagement.Pipeline implements it.
type Reporter interface {
	Compare(ctx context.Context, view string, selected, compare time.Time) (*engagement.Report, error)
	Weekly(ctx context.Context, selected time.Time) (*engagement.WeeklyReport, error)
	Sample(ctx context.Context, table string, date *time.Time) (*engagement.ResultSet, error)
	Tables() []string
}

// Warehouse is the part of the warehouse handle the API needs for checks
// and table listing.
type Warehouse interface {
	Ping(ctx context.Context) error
	ListTables(ctx context.Context) ([]string, error)
	Driver() string
}

// Handler serves the dashboard API.
type Handler struct {
	reporter  Reporter
	warehouse Warehouse
	startTime time.Time

	// now returns the current time; replaced in tests.
	now func() time.Time
}

// NewHandler creates a handler over a view renderer and the warehouse.
func NewHandler(reporter Reporter, warehouse Warehouse) *Handler {
	return &Handler{
		reporter:  reporter,
		warehouse: warehouse,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// today returns the current calendar date as midnight UTC.
func (h *Handler) today() time.Time {
	y, m, d := h.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
