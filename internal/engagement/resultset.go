// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

// Package engagement is the metric comparison engine behind the dashboard
// views. It turns loaded warehouse rows into derived ratio metrics, pivots
// them by cohort, city or hour, orders the rows, computes selected-versus-
// compare deltas and attaches display formatting.
//
// Everything here is pure computation over immutable inputs except Pipeline,
// which pulls rows through a Loader.
package engagement

import (
	"slices"
	"strings"
)

// Well-known column names.
const (
	DimCategory = "category"
	DimCohort   = "cohorts"
	DimCity     = "city"
	DimDate     = "start_date"
	DimHour     = "order_hour"
)

// Well-known measure names.
const (
	MeasureBase             = "base"
	MeasureTransactingUsers = "transacting_users"
	MeasureVisitors         = "visitors"
	MeasureOrdersOnDate     = "orders_on_date"
	MeasureMenuSessions     = "menu_sessions"
	MeasureCartSessions     = "cart_sessions"
	MeasureMenuDroppers     = "menu_droppers"
	MeasureCartDroppers     = "cart_droppers"
	MeasureDPOFreeCash      = "dpo_fc"
	MeasureDPOCoupons       = "dpo_coupons"
	MeasureDPOBoth          = "dpo_both"
	MeasurePctDiscOrders    = "pct_disc_orders"
)

// DateLayout is the calendar date format used for date dimensions and labels.
const DateLayout = "2006-01-02"

// DimensionColumns are always treated as categorical, whatever type the
// warehouse returns for them.
var DimensionColumns = []string{DimCategory, DimCohort, DimCity, DimDate, DimHour}

// IsDimension reports whether name is a well-known dimension column.
func IsDimension(name string) bool {
	return slices.Contains(DimensionColumns, name)
}

// Row is one loaded record. Dimension values are strings. A measure missing
// from Measures is null ("no data"), which is different from zero.
type Row struct {
	Dims     map[string]string  `json:"dims"`
	Measures map[string]float64 `json:"measures"`
}

// Dim returns the value of a dimension, or "" when absent.
func (r Row) Dim(name string) string {
	return r.Dims[name]
}

// Measure returns a measure value and whether it is non-null.
func (r Row) Measure(name string) (float64, bool) {
	v, ok := r.Measures[name]
	return v, ok
}

// clone returns a deep copy so derived sets never alias loaded rows.
func (r Row) clone(extra int) Row {
	dims := make(map[string]string, len(r.Dims))
	for k, v := range r.Dims {
		dims[k] = v
	}
	measures := make(map[string]float64, len(r.Measures)+extra)
	for k, v := range r.Measures {
		measures[k] = v
	}
	return Row{Dims: dims, Measures: measures}
}

// ResultSet is a loaded query result: lowercase column names in warehouse
// order plus rows.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasColumn reports whether the result set carries a column, regardless of
// whether any row has a non-null value for it.
func (rs *ResultSet) HasColumn(name string) bool {
	return rs != nil && slices.Contains(rs.Columns, name)
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// Where returns a new result set holding the rows that keep returns true for.
// Rows are shared, not copied; callers must not mutate them.
func (rs *ResultSet) Where(keep func(Row) bool) *ResultSet {
	out := &ResultSet{Columns: rs.Columns}
	for _, row := range rs.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Key identifies one pivot row: the row dimension values in order.
type Key []string

// String renders the key for display, e.g. "RU_last30_Days / RU1-5".
func (k Key) String() string {
	return strings.Join(k, " / ")
}

// id is the map key form of a Key.
func (k Key) id() string {
	return strings.Join(k, "\x1f")
}
