// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package warehouse

import (
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/rngdash/internal/engagement"
)

// scanResultSet reads every row into an engagement.ResultSet. Column names
// are lowercased; the driver's value types decide dims versus measures.
func scanResultSet(rows *sql.Rows) (*engagement.ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = strings.ToLower(c)
	}

	rs := &engagement.ResultSet{Columns: names}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := engagement.Row{
			Dims:     make(map[string]string, 4),
			Measures: make(map[string]float64, len(cols)),
		}
		for i, name := range names {
			assign(&row, name, values[i])
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return rs, nil
}

// assign stores one column value on row. nil leaves the column absent, which
// reads as null for measures and "" for dims.
func assign(row *engagement.Row, name string, v any) {
	if v == nil {
		return
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}

	if t, ok := v.(time.Time); ok {
		row.Dims[name] = t.Format(engagement.DateLayout)
		return
	}

	if s, ok := v.(string); ok && name == engagement.DimDate {
		row.Dims[name] = normaliseDate(s)
		return
	}

	if engagement.IsDimension(name) {
		row.Dims[name] = dimString(v)
		return
	}

	if f, ok := toFloat(v); ok {
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			row.Measures[name] = f
		}
		return
	}

	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			if !math.IsNaN(f) && !math.IsInf(f, 0) {
				row.Measures[name] = f
			}
			return
		}
		if engagement.IsKnownMetric(name) {
			// Unparseable measure text is treated as no data.
			return
		}
		row.Dims[name] = s
		return
	}

	row.Dims[name] = fmt.Sprint(v)
}

// dateLayouts are the textual date and timestamp shapes drivers return for
// date columns stored or cast as text.
var dateLayouts = []string{
	engagement.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05-07",
}

// normaliseDate reduces a textual date or timestamp to YYYY-MM-DD. Values in
// no known layout are kept as they are.
func normaliseDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(engagement.DateLayout)
		}
	}
	return s
}

// dimString renders a dimension value, keeping integral numbers free of a
// decimal part so order_hour reads "9" rather than "9.000000".
func dimString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	}
	if f, ok := toFloat(v); ok && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(v)
}

// floater covers driver decimal types such as duckdb.Decimal.
type floater interface {
	Float64() float64
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case int16:
		return float64(x), true
	case int8:
		return float64(x), true
	case int:
		return float64(x), true
	case uint64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint8:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case *big.Int:
		f, _ := new(big.Float).SetInt(x).Float64()
		return f, true
	case *big.Float:
		f, _ := x.Float64()
		return f, true
	case floater:
		return x.Float64(), true
	}
	return 0, false
}
