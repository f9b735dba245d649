// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package engagement

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
)

// Aggregation combines the measure values that land in one pivot cell.
type Aggregation string

// Supported aggregations.
const (
	AggSum   Aggregation = "sum"
	AggMean  Aggregation = "mean"
	AggCount Aggregation = "count"
)

// RowFilter decides whether a row takes part in a pivot.
type RowFilter func(Row) bool

// ExcludeCategories drops rows whose category is one of cats.
func ExcludeCategories(cats ...string) RowFilter {
	return func(r Row) bool {
		return !slices.Contains(cats, r.Dim(DimCategory))
	}
}

// NonZeroMeasure drops rows whose measure is exactly zero. Null values pass.
func NonZeroMeasure(name string) RowFilter {
	return func(r Row) bool {
		v, ok := r.Measure(name)
		return !ok || v != 0
	}
}

// AllOf keeps a row only when every filter keeps it.
func AllOf(filters ...RowFilter) RowFilter {
	return func(r Row) bool {
		for _, f := range filters {
			if f != nil && !f(r) {
				return false
			}
		}
		return true
	}
}

// EngagedBaseFilter is the filter for "visitors as % of base" metrics: new
// and unassigned users are excluded, as are rows with an empty base.
func EngagedBaseFilter() RowFilter {
	return AllOf(ExcludeCategories("NU", "Unassigned"), NonZeroMeasure(MeasureBase))
}

// PivotSpec describes one pivot build.
type PivotSpec struct {
	Rows      []string
	Column    string
	Measure   string
	Agg       Aggregation
	Filter    RowFilter
	Precision int
}

// Pivot is a cross-tabulation: one row per Key, one column per distinct
// column-dimension value. A cell missing from Cells has no data.
type Pivot struct {
	Dims    []string   `json:"dims"`
	Columns []string   `json:"columns"`
	Rows    []PivotRow `json:"rows"`
}

// PivotRow is one pivot row.
type PivotRow struct {
	Key   Key                `json:"key"`
	Cells map[string]float64 `json:"cells"`
}

// Len returns the number of rows.
func (p *Pivot) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Rows)
}

// HasColumn reports whether col is one of the pivot columns.
func (p *Pivot) HasColumn(col string) bool {
	return p != nil && slices.Contains(p.Columns, col)
}

// Value returns the cell for key and col.
func (p *Pivot) Value(key Key, col string) (float64, bool) {
	id := key.id()
	for _, row := range p.Rows {
		if row.Key.id() == id {
			v, ok := row.Cells[col]
			return v, ok
		}
	}
	return 0, false
}

// dimIndex returns the position of a row dimension, or -1.
func (p *Pivot) dimIndex(name string) int {
	return slices.Index(p.Dims, name)
}

// withRows returns a shallow copy of p carrying rows.
func (p *Pivot) withRows(rows []PivotRow) *Pivot {
	return &Pivot{Dims: p.Dims, Columns: p.Columns, Rows: rows}
}

type cellAccum struct {
	sum float64
	n   int
}

// BuildPivot reshapes rs into a pivot according to spec.
//
// Rows missing any row or column dimension value are skipped, as are rows
// rejected by spec.Filter. Null measure values do not contribute; a cell
// with no contributing value is absent. Aggregates are rounded once to
// spec.Precision decimals. Row order follows first appearance in rs.
func BuildPivot(rs *ResultSet, spec PivotSpec) (*Pivot, error) {
	switch spec.Agg {
	case AggSum, AggMean, AggCount:
	default:
		return nil, fmt.Errorf("pivot %s: unsupported aggregation %q", spec.Measure, spec.Agg)
	}
	for _, col := range append(slices.Clone(spec.Rows), spec.Column, spec.Measure) {
		if !rs.HasColumn(col) {
			return nil, &MissingColumnError{Metric: spec.Measure, Column: col}
		}
	}

	index := make(map[string]int)
	var keys []Key
	var cells []map[string]*cellAccum
	seenCols := make(map[string]bool)
	var columns []string

rows:
	for _, row := range rs.Rows {
		if spec.Filter != nil && !spec.Filter(row) {
			continue
		}
		key := make(Key, len(spec.Rows))
		for i, dim := range spec.Rows {
			v := row.Dim(dim)
			if v == "" {
				continue rows
			}
			key[i] = v
		}
		col := row.Dim(spec.Column)
		if col == "" {
			continue
		}

		id := key.id()
		idx, ok := index[id]
		if !ok {
			idx = len(keys)
			index[id] = idx
			keys = append(keys, key)
			cells = append(cells, make(map[string]*cellAccum))
		}
		if !seenCols[col] {
			seenCols[col] = true
			columns = append(columns, col)
		}

		v, ok := row.Measure(spec.Measure)
		if !ok {
			continue
		}
		acc := cells[idx][col]
		if acc == nil {
			acc = &cellAccum{}
			cells[idx][col] = acc
		}
		acc.sum += v
		acc.n++
	}

	sortColumnKeys(columns)

	p := &Pivot{
		Dims:    slices.Clone(spec.Rows),
		Columns: columns,
		Rows:    make([]PivotRow, len(keys)),
	}
	for i, key := range keys {
		out := make(map[string]float64, len(cells[i]))
		for col, acc := range cells[i] {
			var v float64
			switch spec.Agg {
			case AggSum:
				v = acc.sum
			case AggMean:
				v = acc.sum / float64(acc.n)
			case AggCount:
				v = float64(acc.n)
			}
			out[col] = round(v, spec.Precision)
		}
		p.Rows[i] = PivotRow{Key: key, Cells: out}
	}
	return p, nil
}

// sortColumnKeys orders column keys ascending: numerically when every key is
// an integer (hours), lexically otherwise (ISO dates).
func sortColumnKeys(cols []string) {
	nums := make(map[string]int, len(cols))
	for _, c := range cols {
		n, err := strconv.Atoi(c)
		if err != nil {
			sort.Strings(cols)
			return
		}
		nums[c] = n
	}
	sort.Slice(cols, func(i, j int) bool { return nums[cols[i]] < nums[cols[j]] })
}
