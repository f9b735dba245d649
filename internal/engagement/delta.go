// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package engagement

import (
	"fmt"
	"slices"
)

// DeltaMode selects how change between periods is expressed.
type DeltaMode string

// Delta modes.
const (
	// DeltaPercent is relative change: (selected - compare) / compare * 100.
	DeltaPercent DeltaMode = "percent"
	// DeltaPoints is the plain difference, for metrics that are already
	// percentages.
	DeltaPoints DeltaMode = "points"
)

// PercentChange returns the relative change rounded to one decimal. A zero
// baseline reports no change.
func PercentChange(selected, compare float64) float64 {
	if compare == 0 {
		return 0
	}
	return finite(round((selected-compare)/compare*100, 1))
}

// PointChange returns selected - compare rounded to one decimal.
func PointChange(selected, compare float64) float64 {
	return finite(round(selected-compare, 1))
}

// Change applies the mode's formula.
func (m DeltaMode) Change(selected, compare float64) float64 {
	if m == DeltaPoints {
		return PointChange(selected, compare)
	}
	return PercentChange(selected, compare)
}

// DeltaRow is one compared row.
type DeltaRow struct {
	Key      Key     `json:"key"`
	Change   float64 `json:"change"`
	Abs      float64 `json:"abs"`
	Selected float64 `json:"selected"`
	Compare  float64 `json:"compare"`
}

// DeltaTable holds selected-versus-compare values for every row of a pivot
// that carries data in at least one of the two periods.
type DeltaTable struct {
	Dims          []string   `json:"dims"`
	Mode          DeltaMode  `json:"mode"`
	SelectedLabel string     `json:"selected_label"`
	CompareLabel  string     `json:"compare_label"`
	Rows          []DeltaRow `json:"rows"`
}

// CompareColumns compares two columns of one pivot, typically two dates.
// Missing cells count as 0, and rows that are 0 in both columns are dropped.
func CompareColumns(p *Pivot, selected, compare string, mode DeltaMode) *DeltaTable {
	dt := &DeltaTable{
		Dims:          slices.Clone(p.Dims),
		Mode:          mode,
		SelectedLabel: selected,
		CompareLabel:  compare,
		Rows:          make([]DeltaRow, 0, len(p.Rows)),
	}
	for _, row := range p.Rows {
		sel := finite(row.Cells[selected])
		cmp := finite(row.Cells[compare])
		if sel == 0 && cmp == 0 {
			continue
		}
		dt.Rows = append(dt.Rows, DeltaRow{
			Key:      row.Key,
			Change:   mode.Change(sel, cmp),
			Abs:      finite(sel - cmp),
			Selected: sel,
			Compare:  cmp,
		})
	}
	return dt
}

// Align outer-joins two pivots on their row keys and columns. Missing cells on
// either side are filled with 0. Both results share the same row order:
// selected's rows first, then rows only compare has.
func Align(selected, compare *Pivot) (*Pivot, *Pivot, error) {
	if !slices.Equal(selected.Dims, compare.Dims) {
		return nil, nil, fmt.Errorf("align: row dimensions differ: %v vs %v", selected.Dims, compare.Dims)
	}

	seen := make(map[string]bool)
	var columns []string
	for _, c := range append(slices.Clone(selected.Columns), compare.Columns...) {
		if !seen[c] {
			seen[c] = true
			columns = append(columns, c)
		}
	}
	sortColumnKeys(columns)

	index := make(map[string]int)
	var keys []Key
	for _, p := range []*Pivot{selected, compare} {
		for _, row := range p.Rows {
			id := row.Key.id()
			if _, ok := index[id]; !ok {
				index[id] = len(keys)
				keys = append(keys, row.Key)
			}
		}
	}

	fill := func(p *Pivot) *Pivot {
		byID := make(map[string]map[string]float64, len(p.Rows))
		for _, row := range p.Rows {
			byID[row.Key.id()] = row.Cells
		}
		out := &Pivot{Dims: slices.Clone(p.Dims), Columns: columns, Rows: make([]PivotRow, len(keys))}
		for i, key := range keys {
			src := byID[key.id()]
			cells := make(map[string]float64, len(columns))
			for _, c := range columns {
				cells[c] = finite(src[c])
			}
			out.Rows[i] = PivotRow{Key: key, Cells: cells}
		}
		return out
	}

	return fill(selected), fill(compare), nil
}

// GridDelta is the cell-by-cell comparison of two aligned pivots.
type GridDelta struct {
	Dims          []string  `json:"dims"`
	Columns       []string  `json:"columns"`
	Mode          DeltaMode `json:"mode"`
	SelectedLabel string    `json:"selected_label"`
	CompareLabel  string    `json:"compare_label"`
	Rows          []GridRow `json:"rows"`
}

// GridRow holds per-column change and absolute difference for one key.
type GridRow struct {
	Key    Key                `json:"key"`
	Change map[string]float64 `json:"change"`
	Abs    map[string]float64 `json:"abs"`
}

// CompareGrids compares two pivots already passed through Align. A row is
// dropped when every cell is 0 on both sides.
func CompareGrids(selected, compare *Pivot, mode DeltaMode) *GridDelta {
	gd := &GridDelta{
		Dims:    slices.Clone(selected.Dims),
		Columns: slices.Clone(selected.Columns),
		Mode:    mode,
		Rows:    make([]GridRow, 0, len(selected.Rows)),
	}
	cmpByID := make(map[string]map[string]float64, len(compare.Rows))
	for _, row := range compare.Rows {
		cmpByID[row.Key.id()] = row.Cells
	}
	for _, row := range selected.Rows {
		cmpCells := cmpByID[row.Key.id()]
		gr := GridRow{
			Key:    row.Key,
			Change: make(map[string]float64, len(gd.Columns)),
			Abs:    make(map[string]float64, len(gd.Columns)),
		}
		empty := true
		for _, c := range gd.Columns {
			sel := finite(row.Cells[c])
			cmp := finite(cmpCells[c])
			if sel != 0 || cmp != 0 {
				empty = false
			}
			gr.Change[c] = mode.Change(sel, cmp)
			gr.Abs[c] = finite(sel - cmp)
		}
		if !empty {
			gd.Rows = append(gd.Rows, gr)
		}
	}
	return gd
}
