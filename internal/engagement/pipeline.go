// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package engagement

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/tomtom215/rngdash/internal/logging"
)

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Query describes one fixed source query. Table always comes from
// configuration, never from user input.
type Query struct {
	Table   string
	Dates   []time.Time
	Ranges  []DateRange
	OrderBy []string
	Limit   int
}

// Loader runs source queries.
type Loader interface {
	Load(ctx context.Context, q Query) (*ResultSet, error)
}

// Report statuses.
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
)

// MsgNoData is shown when a view query returns no rows.
const MsgNoData = "No data found for the selected dates."

// Section is the output for one metric of a view.
type Section struct {
	Metric string     `json:"metric"`
	Label  string     `json:"label"`
	Format FormatSpec `json:"format"`

	// Pivot has dates as columns (date-column views).
	Pivot *Pivot      `json:"pivot,omitempty"`
	Delta *DeltaTable `json:"delta,omitempty"`

	// Selected and Compare are per-date pivots, Grid their comparison
	// (per-date views).
	Selected *Pivot     `json:"selected,omitempty"`
	Compare  *Pivot     `json:"compare,omitempty"`
	Grid     *GridDelta `json:"grid,omitempty"`

	Table         *FormattedTable `json:"table,omitempty"`
	SelectedTable *FormattedTable `json:"selected_table,omitempty"`
	CompareTable  *FormattedTable `json:"compare_table,omitempty"`

	Notices []string `json:"notices,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Report is a rendered view.
type Report struct {
	View     string    `json:"view"`
	Title    string    `json:"title"`
	Selected string    `json:"selected"`
	Compare  string    `json:"compare"`
	Status   string    `json:"status"`
	Message  string    `json:"message,omitempty"`
	Rows     int       `json:"rows"`
	Sections []Section `json:"sections,omitempty"`
}

// Tables names the source tables of the views.
type Tables struct {
	Daily     string
	City      string
	HourlyDPO string
}

// Pipeline runs views against a Loader. It holds no per-request state and is
// safe for concurrent use when the Loader is.
type Pipeline struct {
	loader      Loader
	tables      Tables
	views       map[string]ViewConfig
	sampleLimit int
}

// NewPipeline returns a pipeline serving the standard views over tables.
func NewPipeline(loader Loader, tables Tables, sampleLimit int) *Pipeline {
	p := &Pipeline{
		loader:      loader,
		tables:      tables,
		sampleLimit: sampleLimit,
		views:       make(map[string]ViewConfig),
	}
	for _, v := range []ViewConfig{
		DoDView(tables.Daily),
		CityView(tables.City),
		HourlyDPOView(tables.HourlyDPO),
		WeeklyView(tables.Daily),
	} {
		p.views[v.Name] = v
	}
	return p
}

// View returns a configured view by name.
func (p *Pipeline) View(name string) (ViewConfig, bool) {
	v, ok := p.views[name]
	return v, ok
}

// Tables returns the configured source tables.
func (p *Pipeline) Tables() []string {
	return []string{p.tables.Daily, p.tables.City, p.tables.HourlyDPO}
}

// Compare renders a comparison view for two dates.
//
// Only fatal loader errors are returned. Other load failures produce an
// empty report carrying the failure message.
func (p *Pipeline) Compare(ctx context.Context, view string, selected, compare time.Time) (*Report, error) {
	v, ok := p.views[view]
	if !ok || view == ViewWeekly {
		return nil, fmt.Errorf("unknown comparison view %q", view)
	}

	selLabel, cmpLabel := selected.Format(DateLayout), compare.Format(DateLayout)
	report := &Report{
		View:     v.Name,
		Title:    v.Title,
		Selected: selLabel,
		Compare:  cmpLabel,
		Status:   StatusOK,
	}

	dates := []time.Time{selected}
	if cmpLabel != selLabel {
		dates = append(dates, compare)
	}
	rs, err := p.loader.Load(ctx, Query{Table: v.Table, Dates: dates, OrderBy: v.OrderBy})
	if err != nil {
		if IsFatal(err) {
			return nil, err
		}
		logging.Ctx(ctx).Error().Err(err).Str("view", v.Name).Msg("view query failed")
		report.Status = StatusEmpty
		report.Message = err.Error()
		return report, nil
	}
	report.Rows = rs.Len()
	if rs.Len() == 0 {
		report.Status = StatusEmpty
		report.Message = MsgNoData
		return report, nil
	}

	derived, err := Derive(rs, v.Ratios...)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("view", v.Name).Msg("derived metrics incomplete")
	}

	var weights map[string]float64
	if v.Order == OrderLatestBase {
		weights = LatestWeights(derived, DimCity, MeasureBase, DimDate)
	}
	order := func(pv *Pivot) *Pivot {
		if v.Order == OrderLatestBase {
			return SortByWeight(pv, DimCity, weights)
		}
		return SortByCohort(pv)
	}

	for _, m := range v.Metrics {
		var sec Section
		if v.PerDate {
			sec = perDateSection(derived, v, m, selLabel, cmpLabel, order)
		} else {
			sec = dateColumnSection(derived, v, m, selLabel, cmpLabel, order)
		}
		if sec.Error != "" {
			logging.Ctx(ctx).Warn().Str("view", v.Name).Str("metric", m.Name).Str("error", sec.Error).Msg("metric skipped")
		}
		report.Sections = append(report.Sections, sec)
	}

	logging.Ctx(ctx).Debug().
		Str("view", v.Name).
		Str("selected", selLabel).
		Str("compare", cmpLabel).
		Int("rows", rs.Len()).
		Msg("view rendered")
	return report, nil
}

func newSection(v ViewConfig, m MetricConfig) Section {
	return Section{Metric: m.Name, Label: MetricLabel(m.Name), Format: v.Format(m.Name)}
}

func pivotSpec(v ViewConfig, m MetricConfig) PivotSpec {
	return PivotSpec{
		Rows:      v.Rows,
		Column:    v.Column,
		Measure:   m.Name,
		Agg:       m.Agg,
		Filter:    m.Filter,
		Precision: m.Precision,
	}
}

// dateColumnSection pivots one metric with dates as columns and compares the
// two date columns.
func dateColumnSection(rs *ResultSet, v ViewConfig, m MetricConfig, selLabel, cmpLabel string, order func(*Pivot) *Pivot) Section {
	sec := newSection(v, m)
	pv, err := BuildPivot(rs, pivotSpec(v, m))
	if err != nil {
		sec.Error = err.Error()
		return sec
	}
	pv = order(pv)
	sec.Pivot = pv

	switch {
	case selLabel == cmpLabel:
		sec.Table = FormatPivot(pv, sec.Format.Value)
	case !pv.HasColumn(selLabel):
		sec.Notices = append(sec.Notices, absentNotice(rs, m, "selected", selLabel))
		sec.Table = FormatPivot(pv, sec.Format.Value)
	case !pv.HasColumn(cmpLabel):
		sec.Notices = append(sec.Notices, absentNotice(rs, m, "compare", cmpLabel))
		sec.Table = FormatPivot(pv, sec.Format.Value)
	default:
		sec.Delta = CompareColumns(pv, selLabel, cmpLabel, m.Mode)
		sec.Table = FormatDeltaTable(sec.Delta, sec.Format)
	}
	return sec
}

// absentNotice explains a date missing from a metric's pivot: either the
// date has no rows, or the metric's row filter excluded all of them.
func absentNotice(rs *ResultSet, m MetricConfig, role, label string) string {
	dated := 0
	for _, r := range rs.Rows {
		if r.Dim(DimDate) != label {
			continue
		}
		dated++
		if m.Filter == nil || m.Filter(r) {
			return fmt.Sprintf("No data for %s date: %s", role, label)
		}
	}
	if dated == 0 {
		return fmt.Sprintf("No data for %s date: %s", role, label)
	}
	return fmt.Sprintf("%s filter excludes every row for %s date: %s", MetricLabel(m.Name), role, label)
}

// perDateSection pivots one metric separately for each date and compares the
// two grids cell by cell.
func perDateSection(rs *ResultSet, v ViewConfig, m MetricConfig, selLabel, cmpLabel string, order func(*Pivot) *Pivot) Section {
	sec := newSection(v, m)
	spec := pivotSpec(v, m)

	build := func(label, role string) (*Pivot, error) {
		day := rs.Where(func(r Row) bool { return r.Dim(DimDate) == label })
		if day.Len() == 0 {
			sec.Notices = append(sec.Notices, fmt.Sprintf("No data for %s date: %s", role, label))
			return nil, nil
		}
		pv, err := BuildPivot(day, spec)
		if err != nil {
			return nil, err
		}
		if pv.Len() == 0 && m.Filter != nil {
			sec.Notices = append(sec.Notices, absentNotice(day, m, role, label))
		}
		return order(pv), nil
	}

	sel, err := build(selLabel, "selected")
	if err != nil {
		sec.Error = err.Error()
		return sec
	}
	if sel != nil {
		sec.Selected = sel
		sec.SelectedTable = FormatPivot(sel, sec.Format.Value)
	}
	if selLabel == cmpLabel {
		return sec
	}

	cmp, err := build(cmpLabel, "compare")
	if err != nil {
		sec.Error = err.Error()
		return sec
	}
	if cmp != nil {
		sec.Compare = cmp
		sec.CompareTable = FormatPivot(cmp, sec.Format.Value)
	}
	if sel == nil || cmp == nil {
		return sec
	}

	alignedSel, alignedCmp, err := Align(sel, cmp)
	if err != nil {
		sec.Error = err.Error()
		return sec
	}
	sec.Grid = CompareGrids(order(alignedSel), alignedCmp, m.Mode)
	sec.Grid.SelectedLabel, sec.Grid.CompareLabel = selLabel, cmpLabel
	sec.Table = FormatGrid(sec.Grid, sec.Format.Change)
	return sec
}

// ErrUnknownTable is returned by Sample for tables outside the configuration.
var ErrUnknownTable = errors.New("unknown table")

// Sample returns up to the configured number of raw rows of a configured
// table, optionally restricted to one date, in canonical cohort order.
func (p *Pipeline) Sample(ctx context.Context, table string, date *time.Time) (*ResultSet, error) {
	if !slices.Contains(p.Tables(), table) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	q := Query{Table: table, Limit: p.sampleLimit}
	if date != nil {
		q.Dates = []time.Time{*date}
	}
	rs, err := p.loader.Load(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", table, err)
	}
	return SortResultSet(rs), nil
}
