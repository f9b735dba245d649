// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package engagement

import (
	"context"
	"time"

	"github.com/tomtom215/rngdash/internal/logging"
)

// WeekWindow is the current week up to the selected day plus the same
// weekdays of the previous week.
type WeekWindow struct {
	Monday     time.Time `json:"monday"`
	Selected   time.Time `json:"selected"`
	PrevMonday time.Time `json:"prev_monday"`
	PrevEnd    time.Time `json:"prev_end"`
}

// NewWeekWindow returns the window ending on selected.
func NewWeekWindow(selected time.Time) WeekWindow {
	day := time.Date(selected.Year(), selected.Month(), selected.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	prevMonday := monday.AddDate(0, 0, -7)
	return WeekWindow{
		Monday:     monday,
		Selected:   day,
		PrevMonday: prevMonday,
		PrevEnd:    prevMonday.AddDate(0, 0, offset),
	}
}

// Ranges returns the two inclusive ranges of the window.
func (w WeekWindow) Ranges() []DateRange {
	return []DateRange{
		{From: w.Monday, To: w.Selected},
		{From: w.PrevMonday, To: w.PrevEnd},
	}
}

// Series period names.
const (
	PeriodCurrent  = "current"
	PeriodPrevious = "previous"
)

// Series is one category line of a weekly chart. Values align with the
// metric's Dates; a nil value is a gap.
type Series struct {
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Period   string     `json:"period"`
	Values   []*float64 `json:"values"`
}

// WeeklyMetric is the chart data for one metric.
type WeeklyMetric struct {
	Metric string   `json:"metric"`
	Label  string   `json:"label"`
	Dates  []string `json:"dates"`
	Series []Series `json:"series"`
	Error  string   `json:"error,omitempty"`
}

// WeeklyReport is the weekly trend chart view.
type WeeklyReport struct {
	Selected string         `json:"selected"`
	Window   WeekWindow     `json:"window"`
	Status   string         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Rows     int            `json:"rows"`
	Metrics  []WeeklyMetric `json:"metrics,omitempty"`
}

// Metric returns the chart data of one metric.
func (r *WeeklyReport) Metric(name string) (WeeklyMetric, bool) {
	for _, m := range r.Metrics {
		if m.Metric == name {
			return m, true
		}
	}
	return WeeklyMetric{}, false
}

// weeklyCategoryNames shortens category names for chart legends.
var weeklyCategoryNames = map[string]string{
	"DU_30_45_Days":  "STDU",
	"DU_45+_Days":    "LTDU",
	"RU_last30_Days": "RU",
}

// MsgNoWeeklyData is shown when the weekly window has no rows.
const MsgNoWeeklyData = "No data available for the selected date range."

// Weekly builds the week-over-week chart data ending on selected.
//
// Volumes are summed per category and day. Ratio metrics are recomputed from
// the summed numerator and denominator rather than summed themselves.
func (p *Pipeline) Weekly(ctx context.Context, selected time.Time) (*WeeklyReport, error) {
	v := p.views[ViewWeekly]
	win := NewWeekWindow(selected)
	report := &WeeklyReport{
		Selected: win.Selected.Format(DateLayout),
		Window:   win,
		Status:   StatusOK,
	}

	rs, err := p.loader.Load(ctx, Query{Table: v.Table, Ranges: win.Ranges(), OrderBy: v.OrderBy})
	if err != nil {
		if IsFatal(err) {
			return nil, err
		}
		logging.Ctx(ctx).Error().Err(err).Str("view", v.Name).Msg("weekly query failed")
		report.Status = StatusEmpty
		report.Message = err.Error()
		return report, nil
	}
	report.Rows = rs.Len()
	if rs.Len() == 0 {
		report.Status = StatusEmpty
		report.Message = MsgNoWeeklyData
		return report, nil
	}

	rs = renameCategories(rs).Where(ExcludeCategories("Unassigned"))
	monday := win.Monday.Format(DateLayout)

	ratios := make(map[string]Ratio, len(v.Ratios))
	for _, r := range v.Ratios {
		ratios[r.Name] = r
	}

	for _, m := range v.Metrics {
		wm := WeeklyMetric{Metric: m.Name, Label: MetricLabel(m.Name)}
		rows := rs
		if m.Filter != nil {
			rows = rs.Where(m.Filter)
		}

		var value func(Row) (float64, float64, bool)
		if r, ok := ratios[m.Name]; ok {
			if !rs.HasColumn(r.Numerator) || !rs.HasColumn(r.Denominator) {
				wm.Error = (&MissingColumnError{Metric: m.Name, Column: missingOf(rs, r)}).Error()
				report.Metrics = append(report.Metrics, wm)
				continue
			}
			value = func(row Row) (float64, float64, bool) {
				num, nok := row.Measure(r.Numerator)
				den, dok := row.Measure(r.Denominator)
				return num, den, nok && dok
			}
		} else {
			if !rs.HasColumn(m.Name) {
				wm.Error = (&MissingColumnError{Metric: m.Name, Column: m.Name}).Error()
				report.Metrics = append(report.Metrics, wm)
				continue
			}
			value = func(row Row) (float64, float64, bool) {
				x, ok := row.Measure(m.Name)
				return x, 0, ok
			}
		}

		wm.Dates = dateSpan(rows)
		for _, period := range []string{PeriodCurrent, PeriodPrevious} {
			half := rows.Where(func(r Row) bool {
				return (r.Dim(DimDate) >= monday) == (period == PeriodCurrent)
			})
			for _, cat := range categoriesOf(half) {
				s := Series{
					Name:     cat + " (" + periodTitle(period) + ")",
					Category: cat,
					Period:   period,
					Values:   make([]*float64, len(wm.Dates)),
				}
				num := make(map[string]float64)
				den := make(map[string]float64)
				seen := make(map[string]bool)
				for _, row := range half.Rows {
					if row.Dim(DimCategory) != cat {
						continue
					}
					n, d, ok := value(row)
					if !ok {
						continue
					}
					day := row.Dim(DimDate)
					num[day] += n
					den[day] += d
					seen[day] = true
				}
				ratio, isRatio := ratios[m.Name]
				for i, day := range wm.Dates {
					if !seen[day] {
						continue
					}
					val := num[day]
					if isRatio {
						if den[day] == 0 {
							continue
						}
						val = num[day] / den[day] * ratio.Scale
					}
					val = round(val, 2)
					s.Values[i] = &val
				}
				wm.Series = append(wm.Series, s)
			}
		}
		report.Metrics = append(report.Metrics, wm)
	}
	return report, nil
}

func periodTitle(period string) string {
	if period == PeriodCurrent {
		return "Current"
	}
	return "Previous"
}

func missingOf(rs *ResultSet, r Ratio) string {
	if !rs.HasColumn(r.Numerator) {
		return r.Numerator
	}
	return r.Denominator
}

func renameCategories(rs *ResultSet) *ResultSet {
	out := &ResultSet{Columns: rs.Columns, Rows: make([]Row, len(rs.Rows))}
	for i, row := range rs.Rows {
		if short, ok := weeklyCategoryNames[row.Dim(DimCategory)]; ok {
			row = row.clone(0)
			row.Dims[DimCategory] = short
		}
		out.Rows[i] = row
	}
	return out
}

// categoriesOf returns distinct categories in order of first appearance.
func categoriesOf(rs *ResultSet) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, row := range rs.Rows {
		c := row.Dim(DimCategory)
		if c != "" && !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	return cats
}

// dateSpan returns every calendar day from the earliest to the latest date in
// rs, inclusive.
func dateSpan(rs *ResultSet) []string {
	var minDay, maxDay string
	for _, row := range rs.Rows {
		d := row.Dim(DimDate)
		if d == "" {
			continue
		}
		if minDay == "" || d < minDay {
			minDay = d
		}
		if d > maxDay {
			maxDay = d
		}
	}
	from, err := time.Parse(DateLayout, minDay)
	if err != nil {
		return nil
	}
	to, err := time.Parse(DateLayout, maxDay)
	if err != nil {
		return nil
	}
	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days
}
