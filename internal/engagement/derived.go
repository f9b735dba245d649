// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package engagement

import (
	"errors"
	"math"
)

// Ratio defines a derived metric Numerator / Denominator * Scale, rounded to
// two decimals. The result is null whenever the denominator is zero or
// either input is null.
type Ratio struct {
	Name        string
	Numerator   string
	Denominator string
	Scale       float64
}

// Derived ratio metrics.
var (
	// TUVUPct is transacting users as a percentage of visitors.
	TUVUPct = Ratio{Name: "tu_vu_pct", Numerator: MeasureTransactingUsers, Denominator: MeasureVisitors, Scale: 100}

	// VUPct is visitors as a percentage of the user base.
	VUPct = Ratio{Name: "vu_pct", Numerator: MeasureVisitors, Denominator: MeasureBase, Scale: 100}

	// RepeatRate is orders per transacting user.
	RepeatRate = Ratio{Name: "repeat_rate", Numerator: MeasureOrdersOnDate, Denominator: MeasureTransactingUsers, Scale: 1}
)

// DailyRatios are the ratios shown on cohort-level views.
func DailyRatios() []Ratio {
	return []Ratio{TUVUPct, VUPct, RepeatRate}
}

// CityRatios are the same formulas under their city-scoped names.
func CityRatios() []Ratio {
	out := DailyRatios()
	for i := range out {
		out[i] = out[i].Scoped("city")
	}
	return out
}

// Scoped returns the ratio renamed to name_suffix.
func (r Ratio) Scoped(suffix string) Ratio {
	r.Name = r.Name + "_" + suffix
	return r
}

// Compute evaluates the ratio for one row.
func (r Ratio) Compute(row Row) (float64, bool) {
	num, ok := row.Measure(r.Numerator)
	if !ok {
		return 0, false
	}
	den, ok := row.Measure(r.Denominator)
	if !ok || den == 0 {
		return 0, false
	}
	v := round(num/den*r.Scale, 2)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Derive returns a copy of rs extended with the given ratio columns.
//
// A ratio whose input columns are absent is skipped and reported as a
// *MissingColumnError; the other ratios are still computed. The returned
// set is always usable, and the error (if any) joins every missing column.
func Derive(rs *ResultSet, ratios ...Ratio) (*ResultSet, error) {
	var errs []error
	active := make([]Ratio, 0, len(ratios))
	for _, r := range ratios {
		missing := false
		for _, col := range []string{r.Numerator, r.Denominator} {
			if !rs.HasColumn(col) {
				errs = append(errs, &MissingColumnError{Metric: r.Name, Column: col})
				missing = true
			}
		}
		if !missing {
			active = append(active, r)
		}
	}

	out := &ResultSet{
		Columns: make([]string, 0, len(rs.Columns)+len(active)),
		Rows:    make([]Row, len(rs.Rows)),
	}
	out.Columns = append(out.Columns, rs.Columns...)
	for _, r := range active {
		if !out.HasColumn(r.Name) {
			out.Columns = append(out.Columns, r.Name)
		}
	}

	for i, row := range rs.Rows {
		derived := row.clone(len(active))
		for _, r := range active {
			if v, ok := r.Compute(row); ok {
				derived.Measures[r.Name] = v
			} else {
				delete(derived.Measures, r.Name)
			}
		}
		out.Rows[i] = derived
	}

	return out, errors.Join(errs...)
}

// round rounds half away from zero to the given number of decimals.
func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

// finite maps NaN and infinities to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
