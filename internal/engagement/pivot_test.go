// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package engagement

import (
	"slices"
	"testing"
)

func cohortRow(category, cohort, date string, measures map[string]float64) Row {
	return row(map[string]string{DimCategory: category, DimCohort: cohort, DimDate: date}, measures)
}

func cohortSpec(measure string, agg Aggregation) PivotSpec {
	return PivotSpec{
		Rows:      []string{DimCategory, DimCohort},
		Column:    DimDate,
		Measure:   measure,
		Agg:       agg,
		Precision: 2,
	}
}

func TestBuildPivotCollapsesDuplicateKeys(t *testing.T) {
	t.Parallel()

	rs := &ResultSet{
		Columns: dailyColumns(),
		Rows: []Row{
			cohortRow("RU_last30_Days", "RU1-5", "2024-01-01", map[string]float64{MeasureBase: 3}),
			cohortRow("RU_last30_Days", "RU1-5", "2024-01-01", map[string]float64{MeasureBase: 4}),
		},
	}

	p, err := BuildPivot(rs, cohortSpec(MeasureBase, AggSum))
	if err != nil {
		t.Fatalf("BuildPivot() error = %v", err)
	}
	if p.Len() != 1 {
		t.Fatalf("rows = %d, want 1", p.Len())
	}
	if got := p.Rows[0].Cells["2024-01-01"]; got != 7 {
		t.Errorf("cell = %v, want 7", got)
	}
}

func TestBuildPivotAggregations(t *testing.T) {
	t.Parallel()

	rows := []Row{
		cohortRow("NU", "New Users", "2024-01-01", map[string]float64{MeasureBase: 1}),
		cohortRow("NU", "New Users", "2024-01-01", map[string]float64{MeasureBase: 2}),
		cohortRow("NU", "New Users", "2024-01-01", nil), // null does not contribute
	}
	rs := &ResultSet{Columns: dailyColumns(), Rows: rows}

	tests := []struct {
		agg  Aggregation
		want float64
	}{
		{AggSum, 3},
		{AggMean, 1.5},
		{AggCount, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.agg), func(t *testing.T) {
			t.Parallel()

			p, err := BuildPivot(rs, cohortSpec(MeasureBase, tt.agg))
			if err != nil {
				t.Fatalf("BuildPivot() error = %v", err)
			}
			if got := p.Rows[0].Cells["2024-01-01"]; got != tt.want {
				t.Errorf("cell = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildPivotNullCellsAbsent(t *testing.T) {
	t.Parallel()

	rs := &ResultSet{
		Columns: dailyColumns(),
		Rows: []Row{
			cohortRow("NU", "New Users", "2024-01-01", nil),
			cohortRow("NU", "New Users", "2024-01-02", map[string]float64{MeasureBase: 0}),
		},
	}
	p, err := BuildPivot(rs, cohortSpec(MeasureBase, AggSum))
	if err != nil {
		t.Fatalf("BuildPivot() error = %v", err)
	}
	if _, ok := p.Value(Key{"NU", "New Users"}, "2024-01-01"); ok {
		t.Error("all-null cell should be absent")
	}
	if v, ok := p.Value(Key{"NU", "New Users"}, "2024-01-02"); !ok || v != 0 {
		t.Errorf("zero cell = %v, %v; want 0, true", v, ok)
	}
}

func TestBuildPivotSkipsMissingDimensions(t *testing.T) {
	t.Parallel()

	rs := &ResultSet{
		Columns: dailyColumns(),
		Rows: []Row{
			cohortRow("NU", "", "2024-01-01", map[string]float64{MeasureBase: 1}),
			cohortRow("NU", "New Users", "", map[string]float64{MeasureBase: 1}),
			cohortRow("NU", "New Users", "2024-01-01", map[string]float64{MeasureBase: 5}),
		},
	}
	p, err := BuildPivot(rs, cohortSpec(MeasureBase, AggSum))
	if err != nil {
		t.Fatalf("BuildPivot() error = %v", err)
	}
	if p.Len() != 1 || p.Rows[0].Cells["2024-01-01"] != 5 {
		t.Errorf("pivot = %+v, want one row with 5", p.Rows)
	}
}

func TestBuildPivotEngagedBaseFilter(t *testing.T) {
	t.Parallel()

	rs := &ResultSet{
		Columns: append(dailyColumns(), VUPct.Name),
		Rows: []Row{
			cohortRow("NU", "New Users", "2024-01-01", map[string]float64{MeasureBase: 10, VUPct.Name: 50}),
			cohortRow("Unassigned", "Unassigned", "2024-01-01", map[string]float64{MeasureBase: 10, VUPct.Name: 20}),
			cohortRow("RU_last30_Days", "RU1-5", "2024-01-01", map[string]float64{MeasureBase: 0}),
			cohortRow("RU_last30_Days", "RU6-10", "2024-01-01", map[string]float64{MeasureBase: 10, VUPct.Name: 30}),
		},
	}
	spec := cohortSpec(VUPct.Name, AggSum)
	spec.Filter = EngagedBaseFilter()

	p, err := BuildPivot(rs, spec)
	if err != nil {
		t.Fatalf("BuildPivot() error = %v", err)
	}
	if p.Len() != 1 {
		t.Fatalf("rows = %d, want 1: %+v", p.Len(), p.Rows)
	}
	if got := p.Rows[0].Key; !slices.Equal(got, Key{"RU_last30_Days", "RU6-10"}) {
		t.Errorf("key = %v", got)
	}
}

func TestBuildPivotHourColumnsAndPrecision(t *testing.T) {
	t.Parallel()

	hourRow := func(hour string, v float64) Row {
		return row(map[string]string{DimCategory: "NU", DimCohort: "New Users", DimHour: hour},
			map[string]float64{MeasurePctDiscOrders: v})
	}
	rs := &ResultSet{
		Columns: []string{DimCategory, DimCohort, DimHour, MeasurePctDiscOrders},
		Rows:    []Row{hourRow("10", 0.12346), hourRow("9", 0.5), hourRow("23", 0.25), hourRow("9", 0.25)},
	}
	p, err := BuildPivot(rs, PivotSpec{
		Rows:      []string{DimCategory, DimCohort},
		Column:    DimHour,
		Measure:   MeasurePctDiscOrders,
		Agg:       AggMean,
		Precision: 4,
	})
	if err != nil {
		t.Fatalf("BuildPivot() error = %v", err)
	}
	if want := []string{"9", "10", "23"}; !slices.Equal(p.Columns, want) {
		t.Errorf("Columns = %v, want %v", p.Columns, want)
	}
	if got := p.Rows[0].Cells["10"]; got != 0.1235 {
		t.Errorf("hour 10 = %v, want 0.1235", got)
	}
	if got := p.Rows[0].Cells["9"]; got != 0.375 {
		t.Errorf("hour 9 = %v, want 0.375", got)
	}
}

func TestBuildPivotErrors(t *testing.T) {
	t.Parallel()

	rs := &ResultSet{Columns: dailyColumns()}

	if _, err := BuildPivot(rs, cohortSpec("menu_sessions", AggSum)); !IsMissingColumn(err) {
		t.Errorf("missing measure error = %v", err)
	}
	spec := cohortSpec(MeasureBase, AggSum)
	spec.Rows = []string{DimCity}
	if _, err := BuildPivot(rs, spec); !IsMissingColumn(err) {
		t.Errorf("missing dimension error = %v", err)
	}
	if _, err := BuildPivot(rs, cohortSpec(MeasureBase, "median")); err == nil {
		t.Error("unsupported aggregation should fail")
	}
}
