// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package engagement

import (
	"context"
	"testing"
)

func TestNewWeekWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		selected   string
		monday     string
		prevMonday string
		prevEnd    string
	}{
		{"2024-01-10", "2024-01-08", "2024-01-01", "2024-01-03"}, // Wednesday
		{"2024-01-08", "2024-01-08", "2024-01-01", "2024-01-01"}, // Monday
		{"2024-01-14", "2024-01-08", "2024-01-01", "2024-01-07"}, // Sunday
	}
	for _, tt := range tests {
		t.Run(tt.selected, func(t *testing.T) {
			t.Parallel()

			w := NewWeekWindow(day(tt.selected))
			got := []string{w.Monday.Format(DateLayout), w.PrevMonday.Format(DateLayout), w.PrevEnd.Format(DateLayout)}
			want := []string{tt.monday, tt.prevMonday, tt.prevEnd}
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("window = %v, want %v", got, want)
					break
				}
			}
			if r := w.Ranges(); len(r) != 2 || !r[0].To.Equal(day(tt.selected)) {
				t.Errorf("Ranges() = %+v", r)
			}
		})
	}
}

func TestPipelineWeekly(t *testing.T) {
	t.Parallel()

	m := func(base, visitors, tu, orders float64) map[string]float64 {
		return map[string]float64{MeasureBase: base, MeasureVisitors: visitors, MeasureTransactingUsers: tu, MeasureOrdersOnDate: orders}
	}
	loader := &fakeLoader{rs: &ResultSet{
		Columns: dailyColumns(),
		Rows: []Row{
			cohortRow("RU_last30_Days", "RU1-5", "2024-01-01", m(100, 10, 5, 5)),
			cohortRow("RU_last30_Days", "RU6-10", "2024-01-01", m(100, 30, 5, 5)),
			cohortRow("Unassigned", "Unassigned", "2024-01-01", m(999, 1, 1, 1)),
			cohortRow("NU", "New Users", "2024-01-08", m(50, 10, 2, 2)),
			cohortRow("RU_last30_Days", "RU1-5", "2024-01-08", m(200, 50, 10, 20)),
			cohortRow("DU_45+_Days", "RU10+", "2024-01-10", m(70, 7, 1, 1)),
			cohortRow("RU_last30_Days", "RU1-5", "2024-01-10", m(200, 20, 10, 10)),
		},
	}}
	p := NewPipeline(loader, testTables, 200)

	report, err := p.Weekly(context.Background(), day("2024-01-10"))
	if err != nil {
		t.Fatalf("Weekly() error = %v", err)
	}
	if report.Status != StatusOK {
		t.Fatalf("Status = %q (%s)", report.Status, report.Message)
	}

	q := loader.queries[0]
	if len(q.Ranges) != 2 || q.Table != "RNG_DAILY" || len(q.OrderBy) != 3 {
		t.Errorf("query = %+v", q)
	}

	base, ok := report.Metric(MeasureBase)
	if !ok {
		t.Fatal("base metric missing")
	}
	if len(base.Dates) != 10 || base.Dates[0] != "2024-01-01" || base.Dates[9] != "2024-01-10" {
		t.Fatalf("Dates = %v", base.Dates)
	}

	series := make(map[string]Series)
	for _, s := range base.Series {
		series[s.Name] = s
	}
	if _, ok := series["Unassigned (Previous)"]; ok {
		t.Error("Unassigned should be excluded")
	}
	cur, ok := series["RU (Current)"]
	if !ok {
		t.Fatalf("series = %v", base.Series)
	}
	if v := cur.Values[7]; v == nil || *v != 200 {
		t.Errorf("RU current 2024-01-08 = %v, want 200", v)
	}
	if cur.Values[8] != nil {
		t.Error("RU current 2024-01-09 should be a gap")
	}
	if cur.Values[0] != nil {
		t.Error("current series should not cover the previous week")
	}
	prev := series["RU (Previous)"]
	if v := prev.Values[0]; v == nil || *v != 200 {
		t.Errorf("RU previous 2024-01-01 = %v, want 200 (summed cohorts)", v)
	}
	if _, ok := series["LTDU (Current)"]; !ok {
		t.Error("DU_45+_Days should be renamed LTDU")
	}

	// vu_pct is recomputed from summed visitors and base, NU excluded.
	vu, _ := report.Metric(VUPct.Name)
	for _, s := range vu.Series {
		if s.Category == "NU" {
			t.Error("NU should be excluded from vu_pct")
		}
		if s.Name == "RU (Previous)" {
			if v := s.Values[0]; v == nil || *v != 20 {
				t.Errorf("RU previous vu_pct = %v, want 20", v)
			}
		}
	}
}

func TestPipelineWeeklyEmpty(t *testing.T) {
	t.Parallel()

	p := NewPipeline(&fakeLoader{}, testTables, 200)
	report, err := p.Weekly(context.Background(), day("2024-01-10"))
	if err != nil {
		t.Fatalf("Weekly() error = %v", err)
	}
	if report.Status != StatusEmpty || report.Message != MsgNoWeeklyData {
		t.Errorf("report = %+v", report)
	}
}
