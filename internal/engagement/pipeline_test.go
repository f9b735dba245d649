// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package engagement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeLoader struct {
	mu      sync.Mutex
	rs      *ResultSet
	err     error
	queries []Query
}

func (f *fakeLoader) Load(_ context.Context, q Query) (*ResultSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	if f.rs == nil {
		return &ResultSet{}, nil
	}
	return f.rs, nil
}

type fatalErr struct{}

func (fatalErr) Error() string { return "warehouse unreachable" }
func (fatalErr) Fatal() bool   { return true }

var testTables = Tables{Daily: "RNG_DAILY", City: "RNG_CITY_DAILY", HourlyDPO: "RNG_HOURLY_DPO"}

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func findSection(t *testing.T, r *Report, metric string) Section {
	t.Helper()
	for _, s := range r.Sections {
		if s.Metric == metric {
			return s
		}
	}
	t.Fatalf("section %q not found", metric)
	return Section{}
}

func TestPipelineCompareNewUsersEndToEnd(t *testing.T) {
	t.Parallel()

	measures := func(base float64) map[string]float64 {
		return map[string]float64{MeasureBase: base, MeasureVisitors: 0, MeasureTransactingUsers: 0, MeasureOrdersOnDate: 0}
	}
	loader := &fakeLoader{rs: &ResultSet{
		Columns: dailyColumns(),
		Rows: []Row{
			cohortRow("NU", "New Users", "2024-01-01", measures(1000)),
			cohortRow("NU", "New Users", "2023-12-25", measures(900)),
		},
	}}
	p := NewPipeline(loader, testTables, 200)

	report, err := p.Compare(context.Background(), ViewDoD, day("2024-01-01"), day("2023-12-25"))
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if report.Status != StatusOK {
		t.Fatalf("Status = %q, message %q", report.Status, report.Message)
	}

	base := findSection(t, report, MeasureBase)
	if base.Label != "Total Base" {
		t.Errorf("Label = %q", base.Label)
	}
	if got := base.Pivot.Columns; len(got) != 2 || got[0] != "2023-12-25" || got[1] != "2024-01-01" {
		t.Errorf("pivot columns = %v", got)
	}
	if v, _ := base.Pivot.Value(Key{"NU", "New Users"}, "2024-01-01"); v != 1000 {
		t.Errorf("selected cell = %v, want 1000", v)
	}
	if v, _ := base.Pivot.Value(Key{"NU", "New Users"}, "2023-12-25"); v != 900 {
		t.Errorf("compare cell = %v, want 900", v)
	}
	if base.Delta == nil || len(base.Delta.Rows) != 1 {
		t.Fatalf("delta = %+v", base.Delta)
	}
	d := base.Delta.Rows[0]
	if d.Abs != 100 || d.Change != 11.1 {
		t.Errorf("delta = abs %v change %v, want 100 / 11.1", d.Abs, d.Change)
	}
	if base.Table.Rows[0].Cells[0].Text != "+11.1%" {
		t.Errorf("change text = %q", base.Table.Rows[0].Cells[0].Text)
	}

	// Zero on both dates drops the row.
	if visitors := findSection(t, report, MeasureVisitors); len(visitors.Delta.Rows) != 0 {
		t.Errorf("visitors delta rows = %d, want 0", len(visitors.Delta.Rows))
	}
	// NU is excluded from vu_pct, leaving nothing to compare.
	vu := findSection(t, report, VUPct.Name)
	if vu.Delta != nil {
		t.Errorf("vu_pct delta = %+v, want none", vu.Delta)
	}
	if want := "VU % filter excludes every row for selected date: 2024-01-01"; len(vu.Notices) != 1 || vu.Notices[0] != want {
		t.Errorf("vu_pct notices = %v, want [%s]", vu.Notices, want)
	}

	q := loader.queries[0]
	if q.Table != "RNG_DAILY" || len(q.Dates) != 2 {
		t.Errorf("query = %+v", q)
	}
}

func TestPipelineCompareMissingColumn(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{rs: &ResultSet{
		Columns: []string{DimDate, DimCategory, DimCohort, MeasureBase},
		Rows:    []Row{cohortRow("NU", "New Users", "2024-01-01", map[string]float64{MeasureBase: 1})},
	}}
	p := NewPipeline(loader, testTables, 200)

	report, err := p.Compare(context.Background(), ViewDoD, day("2024-01-01"), day("2024-01-01"))
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if s := findSection(t, report, MeasureVisitors); !strings.Contains(s.Error, "visitors") {
		t.Errorf("visitors section error = %q", s.Error)
	}
	base := findSection(t, report, MeasureBase)
	if base.Error != "" || base.Delta != nil || base.Table == nil {
		t.Errorf("same-date base section = %+v, want pivot only", base)
	}
	if len(loader.queries[0].Dates) != 1 {
		t.Errorf("same dates should be queried once: %+v", loader.queries[0].Dates)
	}
}

func TestPipelineCompareErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		loader      *fakeLoader
		wantErr     bool
		wantMessage string
	}{
		{
			name:        "no rows",
			loader:      &fakeLoader{},
			wantMessage: MsgNoData,
		},
		{
			name:        "query failure renders empty view",
			loader:      &fakeLoader{err: errors.New("query timed out")},
			wantMessage: "query timed out",
		},
		{
			name:    "fatal failure aborts",
			loader:  &fakeLoader{err: fmt.Errorf("load: %w", fatalErr{})},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewPipeline(tt.loader, testTables, 200)
			report, err := p.Compare(context.Background(), ViewCity, day("2024-01-08"), day("2024-01-01"))
			if tt.wantErr {
				if err == nil || !IsFatal(err) {
					t.Fatalf("Compare() error = %v, want fatal", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compare() error = %v", err)
			}
			if report.Status != StatusEmpty || report.Message != tt.wantMessage {
				t.Errorf("report = %q / %q, want empty / %q", report.Status, report.Message, tt.wantMessage)
			}
		})
	}

	p := NewPipeline(&fakeLoader{}, testTables, 200)
	if _, err := p.Compare(context.Background(), "nope", day("2024-01-01"), day("2024-01-01")); err == nil {
		t.Error("unknown view should fail")
	}
}

func TestPipelineCityOrdering(t *testing.T) {
	t.Parallel()

	cityRow := func(city, cat, date string, base, visitors float64) Row {
		return row(map[string]string{DimCity: city, DimCategory: cat, DimCohort: "x", DimDate: date},
			map[string]float64{MeasureBase: base, MeasureVisitors: visitors, MeasureTransactingUsers: 1, MeasureOrdersOnDate: 1})
	}
	loader := &fakeLoader{rs: &ResultSet{
		Columns: append(dailyColumns(), DimCity),
		Rows: []Row{
			cityRow("Goa", "RU_last30_Days", "2024-01-08", 10, 5),
			cityRow("Delhi", "RU_last30_Days", "2024-01-08", 100, 20),
			cityRow("Delhi", "DU_45+_Days", "2024-01-08", 100, 40),
			cityRow("Goa", "RU_last30_Days", "2024-01-01", 10, 1),
			cityRow("Delhi", "RU_last30_Days", "2024-01-01", 100, 10),
		},
	}}
	p := NewPipeline(loader, testTables, 200)

	report, err := p.Compare(context.Background(), ViewCity, day("2024-01-08"), day("2024-01-01"))
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	base := findSection(t, report, MeasureBase)
	if base.Delta.Rows[0].Key[0] != "Delhi" {
		t.Errorf("first city = %v, want Delhi", base.Delta.Rows[0].Key)
	}
	if base.Delta.Rows[0].Selected != 200 {
		t.Errorf("Delhi base = %v, want 200", base.Delta.Rows[0].Selected)
	}
	// vu_pct_city averages the per-row ratios: (20% + 40%) / 2.
	vu := findSection(t, report, "vu_pct_city")
	if got := vu.Delta.Rows[0].Selected; got != 30 {
		t.Errorf("Delhi vu_pct_city = %v, want 30", got)
	}
	if got := vu.Delta.Rows[0].Change; got != 200 {
		t.Errorf("Delhi vu_pct_city change = %v, want 200", got)
	}
}

func TestPipelineHourlyDPO(t *testing.T) {
	t.Parallel()

	hourRow := func(cat, cohort, date, hour string, dpo, pct float64) Row {
		return row(
			map[string]string{DimCategory: cat, DimCohort: cohort, DimDate: date, DimHour: hour},
			map[string]float64{MeasureDPOFreeCash: dpo, MeasureDPOCoupons: dpo, MeasureDPOBoth: dpo, MeasurePctDiscOrders: pct},
		)
	}
	cols := []string{DimDate, DimHour, DimCategory, DimCohort, MeasureDPOFreeCash, MeasureDPOCoupons, MeasureDPOBoth, MeasurePctDiscOrders}

	t.Run("grid delta", func(t *testing.T) {
		t.Parallel()

		loader := &fakeLoader{rs: &ResultSet{Columns: cols, Rows: []Row{
			hourRow("Unassigned", "Unassigned", "2024-01-08", "10", 4, 30),
			hourRow("NU", "New Users", "2024-01-08", "10", 12, 25),
			hourRow("NU", "New Users", "2024-01-01", "10", 10, 20),
			hourRow("NU", "New Users", "2024-01-01", "11", 5, 10),
		}}}
		p := NewPipeline(loader, testTables, 200)

		report, err := p.Compare(context.Background(), ViewHourlyDPO, day("2024-01-08"), day("2024-01-01"))
		if err != nil {
			t.Fatalf("Compare() error = %v", err)
		}
		if got := loader.queries[0].OrderBy; len(got) != 4 || got[1] != DimHour {
			t.Errorf("OrderBy = %v", got)
		}

		fc := findSection(t, report, MeasureDPOFreeCash)
		if fc.Selected == nil || fc.Compare == nil || fc.Grid == nil {
			t.Fatalf("section = %+v", fc)
		}
		if fc.Selected.Rows[0].Key[0] != "NU" {
			t.Errorf("selected pivot not cohort sorted: %v", keysOf(fc.Selected))
		}
		if got := fc.Grid.Columns; len(got) != 2 || got[0] != "10" || got[1] != "11" {
			t.Errorf("grid columns = %v", got)
		}
		nu := fc.Grid.Rows[0]
		if nu.Change["10"] != 20 || nu.Change["11"] != -100 {
			t.Errorf("NU change = %v", nu.Change)
		}

		pct := findSection(t, report, MeasurePctDiscOrders)
		if pct.Grid.Mode != DeltaPoints || pct.Grid.Rows[0].Change["10"] != 5 {
			t.Errorf("pct_disc_orders grid = %+v", pct.Grid)
		}
		if pct.Table.Rows[0].Cells[0].Text != "+5.0pp" {
			t.Errorf("pp text = %q", pct.Table.Rows[0].Cells[0].Text)
		}
	})

	t.Run("missing compare date", func(t *testing.T) {
		t.Parallel()

		loader := &fakeLoader{rs: &ResultSet{Columns: cols, Rows: []Row{
			hourRow("NU", "New Users", "2024-01-08", "10", 12, 25),
		}}}
		p := NewPipeline(loader, testTables, 200)

		report, err := p.Compare(context.Background(), ViewHourlyDPO, day("2024-01-08"), day("2024-01-01"))
		if err != nil {
			t.Fatalf("Compare() error = %v", err)
		}
		fc := findSection(t, report, MeasureDPOFreeCash)
		if fc.Grid != nil || fc.Selected == nil {
			t.Errorf("section = %+v", fc)
		}
		if len(fc.Notices) != 1 || fc.Notices[0] != "No data for compare date: 2024-01-01" {
			t.Errorf("notices = %v", fc.Notices)
		}
	})
}

func TestPipelineSample(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{rs: &ResultSet{
		Columns: dailyColumns(),
		Rows: []Row{
			cohortRow("Unassigned", "Unassigned", "2024-01-01", nil),
			cohortRow("NU", "New Users", "2024-01-01", nil),
		},
	}}
	p := NewPipeline(loader, testTables, 200)

	rs, err := p.Sample(context.Background(), "RNG_DAILY", nil)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if rs.Rows[0].Dim(DimCategory) != "NU" {
		t.Errorf("sample not cohort sorted")
	}
	if q := loader.queries[0]; q.Limit != 200 || len(q.Dates) != 0 {
		t.Errorf("query = %+v", q)
	}

	if _, err := p.Sample(context.Background(), "INFORMATION_SCHEMA.TABLES", nil); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("Sample(unknown) error = %v, want ErrUnknownTable", err)
	}
}
