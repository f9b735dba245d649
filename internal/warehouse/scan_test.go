// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package warehouse

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/rngdash/internal/config"
	"github.com/tomtom215/rngdash/internal/engagement"
)

func TestAssignNormalisesDates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    any
		want string
	}{
		{"time value", time.Date(2024, 1, 1, 13, 45, 0, 0, time.UTC), "2024-01-01"},
		{"plain date text", "2024-01-01", "2024-01-01"},
		{"timestamp text", "2024-01-01 00:00:00", "2024-01-01"},
		{"timestamp millis bytes", []byte("2024-01-01 00:00:00.000"), "2024-01-01"},
		{"rfc3339", "2024-01-01T00:00:00Z", "2024-01-01"},
		{"iso without zone", "2024-01-01T08:30:00", "2024-01-01"},
		{"padded", " 2024-01-01 ", "2024-01-01"},
		{"unknown shape kept", "Jan 1st", "Jan 1st"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			row := engagement.Row{Dims: map[string]string{}, Measures: map[string]float64{}}
			assign(&row, engagement.DimDate, tt.v)
			if got := row.Dim(engagement.DimDate); got != tt.want {
				t.Errorf("start_date = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssignLeavesOtherTextDims(t *testing.T) {
	t.Parallel()

	row := engagement.Row{Dims: map[string]string{}, Measures: map[string]float64{}}
	assign(&row, engagement.DimCohort, "2024-01-01 00:00:00")
	if got := row.Dim(engagement.DimCohort); got != "2024-01-01 00:00:00" {
		t.Errorf("cohorts = %q, want the raw text", got)
	}
}

// TestWarehouseLoadTextDates loads start_date from a VARCHAR column holding
// timestamps and checks the rows still match date filters and labels.
func TestWarehouseLoadTextDates(t *testing.T) {
	t.Parallel()

	w, err := Open(context.Background(), testConfig(), config.CacheConfig{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	for _, s := range []string{
		`CREATE TABLE rng_text (START_DATE VARCHAR, CATEGORY VARCHAR, BASE BIGINT)`,
		`INSERT INTO rng_text VALUES
			('2024-01-01 00:00:00', 'NU', 900),
			('2024-01-08T00:00:00Z', 'NU', 1000)`,
	} {
		if _, err := w.db.ExecContext(context.Background(), s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rs, err := w.Load(context.Background(), engagement.Query{Table: "rng_text"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := map[string]float64{}
	for _, row := range rs.Rows {
		v, _ := row.Measure(engagement.MeasureBase)
		got[row.Dim(engagement.DimDate)] = v
	}
	if got["2024-01-01"] != 900 || got["2024-01-08"] != 1000 {
		t.Errorf("rows by date = %v, want 2024-01-01=900 and 2024-01-08=1000", got)
	}
}
