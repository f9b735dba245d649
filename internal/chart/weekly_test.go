// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package chart

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-analyze/charts"

	"github.com/tomtom215/rngdash/internal/engagement"
)

func ptr(v float64) *float64 { return &v }

func TestWeeklySVG(t *testing.T) {
	t.Parallel()

	m := engagement.WeeklyMetric{
		Metric: engagement.MeasureBase,
		Label:  "Total Base",
		Dates:  []string{"2024-01-01", "2024-01-02", "2024-01-08", "2024-01-09"},
		Series: []engagement.Series{
			{Name: "RU (Previous)", Category: "RU", Period: engagement.PeriodPrevious, Values: []*float64{ptr(200), ptr(210), nil, nil}},
			{Name: "RU (Current)", Category: "RU", Period: engagement.PeriodCurrent, Values: []*float64{nil, nil, ptr(220), ptr(230)}},
		},
	}

	svg, err := WeeklySVG(m, Options{})
	if err != nil {
		t.Fatalf("WeeklySVG() error = %v", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(svg), []byte("<svg")) {
		t.Errorf("output is not SVG: %.40q", svg)
	}
	for _, want := range []string{"Total Base", "RU (Current)", "2024-01-08"} {
		if !bytes.Contains(svg, []byte(want)) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestWeeklySVGNoSeries(t *testing.T) {
	t.Parallel()

	_, err := WeeklySVG(engagement.WeeklyMetric{Metric: "base", Dates: []string{"2024-01-01"}}, Options{})
	if !errors.Is(err, ErrNoSeries) {
		t.Errorf("error = %v, want ErrNoSeries", err)
	}
}

func TestSeriesValuesGaps(t *testing.T) {
	t.Parallel()

	got := seriesValues(engagement.Series{Values: []*float64{ptr(1), nil}}, 3)
	if got[0] != 1 || got[1] != charts.GetNullValue() || got[2] != charts.GetNullValue() {
		t.Errorf("seriesValues() = %v", got)
	}
}
