// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

// Package chart renders weekly trend data as SVG line charts.
package chart

import (
	"errors"
	"fmt"

	"github.com/go-analyze/charts"

	"github.com/tomtom215/rngdash/internal/engagement"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 480
)

// ErrNoSeries is returned when a metric has nothing to plot.
var ErrNoSeries = errors.New("chart: metric has no series")

// Options controls the rendered canvas.
type Options struct {
	Width  int
	Height int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// WeeklySVG renders one weekly metric: a line per category and period over
// the window's dates. Gaps (nil values) are drawn as breaks in the line.
func WeeklySVG(m engagement.WeeklyMetric, opts Options) ([]byte, error) {
	if len(m.Series) == 0 || len(m.Dates) == 0 {
		return nil, ErrNoSeries
	}
	opts = opts.withDefaults()

	data := make([][]float64, len(m.Series))
	names := make([]string, len(m.Series))
	for i, s := range m.Series {
		names[i] = s.Name
		data[i] = seriesValues(s, len(m.Dates))
	}

	opt := charts.NewLineChartOptionWithData(data)
	opt.Title.Text = fmt.Sprintf("%s: current vs previous week", m.Label)
	opt.XAxis.Labels = m.Dates
	opt.Legend.SeriesNames = names

	p := charts.NewPainter(charts.PainterOptions{
		OutputFormat: charts.ChartOutputSVG,
		Width:        opts.Width,
		Height:       opts.Height,
	})
	if err := p.LineChart(opt); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", m.Metric, err)
	}
	return p.Bytes()
}

// seriesValues converts nullable points to chart values.
func seriesValues(s engagement.Series, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i < len(s.Values) && s.Values[i] != nil {
			out[i] = *s.Values[i]
		} else {
			out[i] = charts.GetNullValue()
		}
	}
	return out
}
