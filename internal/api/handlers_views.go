// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/rngdash/internal/chart"
	"github.com/tomtom215/rngdash/internal/engagement"
	"github.com/tomtom215/rngdash/internal/logging"
	"github.com/tomtom215/rngdash/internal/metrics"
)

// statusFailed labels view renders that ended in an error response.
const statusFailed = "failed"

// CompareView returns a handler for one comparison view (dod, city or
// hourly-dpo).
//
// Query parameters: date (default today), compare (default date - 7 days).
// A failing source query yields status "empty" with a message; only an
// unreachable warehouse is an error response.
func (h *Handler) CompareView(view string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rw := NewResponseWriter(w, r)
		win, ok := h.parseViewRequest(rw, r)
		if !ok {
			return
		}

		start := time.Now()
		report, err := h.reporter.Compare(r.Context(), view, win.Selected, win.Compare)
		if err != nil {
			metrics.RecordView(view, statusFailed, time.Since(start), nil)
			writeLoadError(rw, err)
			return
		}
		metrics.RecordView(view, report.Status, time.Since(start), failedSections(report))

		logging.Ctx(r.Context()).Debug().
			Str("view", view).
			Str("selected", report.Selected).
			Str("compare", report.Compare).
			Str("status", report.Status).
			Msg("View served")
		rw.Success(report)
	}
}

// WeeklyView serves the weekly trend series ending on date.
func (h *Handler) WeeklyView(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req := ViewRequest{Date: r.URL.Query().Get("date")}
	if !validateRequest(rw, &req) {
		return
	}
	selected := h.parseDateOr(req.Date, h.today())

	report, ok := h.weekly(rw, r, selected)
	if !ok {
		return
	}
	rw.Success(report)
}

// WeeklyChart renders one metric of the weekly view as an SVG line chart.
func (h *Handler) WeeklyChart(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req := ChartRequest{
		Date:   r.URL.Query().Get("date"),
		Metric: r.URL.Query().Get("metric"),
	}
	if !validateRequest(rw, &req) {
		return
	}
	selected := h.parseDateOr(req.Date, h.today())

	report, ok := h.weekly(rw, r, selected)
	if !ok {
		return
	}
	if report.Status != engagement.StatusOK {
		rw.NotFound(report.Message)
		return
	}
	m, found := report.Metric(req.Metric)
	if !found {
		rw.NotFound("unknown weekly metric: " + req.Metric)
		return
	}
	if m.Error != "" {
		rw.NotFound(m.Error)
		return
	}

	svg, err := chart.WeeklySVG(m, chart.Options{})
	if errors.Is(err, chart.ErrNoSeries) {
		rw.NotFound("no chart data for " + m.Label)
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("metric", m.Metric).Msg("Chart render failed")
		rw.InternalError(msgInternal)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(svg); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write chart")
	}
}

func (h *Handler) weekly(rw *ResponseWriter, r *http.Request, selected time.Time) (*engagement.WeeklyReport, bool) {
	start := time.Now()
	report, err := h.reporter.Weekly(r.Context(), selected)
	if err != nil {
		metrics.RecordView(engagement.ViewWeekly, statusFailed, time.Since(start), nil)
		writeLoadError(rw, err)
		return nil, false
	}

	var failed []string
	for _, m := range report.Metrics {
		if m.Error != "" {
			failed = append(failed, m.Metric)
		}
	}
	metrics.RecordView(engagement.ViewWeekly, report.Status, time.Since(start), failed)
	return report, true
}

// failedSections lists the metrics of a report that could not be computed.
func failedSections(report *engagement.Report) []string {
	var failed []string
	for _, s := range report.Sections {
		if s.Error != "" {
			failed = append(failed, s.Metric)
		}
	}
	return failed
}
