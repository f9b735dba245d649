// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/rngdash/internal/validation"
)

// DefaultCompareOffset is how far before the selected date the compare date
// falls when none is given.
const DefaultCompareOffset = 7 * 24 * time.Hour

// ViewRequest holds the query parameters of the comparison views.
//
// Fields:
//   - Date: selected date (YYYY-MM-DD, default today)
//   - Compare: compare date (YYYY-MM-DD, default Date minus 7 days)
type ViewRequest struct {
	Date    string `validate:"omitempty,isodate"`
	Compare string `validate:"omitempty,isodate"`
}

// ChartRequest holds the query parameters of the weekly chart image.
type ChartRequest struct {
	Date   string `validate:"omitempty,isodate"`
	Metric string `validate:"required,metricname"`
}

// SampleRequest holds the query parameters of a raw table sample.
type SampleRequest struct {
	Date string `validate:"omitempty,isodate"`
}

// dateWindow is a validated selected/compare date pair.
type dateWindow struct {
	Selected time.Time
	Compare  time.Time
}

// parseViewRequest reads and validates date and compare. It writes the
// error response itself and reports false when the request is rejected.
func (h *Handler) parseViewRequest(rw *ResponseWriter, r *http.Request) (dateWindow, bool) {
	req := ViewRequest{
		Date:    r.URL.Query().Get("date"),
		Compare: r.URL.Query().Get("compare"),
	}
	if !validateRequest(rw, &req) {
		return dateWindow{}, false
	}

	win := dateWindow{Selected: h.parseDateOr(req.Date, h.today())}
	win.Compare = h.parseDateOr(req.Compare, win.Selected.Add(-DefaultCompareOffset))
	if win.Compare.After(win.Selected) {
		rw.BadRequest("compare date must not be after the selected date")
		return dateWindow{}, false
	}
	return win, true
}

// parseDateOr parses an already validated date, returning fallback when s
// is empty.
func (h *Handler) parseDateOr(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	t, err := time.Parse(validation.DateLayout, s)
	if err != nil {
		return fallback
	}
	return t
}

// validateRequest runs the struct validator and writes a 400 response on
// failure.
func validateRequest(rw *ResponseWriter, req interface{}) bool {
	verr := validation.ValidateStruct(req)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	rw.ValidationError(apiErr.Message, apiErr.Details)
	return false
}
