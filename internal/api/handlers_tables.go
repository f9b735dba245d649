// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/rngdash/internal/engagement"
	"github.com/tomtom215/rngdash/internal/logging"
	"github.com/tomtom215/rngdash/internal/warehouse"
)

// TablesResponse lists the configured view tables and, when the warehouse
// can list them, every table visible to the session.
type TablesResponse struct {
	Configured []string `json:"configured"`
	Available  []string `json:"available,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// SampleResponse is a raw table preview.
type SampleResponse struct {
	Table   string           `json:"table"`
	Date    string           `json:"date,omitempty"`
	Status  string           `json:"status"`
	Message string           `json:"message,omitempty"`
	Columns []string         `json:"columns,omitempty"`
	Rows    []engagement.Row `json:"rows"`
}

// Tables lists source tables.
func (h *Handler) Tables(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	resp := TablesResponse{Configured: h.reporter.Tables()}

	if h.warehouse != nil {
		names, err := h.warehouse.ListTables(r.Context())
		switch {
		case warehouse.IsConnectivity(err):
			writeLoadError(rw, err)
			return
		case err != nil:
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Table listing failed")
			resp.Error = err.Error()
		default:
			resp.Available = names
		}
	}
	rw.Success(resp)
}

// TableSample returns up to the configured sample size of raw rows of one
// configured table, optionally for a single date.
func (h *Handler) TableSample(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req := SampleRequest{Date: r.URL.Query().Get("date")}
	if !validateRequest(rw, &req) {
		return
	}

	table := chi.URLParam(r, "name")
	var date *time.Time
	if req.Date != "" {
		d := h.parseDateOr(req.Date, time.Time{})
		date = &d
	}

	resp := SampleResponse{Table: table, Date: req.Date, Status: engagement.StatusOK, Rows: []engagement.Row{}}
	rs, err := h.reporter.Sample(r.Context(), table, date)
	switch {
	case err == nil:
		resp.Columns = rs.Columns
		resp.Rows = rs.Rows
		if rs.Len() == 0 {
			resp.Status = engagement.StatusEmpty
			resp.Message = engagement.MsgNoData
		}
	case warehouse.IsConnectivity(err), isUnknownTable(err):
		writeLoadError(rw, err)
		return
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("table", table).Msg("Table sample failed")
		resp.Status = engagement.StatusEmpty
		resp.Message = err.Error()
	}
	rw.Success(resp)
}
