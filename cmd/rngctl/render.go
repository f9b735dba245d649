// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/tomtom215/rngdash/internal/engagement"
)

const emptyCell = "-"

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// renderReport prints every section of a comparison view.
func renderReport(w io.Writer, r *engagement.Report) error {
	fmt.Fprintf(w, "%s (%s vs %s)\n", r.Title, r.Selected, r.Compare)
	if r.Status != engagement.StatusOK {
		fmt.Fprintf(w, "\n%s\n", r.Message)
		return nil
	}

	for _, s := range r.Sections {
		fmt.Fprintf(w, "\n== %s ==\n", s.Label)
		for _, n := range s.Notices {
			fmt.Fprintf(w, "note: %s\n", n)
		}
		if s.Error != "" {
			fmt.Fprintf(w, "skipped: %s\n", s.Error)
			continue
		}
		if s.SelectedTable != nil {
			fmt.Fprintf(w, "-- %s --\n", r.Selected)
			if err := renderTable(w, s.SelectedTable); err != nil {
				return err
			}
		}
		if s.CompareTable != nil {
			fmt.Fprintf(w, "-- %s --\n", r.Compare)
			if err := renderTable(w, s.CompareTable); err != nil {
				return err
			}
		}
		if s.Table != nil {
			if s.Grid != nil {
				fmt.Fprintln(w, "-- change --")
			}
			if err := renderTable(w, s.Table); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderTable prints a formatted table with its dimension columns first.
func renderTable(w io.Writer, t *engagement.FormattedTable) error {
	tw := newTabWriter(w)
	header := make([]string, 0, len(t.Dims)+len(t.Header))
	for _, d := range t.Dims {
		header = append(header, strings.ToUpper(d))
	}
	header = append(header, t.Header...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range t.Rows {
		cols := make([]string, 0, len(header))
		cols = append(cols, row.Key...)
		for _, c := range row.Cells {
			text := c.Text
			if text == "" {
				text = emptyCell
			}
			cols = append(cols, text)
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	return tw.Flush()
}

// renderWeekly prints one table per metric with a row per series.
func renderWeekly(w io.Writer, r *engagement.WeeklyReport) error {
	fmt.Fprintf(w, "Weekly trend ending %s\n", r.Selected)
	if r.Status != engagement.StatusOK {
		fmt.Fprintf(w, "\n%s\n", r.Message)
		return nil
	}

	for _, m := range r.Metrics {
		fmt.Fprintf(w, "\n== %s ==\n", m.Label)
		if m.Error != "" {
			fmt.Fprintf(w, "skipped: %s\n", m.Error)
			continue
		}
		format := engagement.FormatFor(m.Metric).Value

		tw := newTabWriter(w)
		fmt.Fprintln(tw, "SERIES\t"+strings.Join(m.Dates, "\t"))
		for _, s := range m.Series {
			cols := make([]string, 0, len(s.Values)+1)
			cols = append(cols, s.Name)
			for _, v := range s.Values {
				if v == nil {
					cols = append(cols, emptyCell)
					continue
				}
				cols = append(cols, format.Format(*v))
			}
			fmt.Fprintln(tw, strings.Join(cols, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// renderResultSet prints raw rows in warehouse column order.
func renderResultSet(w io.Writer, rs *engagement.ResultSet) error {
	if rs.Len() == 0 {
		fmt.Fprintln(w, engagement.MsgNoData)
		return nil
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(rs.Columns, "\t")))
	for _, row := range rs.Rows {
		cols := make([]string, len(rs.Columns))
		for i, c := range rs.Columns {
			switch {
			case row.Dims[c] != "":
				cols[i] = row.Dims[c]
			default:
				if v, ok := row.Measure(c); ok {
					cols[i] = strconv.FormatFloat(v, 'f', -1, 64)
				} else {
					cols[i] = emptyCell
				}
			}
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	return tw.Flush()
}
