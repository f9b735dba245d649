// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/rngdash/internal/engagement"
	"github.com/tomtom215/rngdash/internal/logging"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
)

func newReportCommand(flags *globalFlags) *cobra.Command {
	var (
		view   string
		dates  dateFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a dashboard view",
		Long: `Render one dashboard view for a date pair.

Views: dod, city, hourly-dpo, weekly. The weekly view ignores --compare.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatJSON {
				return fmt.Errorf("invalid --format %q: want text or json", format)
			}
			selected, compare, err := dates.resolve(time.Now().UTC())
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer func() {
				if err := s.Close(); err != nil {
					logging.Warn().Err(err).Msg("Error closing warehouse")
				}
			}()

			out := cmd.OutOrStdout()
			if view == engagement.ViewWeekly {
				report, err := s.pipeline.Weekly(cmd.Context(), selected)
				if err != nil {
					return err
				}
				if format == formatJSON {
					return writeJSON(out, report)
				}
				return renderWeekly(out, report)
			}

			report, err := s.pipeline.Compare(cmd.Context(), view, selected, compare)
			if err != nil {
				return err
			}
			if format == formatJSON {
				return writeJSON(out, report)
			}
			return renderReport(out, report)
		},
	}

	cmd.Flags().StringVar(&view, "view", engagement.ViewDoD, "view: dod|city|hourly-dpo|weekly")
	cmd.Flags().StringVar(&dates.date, "date", "", "selected date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&dates.compare, "compare", "", "compare date YYYY-MM-DD (default date minus 7 days)")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text|json")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
