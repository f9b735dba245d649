// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/rngdash/internal/engagement"
	"github.com/tomtom215/rngdash/internal/logging"
)

func newSampleCommand(flags *globalFlags) *cobra.Command {
	var (
		date   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "sample TABLE",
		Short: "Print sample rows of a configured table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var day *time.Time
			if date != "" {
				d, err := time.Parse(engagement.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
				}
				day = &d
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

			rs, err := s.pipeline.Sample(cmd.Context(), args[0], day)
			if err != nil {
				return err
			}
			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), rs)
			}
			return renderResultSet(cmd.OutOrStdout(), rs)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "only rows for this date YYYY-MM-DD")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text|json")
	return cmd
}
