// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tomtom215/rngdash/internal/chart"
	"github.com/tomtom215/rngdash/internal/engagement"
	"github.com/tomtom215/rngdash/internal/logging"
)

func newChartCommand(flags *globalFlags) *cobra.Command {
	var (
		dates  dateFlags
		metric string
		output string
		opts   chart.Options
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Write the weekly trend chart of one metric as SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !engagement.IsKnownMetric(metric) {
				return fmt.Errorf("unknown metric %q", metric)
			}
			selected, _, err := dates.resolve(time.Now().UTC())
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

			report, err := s.pipeline.Weekly(cmd.Context(), selected)
			if err != nil {
				return err
			}
			if report.Status != engagement.StatusOK {
				return fmt.Errorf("no chart for %s: %s", report.Selected, report.Message)
			}
			m, ok := report.Metric(metric)
			if !ok {
				return fmt.Errorf("metric %q is not part of the weekly view", metric)
			}
			if m.Error != "" {
				return fmt.Errorf("metric %q: %s", metric, m.Error)
			}

			svg, err := chart.WeeklySVG(m, opts)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(svg)
				return err
			}
			if err := os.WriteFile(output, svg, 0o644); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", output, humanize.Bytes(uint64(len(svg))))
			return nil
		},
	}

	cmd.Flags().StringVar(&dates.date, "date", "", "selected date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&metric, "metric", "", "metric to chart, e.g. vu_pct")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "chart width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "chart height in pixels")
	_ = cmd.MarkFlagRequired("metric")
	return cmd
}
