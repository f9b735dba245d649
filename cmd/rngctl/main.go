// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

// Command rngctl renders dashboard views in the terminal and checks
// configuration without starting the API server.
//
//	rngctl report --view dod --date 2024-01-08 --compare 2024-01-01
//	rngctl report --view weekly --date 2024-01-10
//	rngctl chart --date 2024-01-10 --metric vu_pct -o vu_pct.svg
//	rngctl sample RNG_DAILY --date 2024-01-08
//	rngctl config test --config config.yaml
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/rngdash/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "rngctl",
		Short:         "RnG engagement dashboard CLI",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.Config{
				Level:     flags.logLevel,
				Format:    "console",
				Timestamp: true,
				Output:    cmd.ErrOrStderr(),
			})
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path (default: CONFIG_PATH or ./config.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level: debug|info|warn|error")

	root.AddCommand(newReportCommand(flags))
	root.AddCommand(newChartCommand(flags))
	root.AddCommand(newSampleCommand(flags))
	root.AddCommand(newConfigCommand(flags))
	return root
}

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
