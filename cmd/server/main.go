// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/rngdash/internal/api"
	"github.com/tomtom215/rngdash/internal/config"
	"github.com/tomtom215/rngdash/internal/engagement"
	"github.com/tomtom215/rngdash/internal/logging"
	"github.com/tomtom215/rngdash/internal/metrics"
	"github.com/tomtom215/rngdash/internal/supervisor"
	"github.com/tomtom215/rngdash/internal/supervisor/services"
	"github.com/tomtom215/rngdash/internal/warehouse"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run starts the server and blocks until shutdown. Errors are logged before
// the log file is closed.
func run() (retErr error) {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	logging.Init(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Caller:     cfg.Logging.Caller,
		Timestamp:  true,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
		Output:     os.Stderr,
	})
	defer func() {
		if err := logging.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
		}
	}()
	defer func() {
		if retErr != nil {
			logging.Err(retErr).Msg("Server exited with error")
		}
	}()

	logging.Info().
		Str("version", version).
		Str("driver", cfg.Warehouse.Driver).
		Strs("tables", cfg.Warehouse.Tables.All()).
		Bool("cache", cfg.Cache.Enabled).
		Msg("Starting RnG dashboard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// An unreachable warehouse or bad credentials stop startup here.
	wh, err := warehouse.Open(ctx, cfg.Warehouse, cfg.Cache)
	if err != nil {
		return fmt.Errorf("open warehouse: %w", err)
	}
	defer func() {
		if err := wh.Close(); err != nil {
			logging.Err(err).Msg("Error closing warehouse")
		}
	}()
	metrics.SetAppInfo(version, wh.Driver())
	metrics.SetWarehouseUp(true)

	pipeline := engagement.NewPipeline(wh, engagement.Tables{
		Daily:     cfg.Warehouse.Tables.Daily,
		City:      cfg.Warehouse.Tables.City,
		HourlyDPO: cfg.Warehouse.Tables.HourlyDPO,
	}, cfg.Warehouse.SampleLimit)

	router := api.NewRouter(api.NewHandler(pipeline, wh), api.ChiMiddlewareConfigFrom(cfg.Security))
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddDataService(services.NewWarehouseHealthService(wh, cfg.Warehouse.HealthInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// The tree only stops on its own when a service asks it to terminate.
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if errors.Is(treeErr, context.Canceled) {
		treeErr = nil
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if treeErr != nil {
		return fmt.Errorf("supervisor: %w", treeErr)
	}
	logging.Info().Msg("Dashboard stopped gracefully")
	return nil
}
