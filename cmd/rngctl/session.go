// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/rngdash/internal/config"
	"github.com/tomtom215/rngdash/internal/engagement"
	"github.com/tomtom215/rngdash/internal/warehouse"
)

func loadConfig(flags *globalFlags) (*config.Config, error) {
	if flags.configPath != "" {
		return config.LoadFrom(flags.configPath)
	}
	return config.Load()
}

// session is an open warehouse plus the view pipeline over it.
type session struct {
	warehouse *warehouse.Warehouse
	pipeline  *engagement.Pipeline
}

// openSession connects to the configured warehouse. The result cache is
// disabled since every CLI run is a single pass.
func openSession(ctx context.Context, flags *globalFlags) (*session, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	wh, err := warehouse.Open(ctx, cfg.Warehouse, config.CacheConfig{})
	if err != nil {
		return nil, err
	}
	return &session{
		warehouse: wh,
		pipeline: engagement.NewPipeline(wh, engagement.Tables{
			Daily:     cfg.Warehouse.Tables.Daily,
			City:      cfg.Warehouse.Tables.City,
			HourlyDPO: cfg.Warehouse.Tables.HourlyDPO,
		}, cfg.Warehouse.SampleLimit),
	}, nil
}

func (s *session) Close() error {
	return s.warehouse.Close()
}

// dateFlags resolves --date and --compare with the API's defaults: today,
// and seven days before the selected date.
type dateFlags struct {
	date    string
	compare string
}

func (d dateFlags) resolve(now time.Time) (selected, compare time.Time, err error) {
	y, m, day := now.Date()
	selected = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	if d.date != "" {
		if selected, err = time.Parse(engagement.DateLayout, d.date); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", d.date)
		}
	}
	compare = selected.AddDate(0, 0, -7)
	if d.compare != "" {
		if compare, err = time.Parse(engagement.DateLayout, d.compare); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --compare %q: want YYYY-MM-DD", d.compare)
		}
	}
	if compare.After(selected) {
		return time.Time{}, time.Time{}, fmt.Errorf("--compare %s is after --date %s", compare.Format(engagement.DateLayout), selected.Format(engagement.DateLayout))
	}
	return selected, compare, nil
}
