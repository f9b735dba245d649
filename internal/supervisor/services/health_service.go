// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tomtom215/rngdash/internal/logging"
	"github.com/tomtom215/rngdash/internal/metrics"
)

// Pinger is satisfied by *warehouse.Warehouse.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DefaultCheckInterval is used when no interval is configured.
const DefaultCheckInterval = 30 * time.Second

// WarehouseHealthService pings the warehouse on a fixed interval and
// publishes the result as the warehouse_up gauge. It also refreshes the
// process uptime gauge. A failed ping is logged, not returned, so the
// supervisor never restarts the check for a warehouse outage.
type WarehouseHealthService struct {
	pinger    Pinger
	interval  time.Duration
	startTime time.Time
	healthy   atomic.Bool
	checks    atomic.Int64
}

// NewWarehouseHealthService creates a health check over pinger.
func NewWarehouseHealthService(pinger Pinger, interval time.Duration) *WarehouseHealthService {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	s := &WarehouseHealthService{
		pinger:    pinger,
		interval:  interval,
		startTime: time.Now(),
	}
	// Open() pinged successfully before the check is created.
	s.healthy.Store(true)
	return s
}

// Serve implements suture.Service.
func (s *WarehouseHealthService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *WarehouseHealthService) check(ctx context.Context) {
	err := s.pinger.Ping(ctx)
	s.checks.Add(1)
	metrics.AppUptime.Set(time.Since(s.startTime).Seconds())

	if ctx.Err() != nil {
		return
	}
	up := err == nil
	metrics.SetWarehouseUp(up)

	if was := s.healthy.Swap(up); was != up {
		if up {
			logging.Info().Msg("Warehouse connectivity restored")
		} else {
			logging.Err(err).Msg("Warehouse health check failed")
		}
	}
}

// Healthy reports the result of the latest check.
func (s *WarehouseHealthService) Healthy() bool {
	return s.healthy.Load()
}

// String implements fmt.Stringer.
func (s *WarehouseHealthService) String() string {
	return "warehouse-health"
}
