// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*WarehouseHealthService)(nil)

// scriptedPinger returns queued results in order, then the last one forever.
type scriptedPinger struct {
	mu      sync.Mutex
	results []error
	calls   int
	called  chan struct{}
}

func newScriptedPinger(results ...error) *scriptedPinger {
	return &scriptedPinger{results: results, called: make(chan struct{}, 16)}
}

func (p *scriptedPinger) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.calls
	if idx >= len(p.results) {
		idx = len(p.results) - 1
	}
	p.calls++
	select {
	case p.called <- struct{}{}:
	default:
	}
	return p.results[idx]
}

func (p *scriptedPinger) waitCalls(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-p.called:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d checks ran", i, n)
		}
	}
}

func TestNewWarehouseHealthService_DefaultInterval(t *testing.T) {
	t.Parallel()

	svc := NewWarehouseHealthService(newScriptedPinger(nil), 0)
	if svc.interval != DefaultCheckInterval {
		t.Errorf("interval = %v, want %v", svc.interval, DefaultCheckInterval)
	}
	if !svc.Healthy() {
		t.Error("a new check should start healthy")
	}
	if svc.String() != "warehouse-health" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestWarehouseHealthService_RecoversAfterFailure(t *testing.T) {
	t.Parallel()

	pinger := newScriptedPinger(nil, errors.New("connection refused"), nil)
	svc := NewWarehouseHealthService(pinger, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	pinger.waitCalls(t, 3)
	deadline := time.Now().Add(time.Second)
	for !svc.Healthy() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !svc.Healthy() {
		t.Error("check should recover after a successful ping")
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestWarehouseHealthService_FailureDoesNotStopService(t *testing.T) {
	t.Parallel()

	pinger := newScriptedPinger(errors.New("down"))
	svc := NewWarehouseHealthService(pinger, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	pinger.waitCalls(t, 3)
	select {
	case err := <-errCh:
		t.Fatalf("Serve returned early: %v", err)
	default:
	}
	if svc.Healthy() {
		t.Error("Healthy() = true after failed checks")
	}

	cancel()
	<-errCh
}
