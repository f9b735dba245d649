// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package warehouse

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/rngdash/internal/engagement"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantConn    bool
		wantTimeout bool
		wantMsg     string
	}{
		{name: "deadline", err: fmt.Errorf("%w: statement cancelled", context.DeadlineExceeded), wantTimeout: true, wantMsg: "query timed out"},
		{name: "breaker open", err: gobreaker.ErrOpenState, wantConn: true},
		{name: "half-open overflow", err: gobreaker.ErrTooManyRequests, wantConn: true},
		{name: "bad conn", err: fmt.Errorf("exec: %w", driver.ErrBadConn), wantConn: true},
		{name: "net op", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, wantConn: true},
		{name: "refused text", err: errors.New("dial tcp: connection refused"), wantConn: true},
		{name: "bad credentials", err: errors.New("390100 (08004): Incorrect username or password was specified."), wantConn: true},
		{name: "syntax", err: errors.New("SQL compilation error: syntax error line 1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classify(opLoad, "rng_daily", tt.err)
			if IsConnectivity(got) != tt.wantConn {
				t.Errorf("IsConnectivity(%v) = %v, want %v", got, !tt.wantConn, tt.wantConn)
			}
			if engagement.IsFatal(got) != tt.wantConn {
				t.Errorf("IsFatal(%v) = %v, want %v", got, !tt.wantConn, tt.wantConn)
			}
			if errors.Is(got, ErrQueryTimeout) != tt.wantTimeout {
				t.Errorf("errors.Is(%v, ErrQueryTimeout) = %v", got, !tt.wantTimeout)
			}
			if !tt.wantConn {
				var qe *QueryError
				if !errors.As(got, &qe) {
					t.Errorf("expected *QueryError, got %T", got)
				}
			}
			if tt.wantMsg != "" && got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
		})
	}
}

func TestClassifyKeepsTypedErrors(t *testing.T) {
	t.Parallel()

	ce := &ConnectivityError{Op: opPing, Err: errors.New("down")}
	if got := classify(opLoad, "t", ce); got != ce {
		t.Errorf("classify() rewrapped a ConnectivityError: %v", got)
	}
	if classify(opLoad, "t", nil) != nil {
		t.Error("classify(nil) should be nil")
	}
}

func TestIsConnectionError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("connection reset by peer"), true},
		{errors.New("write: broken pipe"), true},
		{errors.New("sql: database is closed"), true},
		{errors.New("Table with name rng_daily does not exist"), false},
	}
	for _, tt := range tests {
		if got := isConnectionError(tt.err); got != tt.want {
			t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
