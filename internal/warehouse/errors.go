// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package warehouse

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	gobreaker "github.com/sony/gobreaker/v2"
)

// ErrQueryTimeout is wrapped by a QueryError when the statement exceeded the
// configured query timeout.
var ErrQueryTimeout = errors.New("query timed out")

// ConnectivityError reports that the warehouse cannot be reached: bad
// credentials, network failure or an open circuit breaker. It is fatal for
// the request (and for the process at startup).
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("warehouse unavailable (%s): %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// Fatal marks the error as unrecoverable at the view boundary.
func (e *ConnectivityError) Fatal() bool { return true }

// QueryError reports a failed or timed-out statement. Views degrade to an
// empty result and keep serving.
type QueryError struct {
	Table string
	Err   error
}

func (e *QueryError) Error() string {
	if errors.Is(e.Err, ErrQueryTimeout) {
		return ErrQueryTimeout.Error()
	}
	return fmt.Sprintf("query on %s failed: %v", e.Table, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsConnectivity reports whether err is or wraps a *ConnectivityError.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}

// classify wraps a raw driver error into a ConnectivityError or QueryError.
func classify(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ce *ConnectivityError
		qe *QueryError
	)
	if errors.As(err, &ce) || errors.As(err, &qe) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &QueryError{Table: table, Err: fmt.Errorf("%w: %w", ErrQueryTimeout, err)}
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &ConnectivityError{Op: op, Err: err}
	case isConnectionError(err):
		return &ConnectivityError{Op: op, Err: err}
	default:
		return &QueryError{Table: table, Err: err}
	}
}

// isConnectionError checks if an error indicates warehouse connection loss
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	for _, s := range connectionErrorMarkers {
		if strings.Contains(errMsg, s) {
			return true
		}
	}
	return false
}

var connectionErrorMarkers = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"bad connection",
	"database is closed",
	"no such host",
	"incorrect username or password",
	"authentication failed",
}
