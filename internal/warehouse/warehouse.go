// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/rngdash/internal/cache"
	"github.com/tomtom215/rngdash/internal/config"
	"github.com/tomtom215/rngdash/internal/engagement"
	"github.com/tomtom215/rngdash/internal/logging"
	"github.com/tomtom215/rngdash/internal/metrics"
)

// Operation labels for metrics and errors.
const (
	opConnect = "connect"
	opPing    = "ping"
	opLoad    = "load"
	opTables  = "list_tables"
)

// Warehouse is the process-wide handle to the SQL warehouse. It is safe for
// concurrent use and implements engagement.Loader.
type Warehouse struct {
	db      *sql.DB
	cfg     config.WarehouseConfig
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*engagement.ResultSet]
	cache   cache.Cacher[*engagement.ResultSet]
	group   singleflight.Group
}

var _ engagement.Loader = (*Warehouse)(nil)

// Open connects to the configured warehouse and verifies it with a ping.
// Any failure is returned as a *ConnectivityError.
func Open(ctx context.Context, cfg config.WarehouseConfig, cacheCfg config.CacheConfig) (*Warehouse, error) {
	db, err := openDB(&cfg)
	if err != nil {
		return nil, &ConnectivityError{Op: opConnect, Err: err}
	}
	w := newWarehouse(db, cfg, cacheCfg)

	if err := w.Ping(ctx); err != nil {
		_ = w.Close()
		return nil, err
	}

	logging.Info().
		Str("driver", cfg.Driver).
		Str("target", describe(cfg)).
		Dur("query_timeout", cfg.QueryTimeout).
		Bool("cache", cacheCfg.Enabled).
		Msg("Connected to warehouse")
	return w, nil
}

func newWarehouse(db *sql.DB, cfg config.WarehouseConfig, cacheCfg config.CacheConfig) *Warehouse {
	configureConnectionPool(db, cfg)

	w := &Warehouse{
		db:      db,
		cfg:     cfg,
		breaker: newBreaker(cfg.Breaker),
		cache:   cache.NewCacher[*engagement.ResultSet]("resultset", cacheCfg.Enabled, cacheCfg.TTL),
	}
	if cfg.QueriesPerSecond > 0 {
		burst := cfg.QueryBurst
		if burst <= 0 {
			burst = 1
		}
		w.limiter = rate.NewLimiter(rate.Limit(cfg.QueriesPerSecond), burst)
	}
	return w
}

// configureConnectionPool sets connection pool parameters
func configureConnectionPool(db *sql.DB, cfg config.WarehouseConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(5 * time.Minute)
}

// Driver returns the configured driver name.
func (w *Warehouse) Driver() string {
	return w.cfg.Driver
}

// Close releases the connection pool and stops the cache sweeper.
func (w *Warehouse) Close() error {
	stats := w.cache.GetStats()
	wlog(context.Background()).Debug().
		Int64("hits", stats.Hits).
		Int64("misses", stats.Misses).
		Int64("evictions", stats.Evictions).
		Float64("hit_rate", stats.HitRate()).
		Msg("Closing warehouse result cache")
	w.cache.Close()
	return w.db.Close()
}

// Ping checks connectivity within the connect timeout.
func (w *Warehouse) Ping(ctx context.Context) error {
	if w.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.ConnectTimeout)
		defer cancel()
	}

	start := time.Now()
	err := w.db.PingContext(ctx)
	metrics.DBConnectionsInUse.Set(float64(w.db.Stats().InUse))
	if err != nil {
		err = &ConnectivityError{Op: opPing, Err: err}
	}
	metrics.RecordDBQuery(opPing, "", time.Since(start), err)
	return err
}

// Load runs a source query. Identical concurrent loads share one statement
// and recent results are served from the cache; the returned set must not
// be mutated.
//
// The shared statement runs detached from any single caller's cancellation,
// bounded by the query timeout. A caller whose ctx ends stops waiting
// without failing the others.
func (w *Warehouse) Load(ctx context.Context, q engagement.Query) (*engagement.ResultSet, error) {
	key := cache.GenerateKey(opLoad, q)
	if rs, ok := w.cache.Get(key); ok {
		wlog(ctx).Debug().Str("table", q.Table).Msg("Result set served from cache")
		return rs, nil
	}

	runCtx := context.WithoutCancel(ctx)
	ch := w.group.DoChan(key, func() (interface{}, error) {
		stmt, args, err := buildSelect(q)
		if err != nil {
			return nil, &QueryError{Table: q.Table, Err: err}
		}
		rs, err := w.execute(runCtx, opLoad, q.Table, stmt, args...)
		if err != nil {
			return nil, err
		}
		w.cache.Set(key, rs)
		return rs, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			wlog(ctx).Debug().Str("table", q.Table).Msg("Joined in-flight warehouse load")
		}
		return res.Val.(*engagement.ResultSet), nil
	case <-ctx.Done():
		wlog(ctx).Debug().Str("table", q.Table).Msg("Caller left in-flight warehouse load")
		return nil, classify(opLoad, q.Table, ctx.Err())
	}
}

// ListTables returns the table names visible to the session.
func (w *Warehouse) ListTables(ctx context.Context) ([]string, error) {
	rs, err := w.execute(ctx, opTables, "", "SHOW TABLES")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, rs.Len())
	for _, row := range rs.Rows {
		if name := row.Dim("name"); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// execute runs one statement through the limiter, the breaker and the query
// timeout, and classifies any failure.
func (w *Warehouse) execute(ctx context.Context, op, table, stmt string, args ...any) (*engagement.ResultSet, error) {
	start := time.Now()

	rs, err := w.breaker.Execute(func() (*engagement.ResultSet, error) {
		return w.run(ctx, stmt, args)
	})
	recordBreakerResult(err)
	err = classify(op, table, err)
	metrics.RecordDBQuery(op, table, time.Since(start), err)

	if err != nil {
		wlog(ctx).Error().Err(err).
			Str("operation", op).
			Str("table", table).
			Dur("duration", time.Since(start)).
			Msg("Warehouse query failed")
		return nil, err
	}

	metrics.RecordRowsLoaded(table, rs.Len())
	wlog(ctx).Debug().
		Str("operation", op).
		Str("table", table).
		Int("rows", rs.Len()).
		Dur("duration", time.Since(start)).
		Msg("Warehouse query completed")
	return rs, nil
}

func (w *Warehouse) run(ctx context.Context, stmt string, args []any) (*engagement.ResultSet, error) {
	if w.limiter != nil {
		if err := w.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	qctx := ctx
	if w.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, w.cfg.QueryTimeout)
		defer cancel()
	}

	rs, err := w.query(qctx, stmt, args)
	if err != nil && errors.Is(qctx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
		// Drivers report a cancelled statement in their own words.
		err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return rs, err
}

func (w *Warehouse) query(ctx context.Context, stmt string, args []any) (*engagement.ResultSet, error) {
	rows, err := w.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			logging.Debug().Err(cerr).Msg("Failed to close rows")
		}
	}()
	return scanResultSet(rows)
}

// wlog returns the request logger tagged with the warehouse component.
func wlog(ctx context.Context) *zerolog.Logger {
	l := logging.CtxWith(ctx).Str("component", "warehouse").Logger()
	return &l
}

// describe returns a short, credential-free description of the target for logs.
func describe(cfg config.WarehouseConfig) string {
	switch cfg.Driver {
	case config.DriverSnowflake:
		return strings.Join([]string{cfg.Snowflake.Account, cfg.Snowflake.Database, cfg.Snowflake.Schema}, "/")
	case config.DriverDuckDB:
		if cfg.DuckDBPath == "" {
			return ":memory:"
		}
		return cfg.DuckDBPath
	default:
		return cfg.Driver
	}
}
