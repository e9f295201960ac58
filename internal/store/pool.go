// Copyright (c) 2026 ZimFiction. All rights reserved.

package store

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool tuning for a bulk-scan, read-only workload: the build stage opens
// one pool that the planner and every render worker share, and
// streams large result sets rather than serving bursty point queries, so
// connections are few, long-lived, and given a generous statement timeout.
const (
	maxConns          = 4
	minConns          = 1
	maxConnLifetime   = 6 * time.Hour
	maxConnIdleTime   = 30 * time.Minute
	healthCheckPeriod = 5 * time.Minute
	connectTimeout    = 10 * time.Second
	pingTimeout       = 5 * time.Second

	// statementTimeout bounds any single query; large aggregate scans are
	// expected to paginate (internal/store.Page) rather than run forever.
	statementTimeout = 5 * time.Minute
)

// NewPool creates and validates a new PostgreSQL connection pool for the
// build's read-only store handle.
func NewPool(ctx stdctx.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	poolConfig.AfterConnect = func(ctx stdctx.Context, conn *pgx.Conn) error {
		timeoutQuery := fmt.Sprintf("SET statement_timeout = '%ds'", int(statementTimeout.Seconds()))
		_, err := conn.Exec(ctx, timeoutQuery)
		return err
	}

	connectCtx, cancel := stdctx.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("store: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	stats := pool.Stat()
	logger.Info("entity_store_pool_connected",
		slog.Int("max_conns", int(stats.MaxConns())),
		slog.Int("total_conns", int(stats.TotalConns())),
	)

	return pool, nil
}

// Ping verifies that the store's connection pool is healthy.
func Ping(ctx stdctx.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := stdctx.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("store: ping failed: %w", err)
	}
	return nil
}
