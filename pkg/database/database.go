// Package database provides PostgreSQL connection pooling with lifecycle
// coordination, built on pgx v5.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siamdocs/quarry/pkg/lifecycle"
)

// System manages the connection pool and lifecycle coordination.
type System interface {
	// Pool returns the underlying pgx connection pool.
	Pool() *pgxpool.Pool
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	pool        *pgxpool.Pool
	logger      *slog.Logger
	connTimeout time.Duration
}

// New creates a database system from the given configuration. The pool is
// constructed lazily by pgx; no connection is established until Start's
// ping runs.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetimeDuration()

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return &database{
		pool:        pool,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Pool() *pgxpool.Pool {
	return d.pool
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database connection pool")

	lc.OnStartup(func() {
		pingCtx, cancel := context.WithTimeout(lc.Context(), d.connTimeout)
		defer cancel()

		if err := d.pool.Ping(pingCtx); err != nil {
			d.logger.Error("database ping failed", "error", err)
			return
		}

		d.logger.Info("database connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.logger.Info("closing database connection pool")
		d.pool.Close()
	})

	return nil
}
