// Package store persists analysis results to PostgreSQL so the downstream
// scoring modules can read them by run id.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/janusai/graftnet/pkg/logging"
	"github.com/janusai/graftnet/pkg/metrics"
)

// PGStore handles result persistence using PostgreSQL
type PGStore struct {
	pool    *pgxpool.Pool
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewPGStore creates a new PostgreSQL-backed result store. A nil logger or
// registry falls back to the package defaults.
func NewPGStore(ctx context.Context, databaseURL string, logger logging.Logger, reg *metrics.Registry) (*PGStore, error) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pooling configuration
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGStore{pool: pool, logger: logger, metrics: reg}

	// Create tables if they don't exist
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return s, nil
}

// Ping checks database connectivity
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the database connection pool
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
