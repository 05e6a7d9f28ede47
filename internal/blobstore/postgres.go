package blobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"mlb_today/pipeline/internal/metrics"
)

// PostgresStore keeps blobs in a single table keyed by (container, name)
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and ensures the blobs table exists
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Set pool configuration
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().Msg("Connected to Postgres blob store")
	return store, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS blobs (
			container  TEXT NOT NULL,
			name       TEXT NOT NULL,
			data       BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (container, name)
		)
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create blobs table: %w", err)
	}
	return nil
}

// Put upserts the blob at container/name
func (s *PostgresStore) Put(ctx context.Context, container, name string, data []byte) error {
	query := `
		INSERT INTO blobs (container, name, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (container, name) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = NOW()
	`

	if _, err := s.pool.Exec(ctx, query, container, name, data); err != nil {
		metrics.BlobOpsTotal.WithLabelValues("put", container, "error").Inc()
		return fmt.Errorf("failed to save blob %s/%s: %w", container, name, err)
	}
	metrics.BlobOpsTotal.WithLabelValues("put", container, "ok").Inc()
	return nil
}

// Get reads the blob at container/name
func (s *PostgresStore) Get(ctx context.Context, container, name string) ([]byte, error) {
	var data []byte
	query := `SELECT data FROM blobs WHERE container = $1 AND name = $2`

	err := s.pool.QueryRow(ctx, query, container, name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.BlobOpsTotal.WithLabelValues("get", container, "miss").Inc()
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.BlobOpsTotal.WithLabelValues("get", container, "error").Inc()
		return nil, fmt.Errorf("failed to read blob %s/%s: %w", container, name, err)
	}
	metrics.BlobOpsTotal.WithLabelValues("get", container, "ok").Inc()
	return data, nil
}

// Health checks if the database is healthy
func (s *PostgresStore) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
		log.Info().Msg("Database connection pool closed")
	}
}
