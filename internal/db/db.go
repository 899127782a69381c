// Package db stores genre definitions in PostgreSQL.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Definitions are read once at startup and written by the import command, so
// a small pool is plenty.
const (
	maxConns       = 4
	connectTimeout = 5 * time.Second
)

// schema holds one row per normalized genre name. weights is a JSON object
// keyed by group slug; NULL weights select the generic vector and NULL tempo
// leaves the genre out of the tempo table.
const schema = `
	CREATE TABLE IF NOT EXISTS genre_definitions (
		name       TEXT PRIMARY KEY,
		weights    JSONB,
		tempo      DOUBLE PRECISION,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// DB is a pgx pool over the definitions database.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL and verifies the connection.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// EnsureSchema creates genre_definitions if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Definitions returns the genre definition repository.
func (db *DB) Definitions() *DefinitionRepository {
	return &DefinitionRepository{pool: db.pool}
}
