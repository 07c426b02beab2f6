// Package repository provides database access layer.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database access methods.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: pool}, nil
}

// schema contains the table definitions, applied idempotently at startup.
// Owner foreign keys cascade so removing a user removes their rows.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS todos (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT,
		status      TEXT NOT NULL DEFAULT 'todo',
		due_date    TIMESTAMPTZ,
		owner_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_owner ON todos (owner_id)`,
	`CREATE TABLE IF NOT EXISTS planner_events (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT,
		start_time  TIMESTAMPTZ NOT NULL,
		end_time    TIMESTAMPTZ NOT NULL,
		color       TEXT,
		owner_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_planner_events_owner_start ON planner_events (owner_id, start_time)`,
	`CREATE TABLE IF NOT EXISTS pomodoro_sessions (
		id         TEXT PRIMARY KEY,
		start_time TIMESTAMPTZ NOT NULL,
		end_time   TIMESTAMPTZ,
		duration   INTEGER NOT NULL,
		type       TEXT NOT NULL,
		completed  BOOLEAN NOT NULL DEFAULT FALSE,
		owner_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pomodoro_sessions_owner_start ON pomodoro_sessions (owner_id, start_time)`,
}

// Migrate creates the tables if they do not exist.
// Called once at startup before the server accepts traffic.
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Repository.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	// PostgreSQL error code 23505 is unique_violation
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "23505")
}
