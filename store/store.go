// Package store persists CVs and user profiles in PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a row does not exist or belongs to another user.
var ErrNotFound = errors.New("not found")

// Store wraps a PostgreSQL connection pool
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database url is empty")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

var migrations = []struct {
	name string
	sql  string
}{
	{"create cvs", `CREATE TABLE IF NOT EXISTS cvs (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		title TEXT NOT NULL,
		template TEXT NOT NULL DEFAULT 'modern',
		personal_info JSONB NOT NULL DEFAULT '{}'::jsonb,
		education JSONB NOT NULL DEFAULT '[]'::jsonb,
		experience JSONB NOT NULL DEFAULT '[]'::jsonb,
		skills JSONB NOT NULL DEFAULT '[]'::jsonb,
		additional_info JSONB
	)`},
	{"index cvs by user", `CREATE INDEX IF NOT EXISTS cvs_user_id_idx ON cvs (user_id, created_at DESC)`},
	{"create user_profiles", `CREATE TABLE IF NOT EXISTS user_profiles (
		user_id UUID PRIMARY KEY,
		full_name TEXT NOT NULL DEFAULT '',
		professional_title TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		skills JSONB NOT NULL DEFAULT '[]'::jsonb,
		experience JSONB NOT NULL DEFAULT '[]'::jsonb,
		education JSONB NOT NULL DEFAULT '[]'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`},
}

// Migrate creates the tables if they do not exist yet. It is safe to run repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	slog.Info("Starting database migrations")
	for _, m := range migrations {
		if _, err := s.pool.Exec(ctx, m.sql); err != nil {
			slog.Error("Migration failed", "name", m.name, "error", err)
			return fmt.Errorf("migration %q failed: %w", m.name, err)
		}
		slog.Info("Migration completed", "name", m.name)
	}
	slog.Info("All migrations completed successfully")
	return nil
}
