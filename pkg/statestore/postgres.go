package statestore

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/gamekit/pkg/pg"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsTable = "statestore_migrations"

// Migrate creates the machine_states table used by PostgresStore.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	if err := pg.Migrate(ctx, pool, migrations, "migrations", migrationsTable, log); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// PostgresStore keeps states in the machine_states table as jsonb.
// Run Migrate once before using it.
type PostgresStore[S any] struct {
	pool *pgxpool.Pool
}

// NewPostgresStore uses pool for every query.
func NewPostgresStore[S any](pool *pgxpool.Pool) *PostgresStore[S] {
	return &PostgresStore[S]{pool: pool}
}

// Save upserts the row for key.
func (s *PostgresStore[S]) Save(ctx context.Context, key string, state S) error {
	if key == "" {
		return ErrEmptyKey
	}
	rec := newRecord(key, state)
	data, err := json.Marshal(rec.State)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO machine_states (key, state, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`,
		rec.Key, json.RawMessage(data), rec.UpdatedAt,
	)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// Load reads the row for key. No row wraps ErrNotFound.
func (s *PostgresStore[S]) Load(ctx context.Context, key string) (S, error) {
	var zero S
	if key == "" {
		return zero, ErrEmptyKey
	}

	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT state FROM machine_states WHERE key = $1`, key).Scan(&raw)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return zero, fmt.Errorf("key %q: %w", key, ErrNotFound)
		}
		return zero, errors.Join(ErrStoreFailure, err)
	}

	var state S
	if err := json.Unmarshal(raw, &state); err != nil {
		return zero, errors.Join(ErrStoreFailure, err)
	}
	return state, nil
}

// Delete removes the row for key.
func (s *PostgresStore[S]) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM machine_states WHERE key = $1`, key); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}
