package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ourhour/internal/domain"

	"github.com/lib/pq"
)

const pqUndefinedTable = "42P01"

type kvRepository struct {
	DB  *sql.DB
	now func() time.Time
}

// NewKeyValueRepository returns a domain.KeyValueStore backed by the kv_entries table.
func NewKeyValueRepository(db *sql.DB) domain.KeyValueStore {
	return &kvRepository{DB: db, now: time.Now}
}

// EnsureKeyValueSchema creates the kv_entries table if it does not exist.
func EnsureKeyValueSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_entries (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create kv_entries: %w", err)
	}
	return nil
}

func (r *kvRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.DB.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapPQ("get", key, err)
	}
	return value, true, nil
}

func (r *kvRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value, r.now())
	if err != nil {
		return wrapPQ("set", key, err)
	}
	return nil
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return wrapPQ("delete", key, err)
	}
	return nil
}

func wrapPQ(op, key string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable {
		return fmt.Errorf("kv %s %q: kv_entries table is missing, run schema setup: %w", op, key, err)
	}
	return fmt.Errorf("kv %s %q: %w", op, key, err)
}
