package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/go-storefront/internal/database"
)

// Postgres stores entries in the kv_entries table created by
// migrations/001_create_kv_entries.up.sql.
type Postgres struct {
	db    *sql.DB
	retry database.RetryOptions
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, retry: database.DefaultRetryOptions()}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM kv_entries WHERE key = $1`,
		key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}

	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	err := database.WithRetry(ctx, p.retry, func(ctx context.Context) error {
		_, err := p.db.ExecContext(ctx,
			`INSERT INTO kv_entries (key, value, updated_at)
			 VALUES ($1, $2, NOW())
			 ON CONFLICT (key) DO UPDATE
			 SET value = EXCLUDED.value,
			     updated_at = NOW()`,
			key, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	return nil
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	err := database.WithRetry(ctx, p.retry, func(ctx context.Context) error {
		_, err := p.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
		return err
	})
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}

	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
