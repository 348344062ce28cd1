package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS storefront_kv (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// postgresBackend stores values in a single key/value table.
type postgresBackend struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgres creates a PostgreSQL-backed store on an existing pool and makes
// sure its table exists. The pool stays owned by the caller.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) (Backend, error) {
	logger = logger.With().Str("component", "postgres-storage").Logger()

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		logger.Error().Err(err).Msg("failed to create storage table")
		return nil, fmt.Errorf("failed to create storage table: %w", err)
	}

	return &postgresBackend{
		pool:   pool,
		logger: logger,
	}, nil
}

func (b *postgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM storefront_kv WHERE key = $1`

	var value []byte
	err := b.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		b.logger.Error().Err(err).Str("key", key).Msg("failed to query storage value")
		return nil, fmt.Errorf("failed to query storage value: %w", err)
	}

	return value, nil
}

func (b *postgresBackend) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO storefront_kv (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := b.pool.Exec(ctx, query, key, value); err != nil {
		b.logger.Error().Err(err).Str("key", key).Msg("failed to upsert storage value")
		return fmt.Errorf("failed to upsert storage value: %w", err)
	}

	b.logger.Debug().Str("key", key).Int("bytes", len(value)).Msg("storage value written")
	return nil
}

func (b *postgresBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.pool.Exec(ctx, `DELETE FROM storefront_kv WHERE key = $1`, key); err != nil {
		b.logger.Error().Err(err).Str("key", key).Msg("failed to delete storage value")
		return fmt.Errorf("failed to delete storage value: %w", err)
	}
	return nil
}

func (b *postgresBackend) Close() error {
	return nil
}
