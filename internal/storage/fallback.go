package storage

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// fallbackBackend uses a remote primary backend and falls back to a local
// one when the primary fails. ErrNotFound from the primary is authoritative.
type fallbackBackend struct {
	primary   Backend
	secondary Backend
	logger    zerolog.Logger
}

// NewFallback creates a backend that tries primary first, then secondary.
func NewFallback(primary, secondary Backend, logger zerolog.Logger) Backend {
	return &fallbackBackend{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "fallback-storage").Logger(),
	}
}

func (b *fallbackBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := b.primary.Get(ctx, key)
	if err == nil || errors.Is(err, ErrNotFound) {
		return value, err
	}

	b.logger.Warn().
		Err(err).
		Str("key", key).
		Msg("failed to read from primary storage, falling back to local storage")

	return b.secondary.Get(ctx, key)
}

func (b *fallbackBackend) Set(ctx context.Context, key string, value []byte) error {
	err := b.primary.Set(ctx, key, value)
	if err == nil {
		return nil
	}

	b.logger.Warn().
		Err(err).
		Str("key", key).
		Msg("failed to write to primary storage, falling back to local storage")

	return b.secondary.Set(ctx, key, value)
}

func (b *fallbackBackend) Delete(ctx context.Context, key string) error {
	err := b.primary.Delete(ctx, key)
	if secErr := b.secondary.Delete(ctx, key); err == nil {
		err = secErr
	}
	return err
}

func (b *fallbackBackend) Close() error {
	return errors.Join(b.primary.Close(), b.secondary.Close())
}
