package app

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/storage"
)

// openBackend opens the configured storage backend. Remote backends are
// fronted by the file backend, which takes over when they fail; a remote
// backend that cannot be reached at startup leaves the file backend alone.
func (a *App) openBackend(ctx context.Context) (storage.Backend, error) {
	cfg := a.cfg

	if cfg.Storage.Backend == config.StorageMemory {
		a.logger.Warn().Msg("using in-memory storage, the cart will not survive a restart")
		return storage.NewMemory(), nil
	}

	file, err := storage.NewFile(cfg.Storage.Dir, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open file storage: %w", err)
	}

	var primary storage.Backend

	switch cfg.Storage.Backend {
	case config.StorageFile:
		a.logger.Info().Str("dir", cfg.Storage.Dir).Msg("using file storage")
		return file, nil

	case config.StoragePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, a.logger)
		if err != nil {
			a.logger.Warn().Err(err).Msg("failed to connect to database, falling back to file storage only")
			return file, nil
		}
		a.releases = append(a.releases, pool.Close)

		primary, err = storage.NewPostgres(ctx, pool, a.logger)
		if err != nil {
			a.logger.Warn().Err(err).Msg("failed to initialise postgres storage, falling back to file storage only")
			return file, nil
		}

	case config.StorageRedis:
		primary, err = storage.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, a.logger)
		if err != nil {
			a.logger.Warn().Err(err).Msg("failed to connect to redis, falling back to file storage only")
			return file, nil
		}

	case config.StorageS3:
		primary, err = storage.NewS3(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, a.logger)
		if err != nil {
			a.logger.Warn().Err(err).Msg("failed to initialise S3 storage, falling back to file storage only")
			return file, nil
		}

	default:
		file.Close()
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}

	a.logger.Info().Str("backend", cfg.Storage.Backend).Msg("using remote storage with file fallback")
	return storage.NewFallback(primary, file, a.logger), nil
}

const healthCheckKey = "storefront-health-check"

// CheckStorage round-trips a marker value through the configured backend.
func (a *App) CheckStorage(ctx context.Context) error {
	want := []byte(time.Now().UTC().Format(time.RFC3339Nano))

	if err := a.backend.Set(ctx, healthCheckKey, want); err != nil {
		return fmt.Errorf("failed to write health check value: %w", err)
	}
	got, err := a.backend.Get(ctx, healthCheckKey)
	if err != nil {
		return fmt.Errorf("failed to read health check value: %w", err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("health check mismatch: wrote %q, read %q", want, got)
	}
	if err := a.backend.Delete(ctx, healthCheckKey); err != nil {
		return fmt.Errorf("failed to delete health check value: %w", err)
	}
	return nil
}
