package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// fileBackend stores each key as a JSON file inside a directory.
type fileBackend struct {
	dir    string
	logger zerolog.Logger
}

// NewFile creates a file-system backend rooted at dir, creating it if needed.
func NewFile(dir string, logger zerolog.Logger) (Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	logger = logger.With().Str("component", "file-storage").Logger()
	logger.Debug().Str("dir", dir).Msg("file storage initialised")

	return &fileBackend{
		dir:    dir,
		logger: logger,
	}, nil
}

func (b *fileBackend) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(b.dir, key+".json"), nil
}

func (b *fileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := b.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		b.logger.Error().Err(err).Str("file", p).Msg("failed to read storage file")
		return nil, fmt.Errorf("failed to read storage file %s: %w", p, err)
	}

	return data, nil
}

// Set writes to a temporary file and renames it so readers never see a
// partially written record.
func (b *fileBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := b.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage file for %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close storage file for %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), p); err != nil {
		b.logger.Error().Err(err).Str("file", p).Msg("failed to replace storage file")
		return fmt.Errorf("failed to replace storage file %s: %w", p, err)
	}

	return nil
}

func (b *fileBackend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := b.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete storage file %s: %w", p, err)
	}
	return nil
}

func (b *fileBackend) Close() error {
	return nil
}
