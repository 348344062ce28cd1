package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// envelope wraps a cached value with its absolute expiry in Unix
// milliseconds.
type envelope[T any] struct {
	Value  T     `json:"value"`
	Expiry int64 `json:"expiry"`
}

var now = time.Now

// SetWithExpiry stores value under key so that GetWithExpiry stops returning
// it once ttl has elapsed.
func SetWithExpiry[T any](ctx context.Context, b Backend, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(envelope[T]{
		Value:  value,
		Expiry: now().Add(ttl).UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode cached value %s: %w", key, err)
	}
	return b.Set(ctx, key, data)
}

// GetWithExpiry returns the cached value under key. Expired or undecodable
// entries are deleted and reported as a miss.
func GetWithExpiry[T any](ctx context.Context, b Backend, key string) (T, bool, error) {
	var zero T

	data, err := b.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return zero, false, nil
		}
		return zero, false, err
	}

	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		_ = b.Delete(ctx, key)
		return zero, false, nil
	}

	if now().UnixMilli() > env.Expiry {
		_ = b.Delete(ctx, key)
		return zero, false, nil
	}

	return env.Value, true, nil
}
