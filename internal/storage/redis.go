package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisBackend stores values as plain Redis strings.
type redisBackend struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, addr, password string, db int, logger zerolog.Logger) (Backend, error) {
	logger = logger.With().Str("component", "redis-storage").Logger()

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		logger.Error().Err(err).Str("addr", addr).Msg("redis not reachable")
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	logger.Info().Str("addr", addr).Int("db", db).Msg("redis storage initialised")

	return &redisBackend{
		client: client,
		logger: logger,
	}, nil
}

func (b *redisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		b.logger.Error().Err(err).Str("key", key).Msg("failed to get value from redis")
		return nil, fmt.Errorf("failed to get %s from redis: %w", key, err)
	}
	return value, nil
}

func (b *redisBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := b.client.Set(ctx, key, value, 0).Err(); err != nil {
		b.logger.Error().Err(err).Str("key", key).Msg("failed to set value in redis")
		return fmt.Errorf("failed to set %s in redis: %w", key, err)
	}
	return nil
}

func (b *redisBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from redis: %w", key, err)
	}
	return nil
}

func (b *redisBackend) Close() error {
	return b.client.Close()
}
