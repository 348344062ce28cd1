package storage

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container and returns a pool on it.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// setupTestRedis starts a Redis container and returns its host:port.
func setupTestRedis(t *testing.T) (string, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	return endpoint, func() { _ = container.Terminate(ctx) }
}

func TestPostgresBackend(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	b, err := NewPostgres(context.Background(), pool, zerolog.Nop())
	require.NoError(t, err)

	exerciseBackend(t, b)
}

func TestPostgresBackend_SchemaIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	_, err := NewPostgres(ctx, pool, zerolog.Nop())
	require.NoError(t, err)
	_, err = NewPostgres(ctx, pool, zerolog.Nop())
	require.NoError(t, err)
}

func TestRedisBackend(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test")
	}

	addr, cleanup := setupTestRedis(t)
	defer cleanup()

	b, err := NewRedis(context.Background(), addr, "", 0, zerolog.Nop())
	require.NoError(t, err)
	defer b.Close()

	exerciseBackend(t, b)
}

func TestRedisBackend_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	b, err := NewRedis(ctx, "127.0.0.1:1", "", 0, zerolog.Nop())
	require.Error(t, err)
	require.Nil(t, b)
}
