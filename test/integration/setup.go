package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	Config    config.DatabaseConfig
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	pool, err := database.NewPool(ctx, dbConfig, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		Config:    dbConfig,
	}
}

// FakeStore is an in-process stand-in for the remote store API.
type FakeStore struct {
	Server *httptest.Server

	mu       sync.Mutex
	products []model.Product
	adds     []model.CartRequest
	orders   []model.CheckoutRequest
}

// NewFakeStore starts a fake remote store serving products.
func NewFakeStore(t *testing.T, products []model.Product) *FakeStore {
	t.Helper()

	f := &FakeStore{products: products}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/product", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.products)
	})
	mux.HandleFunc("GET /api/product/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, p := range f.products {
			if p.ID == r.PathValue("id") {
				json.NewEncoder(w).Encode(p)
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("POST /api/cart", func(w http.ResponseWriter, r *http.Request) {
		var req model.CartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.adds = append(f.adds, req)
		count := len(f.adds)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(model.AddToCartResponse{Count: count})
	})
	mux.HandleFunc("POST /api/checkout", func(w http.ResponseWriter, r *http.Request) {
		var req model.CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.orders = append(f.orders, req)
		id := "ORD-" + strconv.Itoa(len(f.orders))
		f.mu.Unlock()
		json.NewEncoder(w).Encode(model.CheckoutResponse{Success: true, OrderID: id})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL is the API base URL to configure the storefront with.
func (f *FakeStore) BaseURL() string {
	return f.Server.URL + "/api"
}

// Orders returns the checkout requests received so far.
func (f *FakeStore) Orders() []model.CheckoutRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.CheckoutRequest(nil), f.orders...)
}

// SampleProducts returns n products with ascending prices.
func SampleProducts(n int) []model.Product {
	products := make([]model.Product, n)
	for i := range products {
		id := strconv.Itoa(i + 1)
		products[i] = model.Product{
			ID:    id,
			Brand: "Brand" + id,
			Model: "Model " + id,
			Price: strconv.Itoa((i + 1) * 10),
			Options: model.Options{
				Colors:   []model.Option{{Code: 1, Name: "Negro"}},
				Storages: []model.Option{{Code: 1, Name: "64 GB"}},
			},
		}
	}
	return products
}

// NewConfig returns a storefront configuration backed by the test database.
func NewConfig(t *testing.T, db *TestDB, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		API:      config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second},
		Storage:  config.StorageConfig{Backend: config.StoragePostgres, Dir: t.TempDir(), CartKey: cart.DefaultKey},
		Database: db.Config,
		Catalog:  config.CatalogConfig{CacheTTL: time.Hour},
		Listing:  config.ListingConfig{PageSize: 20},
		Cart:     config.CartConfig{LastAddedTTL: time.Minute, NotificationTimeout: time.Minute},
		Logger:   config.LoggerConfig{Level: "error", Format: "json"},
	}
}
