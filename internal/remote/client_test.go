package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/api/", 5*time.Second, zerolog.Nop())
}

func TestClient_ListProducts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/product", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"ZmGrkLRPXOTpxsU4jjAcv","brand":"Acer","model":"Iconia Talk S","price":"170","imgUrl":"https://example.test/a.jpg"},
			{"id":"cGjFJlmqNPIwU59AOcY8H","brand":"Acer","model":"Liquid Z6 Plus","price":"","imgUrl":"https://example.test/b.jpg"}
		]`))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Iconia Talk S", products[0].Model)
	assert.Equal(t, "170", products[0].Price)
	assert.Empty(t, products[1].Price)
}

func TestClient_GetProduct(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/product/abc", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id":"abc","brand":"Acer","model":"Iconia","price":"170","cpu":"Quad-core 1.3 GHz",
			"primaryCamera":["13 MP","autofocus"],
			"options":{"colors":[{"code":1000,"name":"Black"}],"storages":[{"code":2000,"name":"16 GB"}]}
		}`))
	})

	product, err := client.GetProduct(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Quad-core 1.3 GHz", product.CPU)
	assert.True(t, product.HasColor(1000))
	assert.True(t, product.HasStorage(2000))
	assert.False(t, product.HasColor(2000))
}

func TestClient_AddToCart_SendsOnlyWireFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cart", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"id": "abc", "colorCode": float64(1), "storageCode": float64(2)}, body)

		_, _ = w.Write([]byte(`{"count":1}`))
	})

	resp, err := client.AddToCart(context.Background(), model.CartRequest{ID: "abc", ColorCode: 1, StorageCode: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
}

func TestClient_Checkout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req model.CheckoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Ana", req.CustomerDetails.FirstName)
		require.Len(t, req.Items, 1)
		assert.Equal(t, 2, req.Items[0].Quantity)

		_, _ = w.Write([]byte(`{"success":true,"orderId":"ORD-1"}`))
	})

	resp, err := client.Checkout(context.Background(), model.CheckoutRequest{
		CustomerDetails: model.CustomerDetails{FirstName: "Ana"},
		Items:           []model.CheckoutItem{{ID: "abc", ColorCode: 1, StorageCode: 2, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "ORD-1", resp.OrderID)
}

func TestClient_StatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"bad gateway", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			})

			_, err := client.GetProduct(context.Background(), "abc")
			require.Error(t, err)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Contains(t, statusErr.Body, "nope")
		})
	}
}

func TestClient_DecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListProducts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
