// Package remote talks to the store's product, cart and checkout REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Client defines the remote store operations.
type Client interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	AddToCart(ctx context.Context, req model.CartRequest) (*model.AddToCartResponse, error)
	Checkout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResponse, error)
}

// StatusError is returned when the remote API answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 4 << 10

type httpClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout}, logger)
}

// NewClientWithHTTP creates a client on an existing *http.Client.
func NewClientWithHTTP(baseURL string, hc *http.Client, logger zerolog.Logger) Client {
	return &httpClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		logger:     logger.With().Str("component", "remote-client").Logger(),
	}
}

func (c *httpClient) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/product", nil, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (c *httpClient) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &product, nil
}

func (c *httpClient) AddToCart(ctx context.Context, req model.CartRequest) (*model.AddToCartResponse, error) {
	var resp model.AddToCartResponse
	if err := c.do(ctx, http.MethodPost, "/cart", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to add product %s to cart: %w", req.ID, err)
	}
	return &resp, nil
}

func (c *httpClient) Checkout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResponse, error) {
	var resp model.CheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/checkout", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit checkout: %w", err)
	}
	return &resp, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("remote request failed")
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("remote request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
