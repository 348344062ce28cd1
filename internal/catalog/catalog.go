// Package catalog serves the product list and product details through an
// expiring cache in front of the remote API.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/model"
	"storefront/internal/remote"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

const (
	productsKey      = "products"
	productKeyPrefix = "product-"
)

// Service reads the catalogue, preferring fresh cache entries.
type Service struct {
	client remote.Client
	cache  storage.Backend
	ttl    time.Duration
	logger zerolog.Logger
}

// NewService creates a catalogue service. Entries stay fresh for ttl.
func NewService(client remote.Client, cache storage.Backend, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// ListProducts returns the full catalogue, from cache when fresh.
func (s *Service) ListProducts(ctx context.Context) ([]model.Product, error) {
	if products, ok := s.cachedList(ctx); ok {
		return products, nil
	}
	return s.Refetch(ctx)
}

// Refetch fetches the catalogue from the remote API regardless of the cache
// and stores the result.
func (s *Service) Refetch(ctx context.Context) ([]model.Product, error) {
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch product list")
		return nil, err
	}

	if err := storage.SetWithExpiry(ctx, s.cache, productsKey, products, s.ttl); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache product list")
	}

	s.logger.Debug().Int("count", len(products)).Msg("product list fetched")
	return products, nil
}

// GetProduct returns one product's details, from cache when fresh.
// A 404 from the remote API maps to model.ErrProductNotFound.
func (s *Service) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	key := productKeyPrefix + id

	cached, ok, err := storage.GetWithExpiry[model.Product](ctx, s.cache, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("product_id", id).Msg("failed to read product cache")
	}
	if ok {
		return &cached, nil
	}

	product, err := s.client.GetProduct(ctx, id)
	if err != nil {
		var statusErr *remote.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", model.ErrProductNotFound, id)
		}
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to fetch product")
		return nil, err
	}

	if err := storage.SetWithExpiry(ctx, s.cache, key, *product, s.ttl); err != nil {
		s.logger.Warn().Err(err).Str("product_id", id).Msg("failed to cache product")
	}

	return product, nil
}

// CheckVariant confirms that product id offers the colour and storage codes.
// Unknown codes give a *model.VariantError.
func (s *Service) CheckVariant(ctx context.Context, id string, colorCode, storageCode int) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	return product.CheckVariant(colorCode, storageCode)
}

func (s *Service) cachedList(ctx context.Context) ([]model.Product, bool) {
	products, ok, err := storage.GetWithExpiry[[]model.Product](ctx, s.cache, productsKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read product list cache")
		return nil, false
	}
	return products, ok
}
