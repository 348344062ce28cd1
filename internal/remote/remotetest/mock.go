// Package remotetest provides a testify mock of remote.Client.
package remotetest

import (
	"context"

	"storefront/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of remote.Client.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockClient) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockClient) AddToCart(ctx context.Context, req model.CartRequest) (*model.AddToCartResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AddToCartResponse), args.Error(1)
}

func (m *MockClient) Checkout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResponse), args.Error(1)
}
