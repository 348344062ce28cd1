package cart

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/model"
	"storefront/internal/remote/remotetest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestStore(client *remotetest.MockClient) *Store {
	return NewStore(client, client, 0, zerolog.Nop())
}

func intPtr(v int) *int { return &v }

func TestStore_AddToCart_NonPositiveQuantityAddsOne(t *testing.T) {
	store := newTestStore(new(remotetest.MockClient))

	store.AddToCart(iphone, 1, 2, 0)
	store.AddToCart(galaxy, 1, 1, -4)

	assert.Equal(t, 2, store.Count())
}

func TestStore_RemoveUnknownIsNoop(t *testing.T) {
	store := newTestStore(new(remotetest.MockClient))
	store.AddToCart(iphone, 1, 2, 2)

	assert.NotPanics(t, func() { store.RemoveFromCart("nope") })
	assert.Equal(t, 2, store.Count())
}

func TestStore_StateIsACopy(t *testing.T) {
	store := newTestStore(new(remotetest.MockClient))
	store.AddToCart(iphone, 1, 2, 1)

	state := store.State()
	state.CartItems[0].Quantity = 99

	assert.Equal(t, 1, store.Items()[0].Quantity)
}

func TestStore_ObserversSeeEveryChangeInOrder(t *testing.T) {
	store := newTestStore(new(remotetest.MockClient))

	var counts []int
	unsubscribe := store.Subscribe(func(s model.CartState) {
		counts = append(counts, s.CartCount)
	})

	store.AddToCart(iphone, 1, 2, 1)
	store.AddToCart(iphone, 1, 2, 2)
	store.UpdateQuantity("1-1-2", 5)
	store.RemoveFromCart("1-1-2")

	unsubscribe()
	store.AddToCart(galaxy, 1, 1, 1)

	assert.Equal(t, []int{1, 3, 5, 0}, counts)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	store := newTestStore(new(remotetest.MockClient))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.AddToCart(iphone, i%3, 1, 1)
		}(i)
	}
	wg.Wait()

	state := store.State()
	assert.Equal(t, 50, state.CartCount)
	assert.Equal(t, state.QuantitySum(), state.CartCount)
	assert.Len(t, state.CartItems, 3)
}

func TestStore_ClearCart(t *testing.T) {
	store := newTestStore(new(remotetest.MockClient))
	store.AddToCart(iphone, 1, 2, 2)

	store.ClearCart()

	state := store.State()
	assert.Empty(t, state.CartItems)
	assert.Zero(t, state.CartCount)
	assert.Nil(t, state.LastAddedProduct)
}

func TestStore_LastAddedAutoClears(t *testing.T) {
	store := NewStore(new(remotetest.MockClient), new(remotetest.MockClient), 20*time.Millisecond, zerolog.Nop())

	store.AddToCart(iphone, 1, 2, 1)
	require.NotNil(t, store.State().LastAddedProduct)

	assert.Eventually(t, func() bool {
		return store.State().LastAddedProduct == nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, store.Count())
}

func TestStore_CloseStopsLastAddedTimer(t *testing.T) {
	store := NewStore(new(remotetest.MockClient), new(remotetest.MockClient), 20*time.Millisecond, zerolog.Nop())

	var notified atomic.Int32
	store.AddToCart(iphone, 1, 2, 1)
	store.Subscribe(func(model.CartState) { notified.Add(1) })
	store.Close()

	assert.Never(t, func() bool {
		return store.State().LastAddedProduct == nil
	}, 100*time.Millisecond, 5*time.Millisecond)
	assert.Zero(t, notified.Load())
}

func TestStore_DismissLastAdded(t *testing.T) {
	store := newTestStore(new(remotetest.MockClient))
	store.AddToCart(iphone, 1, 2, 1)

	notified := 0
	store.Subscribe(func(model.CartState) { notified++ })

	store.DismissLastAdded()
	store.DismissLastAdded()

	assert.Nil(t, store.State().LastAddedProduct)
	assert.Equal(t, 1, notified, "dismissing twice notifies once")
}

func TestStore_Hydrate(t *testing.T) {
	tests := []struct {
		name      string
		state     model.CartState
		wantCount int
	}{
		{
			name: "consistent record",
			state: model.CartState{
				CartItems: []model.CartItem{{ID: "1-1-2", Product: iphone, Quantity: 2, ColorCode: 1, StorageCode: 2}},
				CartCount: 2,
			},
			wantCount: 2,
		},
		{
			name: "count repaired to item sum",
			state: model.CartState{
				CartItems: []model.CartItem{{ID: "1-1-2", Product: iphone, Quantity: 2, ColorCode: 1, StorageCode: 2}},
				CartCount: 9,
			},
			wantCount: 2,
		},
		{
			name:      "nil items",
			state:     model.CartState{CartCount: 3},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(new(remotetest.MockClient))
			store.Hydrate(tt.state)

			state := store.State()
			assert.Equal(t, tt.wantCount, state.CartCount)
			assert.NotNil(t, state.CartItems)
			assert.Nil(t, state.LastAddedProduct)
		})
	}
}

func TestStore_AddProductToCart(t *testing.T) {
	ctx := context.Background()
	wire := model.CartRequest{ID: "1", ColorCode: 1, StorageCode: 2}

	tests := []struct {
		name      string
		req       model.AddToCartRequest
		setupMock func(*remotetest.MockClient)
		wantErr   bool
		wantItems int
		wantCount int
		wantBrand string
	}{
		{
			name: "success with supplied product",
			req:  model.AddToCartRequest{ID: "1", ColorCode: 1, StorageCode: 2, Quantity: intPtr(2), Product: &iphone},
			setupMock: func(m *remotetest.MockClient) {
				m.On("AddToCart", mock.Anything, wire).Return(&model.AddToCartResponse{Count: 1}, nil)
			},
			wantItems: 1,
			wantCount: 2,
			wantBrand: "Apple",
		},
		{
			name: "success fetches product details",
			req:  model.AddToCartRequest{ID: "1", ColorCode: 1, StorageCode: 2},
			setupMock: func(m *remotetest.MockClient) {
				m.On("AddToCart", mock.Anything, wire).Return(&model.AddToCartResponse{Count: 1}, nil)
				m.On("GetProduct", mock.Anything, "1").Return(&iphone, nil)
			},
			wantItems: 1,
			wantCount: 1,
			wantBrand: "Apple",
		},
		{
			name: "detail fetch failure uses placeholder",
			req:  model.AddToCartRequest{ID: "1", ColorCode: 1, StorageCode: 2},
			setupMock: func(m *remotetest.MockClient) {
				m.On("AddToCart", mock.Anything, wire).Return(&model.AddToCartResponse{Count: 1}, nil)
				m.On("GetProduct", mock.Anything, "1").Return(nil, errors.New("timeout"))
			},
			wantItems: 1,
			wantCount: 1,
			wantBrand: "Produto",
		},
		{
			name: "remote failure leaves cart untouched",
			req:  model.AddToCartRequest{ID: "1", ColorCode: 1, StorageCode: 2, Product: &iphone},
			setupMock: func(m *remotetest.MockClient) {
				m.On("AddToCart", mock.Anything, wire).Return(nil, errors.New("503"))
			},
			wantErr:   true,
			wantItems: 0,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(remotetest.MockClient)
			tt.setupMock(client)
			store := newTestStore(client)

			resp, err := store.AddProductToCart(ctx, tt.req)

			state := store.State()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 1, resp.Count)
				assert.Equal(t, tt.wantBrand, state.CartItems[0].Product.Brand)
			}
			assert.Len(t, state.CartItems, tt.wantItems)
			assert.Equal(t, tt.wantCount, state.CartCount)

			client.AssertExpectations(t)
		})
	}
}

func TestStore_AddProductToCart_ExistingLineKeepsSnapshot(t *testing.T) {
	client := new(remotetest.MockClient)
	client.On("AddToCart", mock.Anything, mock.Anything).Return(&model.AddToCartResponse{Count: 2}, nil)
	store := newTestStore(client)
	store.AddToCart(iphone, 1, 2, 1)

	_, err := store.AddProductToCart(context.Background(), model.AddToCartRequest{ID: "1", ColorCode: 1, StorageCode: 2})
	require.NoError(t, err)

	client.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "809", items[0].Product.Price)
}

func TestStore_AddProductToCart_SyncsCountBeforeReconciling(t *testing.T) {
	client := new(remotetest.MockClient)
	client.On("AddToCart", mock.Anything, mock.Anything).Return(&model.AddToCartResponse{Count: 7}, nil)
	store := newTestStore(client)

	var counts []int
	store.Subscribe(func(s model.CartState) { counts = append(counts, s.CartCount) })

	_, err := store.AddProductToCart(context.Background(), model.AddToCartRequest{ID: "1", Product: &iphone})
	require.NoError(t, err)

	assert.Equal(t, []int{7, 1}, counts)
}
