package cart

import (
	"context"
	"testing"

	"storefront/internal/model"
	"storefront/internal/remote/remotetest"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersister_WritesThroughOnEveryChange(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	store := newTestStore(new(remotetest.MockClient))

	p := NewPersister(backend, "", zerolog.Nop())
	p.Attach(store)

	store.AddToCart(iphone, 1, 2, 2)
	store.AddToCart(galaxy, 3, 1, 1)

	state, ok, err := p.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, state.CartCount)
	assert.Len(t, state.CartItems, 2)

	raw, err := backend.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cartItems"`)
	assert.Contains(t, string(raw), `"cartCount":3`)
}

func TestPersister_RestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()

	first := newTestStore(new(remotetest.MockClient))
	NewPersister(backend, "cart-storage", zerolog.Nop()).Attach(first)
	first.AddToCart(iphone, 1, 2, 2)
	first.AddToCart(galaxy, 3, 1, 1)
	first.UpdateQuantity("2-3-1", 4)

	second := newTestStore(new(remotetest.MockClient))
	require.NoError(t, NewPersister(backend, "cart-storage", zerolog.Nop()).Restore(ctx, second))

	assert.Equal(t, first.Items(), second.Items())
	assert.Equal(t, 6, second.Count())
}

func TestPersister_RestoreMissingRecord(t *testing.T) {
	store := newTestStore(new(remotetest.MockClient))

	err := NewPersister(storage.NewMemory(), "", zerolog.Nop()).Restore(context.Background(), store)
	require.NoError(t, err)
	assert.Zero(t, store.Count())
}

func TestPersister_RestoreCorruptRecord(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	require.NoError(t, backend.Set(ctx, DefaultKey, []byte("{broken")))

	store := newTestStore(new(remotetest.MockClient))
	err := NewPersister(backend, "", zerolog.Nop()).Restore(ctx, store)

	assert.Error(t, err)
	assert.Zero(t, store.Count())
}

func TestPersister_RestoreRepairsCount(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	require.NoError(t, backend.Set(ctx, DefaultKey, []byte(`{
		"cartItems":[{"id":"1-1-2","product":{"id":"1","brand":"Apple","model":"iPhone 12","price":"809"},"quantity":2,"colorCode":1,"storageCode":2}],
		"cartCount":5
	}`)))

	store := newTestStore(new(remotetest.MockClient))
	require.NoError(t, NewPersister(backend, "", zerolog.Nop()).Restore(ctx, store))

	assert.Equal(t, 2, store.Count())
	assert.Equal(t, []model.CartItem{{ID: "1-1-2", Product: iphone, Quantity: 2, ColorCode: 1, StorageCode: 2}}, store.Items())
}
