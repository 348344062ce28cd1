// Package cart owns the shopping cart: its line items, the synchronised cart
// count, and the write-through persistence of both.
package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Observer receives a snapshot of the cart after every change. Observers run
// in mutation order and must not call back into the store; the snapshot is
// all they get.
type Observer func(model.CartState)

// CartAPI posts cart additions to the remote store.
type CartAPI interface {
	AddToCart(ctx context.Context, req model.CartRequest) (*model.AddToCartResponse, error)
}

// ProductFetcher loads product details by id.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
}

// PlaceholderProduct stands in for a product whose details could not be
// fetched after a successful remote add.
func PlaceholderProduct(id string) model.Product {
	return model.Product{
		ID:    id,
		Brand: "Produto",
		Model: "Adicionado",
		Price: "0",
	}
}

// Store is the single source of truth for one shopper's cart.
type Store struct {
	api      CartAPI
	products ProductFetcher
	logger   zerolog.Logger

	mu        sync.Mutex
	state     model.CartState
	observers map[int]Observer
	nextObsID int

	// notifyMu is taken before mu is released so observers see changes in
	// the order they were made.
	notifyMu sync.Mutex

	lastAddedTTL   time.Duration
	lastAddedTimer *time.Timer
	lastAddedSeq   uint64

	now func() time.Time
}

// NewStore creates an empty cart. A positive lastAddedTTL clears the
// last-added marker that long after each add.
func NewStore(api CartAPI, products ProductFetcher, lastAddedTTL time.Duration, logger zerolog.Logger) *Store {
	return &Store{
		api:          api,
		products:     products,
		logger:       logger.With().Str("component", "cart").Logger(),
		state:        model.CartState{CartItems: []model.CartItem{}},
		observers:    make(map[int]Observer),
		lastAddedTTL: lastAddedTTL,
		now:          time.Now,
	}
}

// Subscribe registers an observer and returns a function that removes it.
func (s *Store) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = o
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// State returns a copy of the current cart.
func (s *Store) State() model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []model.CartItem {
	return s.State().CartItems
}

// Count returns the cart count.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CartCount
}

// AddToCart adds quantity units of a product variant. Adding a variant that
// is already in the cart increases its quantity. Quantities below 1 add one
// unit.
func (s *Store) AddToCart(product model.Product, colorCode, storageCode, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	next := addItem(s.state, product, colorCode, storageCode, quantity, s.now())
	s.scheduleLastAddedClearLocked()
	s.commitLocked(next)

	s.logger.Debug().
		Str("item_id", model.CartItemID(product.ID, colorCode, storageCode)).
		Int("quantity", quantity).
		Int("cart_count", next.CartCount).
		Msg("item added to cart")
}

// RemoveFromCart deletes a line. Unknown ids are ignored.
func (s *Store) RemoveFromCart(id string) {
	s.mu.Lock()
	s.commitLocked(removeItem(s.state, id))
}

// UpdateQuantity sets a line's quantity. Unknown ids are ignored.
func (s *Store) UpdateQuantity(id string, quantity int) {
	s.mu.Lock()
	s.commitLocked(updateQuantity(s.state, id, quantity))
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.mu.Lock()
	s.stopLastAddedTimerLocked()
	s.commitLocked(clearCart(s.state))
}

// SyncCount sets the cart count reported by the remote store.
func (s *Store) SyncCount(count int) {
	s.mu.Lock()
	s.commitLocked(syncCount(s.state, count))
}

// DismissLastAdded clears the last-added marker.
func (s *Store) DismissLastAdded() {
	s.mu.Lock()
	s.stopLastAddedTimerLocked()
	if s.state.LastAddedProduct == nil {
		s.mu.Unlock()
		return
	}
	s.commitLocked(dismissLastAdded(s.state))
}

// Close stops the pending last-added timer so no notification fires after
// shutdown. The marker is left as it is.
func (s *Store) Close() {
	s.mu.Lock()
	s.stopLastAddedTimerLocked()
	s.mu.Unlock()
}

// Hydrate replaces the cart with a restored record in one step. A count that
// disagrees with the items is repaired to the quantity sum. The last-added
// marker is not restored.
func (s *Store) Hydrate(state model.CartState) {
	restored, repaired := repairCount(state.Clone())
	if repaired {
		s.logger.Warn().
			Int("stored_count", state.CartCount).
			Int("repaired_count", restored.CartCount).
			Msg("restored cart count did not match its items")
	}
	restored.LastAddedProduct = nil
	if restored.CartItems == nil {
		restored.CartItems = []model.CartItem{}
	}

	s.mu.Lock()
	s.stopLastAddedTimerLocked()
	s.commitLocked(restored)
}

// AddProductToCart registers the add with the remote store, then records it
// locally. A remote failure leaves the local cart untouched and is returned.
// When req.Product is nil and the variant is not already in the cart, the
// product is fetched by id; if that fails a placeholder is used.
func (s *Store) AddProductToCart(ctx context.Context, req model.AddToCartRequest) (*model.AddToCartResponse, error) {
	resp, err := s.api.AddToCart(ctx, model.CartRequest{
		ID:          req.ID,
		ColorCode:   req.ColorCode,
		StorageCode: req.StorageCode,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ID).Msg("failed to add product to remote cart")
		return nil, fmt.Errorf("failed to add product to cart: %w", err)
	}

	s.SyncCount(resp.Count)

	quantity := 1
	if req.Quantity != nil && *req.Quantity > 0 {
		quantity = *req.Quantity
	}

	product := s.snapshotFor(ctx, req)
	s.AddToCart(product, req.ColorCode, req.StorageCode, quantity)

	return resp, nil
}

func (s *Store) snapshotFor(ctx context.Context, req model.AddToCartRequest) model.Product {
	if req.Product != nil {
		return *req.Product
	}

	id := model.CartItemID(req.ID, req.ColorCode, req.StorageCode)
	s.mu.Lock()
	if idx := indexOf(s.state, id); idx >= 0 {
		product := s.state.CartItems[idx].Product
		s.mu.Unlock()
		return product
	}
	s.mu.Unlock()

	product, err := s.products.GetProduct(ctx, req.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("product_id", req.ID).Msg("failed to fetch product details, using placeholder")
		return PlaceholderProduct(req.ID)
	}
	return *product
}

// commitLocked installs next and notifies observers. It must be called with
// mu held and releases it.
func (s *Store) commitLocked(next model.CartState) {
	s.state = next
	snapshot := next.Clone()

	observers := make([]Observer, 0, len(s.observers))
	for id := 0; id < s.nextObsID; id++ {
		if o, ok := s.observers[id]; ok {
			observers = append(observers, o)
		}
	}

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, o := range observers {
		o(snapshot.Clone())
	}
}

func (s *Store) scheduleLastAddedClearLocked() {
	s.stopLastAddedTimerLocked()
	if s.lastAddedTTL <= 0 {
		return
	}

	s.lastAddedSeq++
	seq := s.lastAddedSeq
	s.lastAddedTimer = time.AfterFunc(s.lastAddedTTL, func() {
		s.mu.Lock()
		if seq != s.lastAddedSeq || s.state.LastAddedProduct == nil {
			s.mu.Unlock()
			return
		}
		s.lastAddedTimer = nil
		s.commitLocked(dismissLastAdded(s.state))
	})
}

func (s *Store) stopLastAddedTimerLocked() {
	s.lastAddedSeq++
	if s.lastAddedTimer != nil {
		s.lastAddedTimer.Stop()
		s.lastAddedTimer = nil
	}
}
