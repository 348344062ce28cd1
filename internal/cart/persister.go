package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

// DefaultKey is the storage key of the persisted cart record.
const DefaultKey = "cart-storage"

// Persister writes the cart record through to a storage backend whenever the
// store changes, and restores it on startup.
type Persister struct {
	backend storage.Backend
	key     string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewPersister creates a persister that stores the record under key.
func NewPersister(backend storage.Backend, key string, logger zerolog.Logger) *Persister {
	if key == "" {
		key = DefaultKey
	}
	return &Persister{
		backend: backend,
		key:     key,
		timeout: 5 * time.Second,
		logger:  logger.With().Str("component", "cart-persister").Logger(),
	}
}

// Attach subscribes the persister to store and returns the unsubscribe func.
func (p *Persister) Attach(store *Store) func() {
	return store.Subscribe(p.Save)
}

// Save writes state. Failures are logged; the in-memory cart stays
// authoritative.
func (p *Persister) Save(state model.CartState) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.save(ctx, state); err != nil {
		p.logger.Error().Err(err).Str("key", p.key).Msg("failed to persist cart")
	}
}

func (p *Persister) save(ctx context.Context, state model.CartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	return p.backend.Set(ctx, p.key, data)
}

// Load reads the stored record. ok is false when nothing is stored.
func (p *Persister) Load(ctx context.Context) (state model.CartState, ok bool, err error) {
	data, err := p.backend.Get(ctx, p.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.CartState{}, false, nil
		}
		return model.CartState{}, false, fmt.Errorf("failed to read cart record: %w", err)
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return model.CartState{}, false, fmt.Errorf("failed to decode cart record: %w", err)
	}
	return state, true, nil
}

// Restore loads the stored record into store. A missing record leaves the
// store empty.
func (p *Persister) Restore(ctx context.Context, store *Store) error {
	state, ok, err := p.Load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		p.logger.Debug().Str("key", p.key).Msg("no stored cart")
		return nil
	}

	store.Hydrate(state)
	p.logger.Info().
		Int("items", len(state.CartItems)).
		Int("cart_count", store.Count()).
		Msg("cart restored")
	return nil
}
