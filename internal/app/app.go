// Package app assembles the storefront from configuration.
package app

import (
	"context"
	"net/http"
	"sync"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/listing"
	"storefront/internal/notify"
	"storefront/internal/pricing"
	"storefront/internal/remote"
	"storefront/internal/router"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

// App holds the wired components of a running storefront.
type App struct {
	Remote        remote.Client
	Catalog       *catalog.Service
	Cart          *cart.Store
	Totals        *pricing.Engine
	Listing       *listing.Controller
	Sentinel      *listing.Sentinel
	Checkout      *checkout.Orchestrator
	Notifications *notify.Queue

	cfg       *config.Config
	backend   storage.Backend
	refresher *catalog.Refresher
	logger    zerolog.Logger

	closers   []func()
	releases  []func()
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New builds an App from cfg. The cart record is restored from storage
// before New returns; background work starts with Start.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger.With().Str("component", "app").Logger(),
	}

	backend, err := a.openBackend(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.backend = backend

	client := remote.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)
	return a.wire(ctx, client, backend, logger)
}

// NewWithDeps builds an App around an existing remote client and backend.
// The backend is closed by Close.
func NewWithDeps(ctx context.Context, cfg *config.Config, client remote.Client, backend storage.Backend, logger zerolog.Logger) (*App, error) {
	a := &App{
		cfg:     cfg,
		backend: backend,
		logger:  logger.With().Str("component", "app").Logger(),
	}
	return a.wire(ctx, client, backend, logger)
}

func (a *App) wire(ctx context.Context, client remote.Client, backend storage.Backend, logger zerolog.Logger) (*App, error) {
	cfg := a.cfg

	a.Remote = client
	a.Catalog = catalog.NewService(client, backend, cfg.Catalog.CacheTTL, logger)

	if cfg.Catalog.RefreshSchedule != "" {
		refresher, err := catalog.NewRefresher(a.Catalog, cfg.Catalog.RefreshSchedule, cfg.API.Timeout, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.refresher = refresher
	}

	a.Cart = cart.NewStore(client, a.Catalog, cfg.Cart.LastAddedTTL, logger)
	a.closers = append(a.closers, a.Cart.Close)

	persister := cart.NewPersister(backend, cfg.Storage.CartKey, logger)
	if err := persister.Restore(ctx, a.Cart); err != nil {
		// A damaged record must not keep the storefront down.
		a.logger.Warn().Err(err).Msg("failed to restore cart, starting empty")
	}
	a.closers = append(a.closers, persister.Attach(a.Cart))

	a.Totals = pricing.NewEngine(a.Cart)
	a.closers = append(a.closers, a.Totals.Close)

	a.Listing = listing.NewController(a.Catalog, cfg.Listing.PageSize, cfg.Listing.LoadMoreDelay, logger)
	a.closers = append(a.closers, a.Listing.Close)
	a.Sentinel = listing.NewSentinel()
	if a.refresher != nil {
		a.refresher.OnRefresh(a.Listing.Replace)
	}

	a.Checkout = checkout.NewOrchestrator(client, a.Cart, logger)

	a.Notifications = notify.NewQueue(cfg.Cart.NotificationTimeout)
	a.closers = append(a.closers, a.Notifications.Close)

	return a, nil
}

// Handler returns the HTTP API.
func (a *App) Handler() http.Handler {
	return router.New(
		handler.NewProductHandler(a.Listing, a.Sentinel, a.Catalog, a.logger),
		handler.NewCartHandler(a.Cart, a.Catalog, a.Totals, a.Notifications, a.logger),
		handler.NewCheckoutHandler(a.Cart, a.Checkout, a.Notifications, a.logger),
		handler.NewNotificationHandler(a.Notifications, a.logger),
		a.logger,
	)
}

// Start loads the first page of products and starts the visibility watcher
// and the catalogue refresher. A failed initial load is logged and left in
// the listing view for a later refetch.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)

	if err := a.Listing.Load(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("initial product load failed")
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.Listing.Watch(ctx, a.Sentinel)
	}()

	if a.refresher != nil {
		a.refresher.Start()
		a.logger.Info().Str("schedule", a.cfg.Catalog.RefreshSchedule).Msg("catalog refresher started")
	}
}

// Close stops background work and releases storage. It is safe to call
// more than once.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}
		a.wg.Wait()

		if a.refresher != nil {
			a.refresher.Stop()
		}
		for i := len(a.closers) - 1; i >= 0; i-- {
			a.closers[i]()
		}
		if a.backend != nil {
			err = a.backend.Close()
		}
		for _, release := range a.releases {
			release()
		}
	})
	return err
}
