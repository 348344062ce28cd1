// Package listing windows the product catalogue into pages that grow as the
// shopper scrolls, with a search filter over brand and model.
package listing

import (
	"context"
	"strings"
	"sync"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// DefaultPageSize is the number of products added per page.
const DefaultPageSize = 20

// ProductSource supplies the full catalogue.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	Refetch(ctx context.Context) ([]model.Product, error)
}

// View is what a product list UI renders.
type View struct {
	Products      []model.Product `json:"products"`
	FilteredTotal int             `json:"filteredTotal"`
	SearchTerm    string          `json:"searchTerm"`
	CurrentPage   int             `json:"currentPage"`
	IsLoading     bool            `json:"isLoading"`
	IsLoadingMore bool            `json:"isLoadingMore"`
	HasMore       bool            `json:"hasMore"`
	ShowSkeleton  bool            `json:"showSkeleton"`
	Error         string          `json:"error,omitempty"`
}

// Controller owns the fetched catalogue, the search term and the page
// cursor. It is safe for concurrent use.
type Controller struct {
	source  ProductSource
	perPage int
	delay   time.Duration
	logger  zerolog.Logger

	mu          sync.Mutex
	all         []model.Product
	loaded      bool
	search      string
	page        int
	loading     bool
	loadingMore bool
	err         error
	loadSeq     uint64
	generation  uint64
	timer       *time.Timer
}

// NewController creates a controller. A zero delay makes LoadMore advance
// the page before returning.
func NewController(source ProductSource, perPage int, delay time.Duration, logger zerolog.Logger) *Controller {
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	return &Controller{
		source:  source,
		perPage: perPage,
		delay:   delay,
		logger:  logger.With().Str("component", "listing").Logger(),
		page:    1,
	}
}

// Load fetches the catalogue, from cache when fresh. A failure is kept in
// the view until the next successful load.
func (c *Controller) Load(ctx context.Context) error {
	return c.fetch(ctx, c.source.ListProducts)
}

// Refetch reloads the catalogue from the remote API, skipping the cache.
func (c *Controller) Refetch(ctx context.Context) error {
	return c.fetch(ctx, c.source.Refetch)
}

func (c *Controller) fetch(ctx context.Context, fn func(context.Context) ([]model.Product, error)) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	products, err := fn(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer load owns the state now.
	if seq != c.loadSeq {
		return err
	}

	c.loading = false
	if err != nil {
		c.err = err
		c.logger.Error().Err(err).Msg("failed to load products")
		return err
	}

	c.all = products
	c.loaded = true
	c.logger.Debug().Int("count", len(products)).Msg("products loaded")
	return nil
}

// Replace swaps in a catalogue fetched elsewhere, such as by a scheduled
// refresh. The search term and page are kept.
func (c *Controller) Replace(products []model.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.all = products
	c.loaded = true
	c.err = nil
	c.logger.Debug().Int("count", len(products)).Msg("products replaced")
}

// SetSearch changes the filter. A different term resets the window to the
// first page and abandons any pending load-more.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if term == c.search {
		return
	}

	c.search = term
	c.page = 1
	c.loadingMore = false
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// LoadMore grows the window by one page. It does nothing, and returns
// false, while a load or load-more is in flight or when everything is
// already shown.
func (c *Controller) LoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading || c.loadingMore || !c.hasMoreLocked() {
		return false
	}

	c.loadingMore = true
	gen := c.generation

	if c.delay <= 0 {
		c.advanceLocked(gen)
		return true
	}

	c.timer = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.advanceLocked(gen)
	})
	return true
}

// advanceLocked completes a load-more started in generation gen.
// Completions from before a search change are dropped.
func (c *Controller) advanceLocked(gen uint64) {
	if gen != c.generation {
		c.logger.Debug().Msg("discarding stale load-more")
		return
	}
	c.page++
	c.loadingMore = false
	c.timer = nil
}

// View returns the current window.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := c.filteredLocked()
	view := View{
		FilteredTotal: len(filtered),
		SearchTerm:    c.search,
		CurrentPage:   c.page,
		IsLoading:     c.loading,
		IsLoadingMore: c.loadingMore,
		ShowSkeleton:  c.loading && !c.loaded,
		Products:      []model.Product{},
	}
	if c.err != nil {
		view.Error = c.err.Error()
	}
	if view.ShowSkeleton {
		return view
	}

	displayed := c.displayedLocked(filtered)
	view.Products = append(view.Products, displayed...)
	view.HasMore = len(displayed) < len(filtered)
	return view
}

// Close stops a pending load-more timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) hasMoreLocked() bool {
	filtered := c.filteredLocked()
	return len(c.displayedLocked(filtered)) < len(filtered)
}

func (c *Controller) displayedLocked(filtered []model.Product) []model.Product {
	end := c.page * c.perPage
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[:end]
}

func (c *Controller) filteredLocked() []model.Product {
	if c.search == "" {
		return c.all
	}
	return Filter(c.all, c.search)
}

// Filter returns the products whose brand or model contains term,
// ignoring case.
func Filter(products []model.Product, term string) []model.Product {
	needle := strings.ToLower(term)
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Brand), needle) || strings.Contains(strings.ToLower(p.Model), needle) {
			out = append(out, p)
		}
	}
	return out
}
