package catalog

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refresher periodically refetches the product list so the cache stays warm
// and hands each fresh list to its listeners.
type Refresher struct {
	service   *Service
	cron      *cron.Cron
	timeout   time.Duration
	listeners []func([]model.Product)
	logger    zerolog.Logger
}

// NewRefresher schedules a catalogue refetch on the given cron spec
// (e.g. "@every 30m").
func NewRefresher(service *Service, schedule string, timeout time.Duration, logger zerolog.Logger) (*Refresher, error) {
	r := &Refresher{
		service: service,
		cron:    cron.New(),
		timeout: timeout,
		logger:  logger.With().Str("component", "catalog-refresher").Logger(),
	}

	if _, err := r.cron.AddFunc(schedule, r.Run); err != nil {
		return nil, fmt.Errorf("failed to schedule catalog refresh %q: %w", schedule, err)
	}

	return r, nil
}

// OnRefresh registers fn to receive every successfully refreshed list.
// Listeners must be registered before Start.
func (r *Refresher) OnRefresh(fn func([]model.Product)) {
	r.listeners = append(r.listeners, fn)
}

// Run refetches the catalogue once.
func (r *Refresher) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	products, err := r.service.Refetch(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Msg("scheduled catalog refresh failed")
		return
	}
	r.logger.Info().Int("count", len(products)).Msg("catalog refreshed")

	for _, fn := range r.listeners {
		fn(products)
	}
}

// Start begins running scheduled refreshes in the background.
func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop stops scheduling and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}
