package checkout

import (
	"context"
	"errors"
	"sync"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// CheckoutAPI posts orders to the remote store.
type CheckoutAPI interface {
	Checkout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResponse, error)
}

// Cart is the part of the cart store the orchestrator needs.
type Cart interface {
	Items() []model.CartItem
	ClearCart()
}

// State describes the most recent submission.
type State struct {
	IsLoading bool                    `json:"isLoading"`
	IsSuccess bool                    `json:"isSuccess"`
	IsError   bool                    `json:"isError"`
	Err       error                   `json:"-"`
	Error     string                  `json:"error,omitempty"`
	OrderData *model.CheckoutResponse `json:"orderData,omitempty"`
}

const unknownErrorMessage = "Error desconocido en el proceso de checkout"

// Orchestrator submits the cart as an order and clears it on success.
type Orchestrator struct {
	api    CheckoutAPI
	cart   Cart
	logger zerolog.Logger

	mu    sync.Mutex
	state State
}

// NewOrchestrator creates an orchestrator over cart.
func NewOrchestrator(api CheckoutAPI, cart Cart, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		api:    api,
		cart:   cart,
		logger: logger.With().Str("component", "checkout").Logger(),
	}
}

// Submit places an order for the current cart contents. It does not
// validate details. Failures are reported in the returned response, never
// as an error.
func (o *Orchestrator) Submit(ctx context.Context, details model.CustomerDetails) model.CheckoutResponse {
	o.setState(State{IsLoading: true})

	items := o.cart.Items()
	req := model.CheckoutRequest{
		CustomerDetails: details,
		Items:           make([]model.CheckoutItem, 0, len(items)),
	}
	for _, item := range items {
		req.Items = append(req.Items, model.CheckoutItem{
			ID:          item.Product.ID,
			ColorCode:   item.ColorCode,
			StorageCode: item.StorageCode,
			Quantity:    item.Quantity,
		})
	}

	resp, err := o.api.Checkout(ctx, req)
	if err != nil {
		o.logger.Error().Err(err).Int("items", len(req.Items)).Msg("checkout failed")
		o.fail(err, nil)
		return model.CheckoutResponse{Success: false, Message: err.Error()}
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = unknownErrorMessage
		}
		o.logger.Warn().Str("message", msg).Msg("checkout rejected")
		o.fail(errors.New(msg), resp)
		return model.CheckoutResponse{Success: false, OrderID: resp.OrderID, Message: msg}
	}

	o.cart.ClearCart()
	o.setState(State{IsSuccess: true, OrderData: resp})
	o.logger.Info().Str("order_id", resp.OrderID).Int("items", len(req.Items)).Msg("order placed")

	return *resp
}

// State returns the state of the most recent submission.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) fail(err error, resp *model.CheckoutResponse) {
	o.setState(State{IsError: true, Err: err, Error: err.Error(), OrderData: resp})
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}
