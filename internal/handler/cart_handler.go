package handler

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/model"
	"storefront/internal/pricing"

	"github.com/rs/zerolog"
)

// CartStore is the cart the handlers operate on.
type CartStore interface {
	State() model.CartState
	AddProductToCart(ctx context.Context, req model.AddToCartRequest) (*model.AddToCartResponse, error)
	UpdateQuantity(id string, quantity int)
	RemoveFromCart(id string)
	ClearCart()
	DismissLastAdded()
}

// VariantChecker confirms that a product offers a colour and storage code.
type VariantChecker interface {
	CheckVariant(ctx context.Context, id string, colorCode, storageCode int) error
}

// TotalsSource supplies the current cart totals.
type TotalsSource interface {
	Current() pricing.Totals
}

// Notifier queues user-facing messages.
type Notifier interface {
	Success(message string) string
	Error(message string) string
}

// CartResponse is the cart as rendered by the UI.
type CartResponse struct {
	Items     []model.CartItem        `json:"items"`
	Count     int                     `json:"count"`
	LastAdded *model.LastAdded        `json:"lastAdded,omitempty"`
	Totals    pricing.Totals          `json:"totals"`
	Formatted pricing.FormattedTotals `json:"formatted"`
}

// NewCartResponse renders a cart state and its totals.
func NewCartResponse(state model.CartState, totals pricing.Totals) CartResponse {
	items := state.CartItems
	if items == nil {
		items = []model.CartItem{}
	}
	return CartResponse{
		Items:     items,
		Count:     state.CartCount,
		LastAdded: state.LastAddedProduct,
		Totals:    totals,
		Formatted: totals.Formatted(),
	}
}

// UpdateQuantityRequest is the body of PUT /api/cart/{id}.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

const (
	msgAdded     = "Producto añadido al carrito"
	msgAddFailed = "No se pudo añadir el producto al carrito"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	cart     CartStore
	variants VariantChecker
	totals   TotalsSource
	notes    Notifier
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart CartStore, variants VariantChecker, totals TotalsSource, notes Notifier, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		cart:     cart,
		variants: variants,
		totals:   totals,
		notes:    notes,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.response())
}

// Add handles POST /api/cart.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.AddToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if req.ID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "product ID is required", h.logger)
		return
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		writeDomainError(w, r, model.ErrInvalidQuantity, h.logger)
		return
	}

	if err := h.variants.CheckVariant(r.Context(), req.ID, req.ColorCode, req.StorageCode); err != nil {
		h.writeVariantError(w, r, err)
		return
	}

	if _, err := h.cart.AddProductToCart(r.Context(), req); err != nil {
		h.notes.Error(msgAddFailed)
		writeError(w, r, http.StatusBadGateway, model.ErrCodeRemoteUnavailable, msgAddFailed, h.logger)
		return
	}

	h.notes.Success(msgAdded)
	writeJSON(w, http.StatusOK, h.response())
}

// Update handles PUT /api/cart/{id}.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Quantity < 1 {
		writeDomainError(w, r, model.ErrInvalidQuantity, h.logger)
		return
	}
	if !h.hasItem(id) {
		writeDomainError(w, r, model.ErrItemNotFound, h.logger)
		return
	}

	h.cart.UpdateQuantity(id, req.Quantity)
	writeJSON(w, http.StatusOK, h.response())
}

// Remove handles DELETE /api/cart/{id}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.hasItem(id) {
		writeDomainError(w, r, model.ErrItemNotFound, h.logger)
		return
	}

	h.cart.RemoveFromCart(id)
	writeJSON(w, http.StatusOK, h.response())
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearCart()
	writeJSON(w, http.StatusOK, h.response())
}

// DismissLastAdded handles DELETE /api/cart/last-added.
func (h *CartHandler) DismissLastAdded(w http.ResponseWriter, r *http.Request) {
	h.cart.DismissLastAdded()
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) hasItem(id string) bool {
	for _, item := range h.cart.State().CartItems {
		if item.ID == id {
			return true
		}
	}
	return false
}

func (h *CartHandler) writeVariantError(w http.ResponseWriter, r *http.Request, err error) {
	var variantErr *model.VariantError
	switch {
	case errors.As(err, &variantErr):
		writeErrorResponse(w, r, http.StatusUnprocessableEntity, model.ErrorResponse{
			Error:   model.ErrCodeValidation,
			Message: variantErr.Error(),
			Fields:  variantErr.Fields,
		}, h.logger)
	case errors.Is(err, model.ErrProductNotFound):
		writeDomainError(w, r, model.ErrProductNotFound, h.logger)
	default:
		writeDomainError(w, r, model.ErrRemoteUnavailable, h.logger)
	}
}

func (h *CartHandler) response() CartResponse {
	return NewCartResponse(h.cart.State(), h.totals.Current())
}
