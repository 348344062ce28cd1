package handler

import (
	"mime"
	"net/http"

	"storefront/internal/checkout"
	"storefront/internal/model"

	"github.com/gorilla/schema"
	"github.com/rs/zerolog"
)

// CartItems reports what is in the cart.
type CartItems interface {
	Items() []model.CartItem
}

// CheckoutHandler handles checkout HTTP requests.
type CheckoutHandler struct {
	cart    CartItems
	orders  checkout.OrderSubmitter
	notes   Notifier
	decoder *schema.Decoder
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(cart CartItems, orders checkout.OrderSubmitter, notes Notifier, logger zerolog.Logger) *CheckoutHandler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &CheckoutHandler{
		cart:    cart,
		orders:  orders,
		notes:   notes,
		decoder: decoder,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Submit handles POST /api/checkout. The body is either JSON or a
// form-encoded set of customer fields.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	details, err := h.decode(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if len(h.cart.Items()) == 0 {
		writeDomainError(w, r, model.ErrEmptyCart, h.logger)
		return
	}

	form := checkout.Form{Details: details}
	resp, ok := form.Submit(r.Context(), h.orders)
	if !ok {
		writeErrorResponse(w, r, http.StatusUnprocessableEntity, model.ErrorResponse{
			Error:   model.ErrCodeValidation,
			Message: model.ErrValidation.Message,
			Fields:  form.Errors,
		}, h.logger)
		return
	}

	if !resp.Success {
		h.notes.Error(resp.Message)
		h.logger.Warn().Str("message", resp.Message).Msg("checkout failed")
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *CheckoutHandler) decode(r *http.Request) (model.CustomerDetails, error) {
	var details model.CustomerDetails

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return details, err
		}
		if err := h.decoder.Decode(&details, r.PostForm); err != nil {
			return details, err
		}
	default:
		if err := decodeJSON(r, &details); err != nil {
			return details, err
		}
	}
	return details, nil
}
