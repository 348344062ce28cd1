package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/listing"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// ProductList is the windowed product list.
type ProductList interface {
	View() listing.View
	SetSearch(term string)
	LoadMore() bool
	Refetch(ctx context.Context) error
}

// VisibilityTrigger fires the list's visibility signal.
type VisibilityTrigger interface {
	Signal()
}

// ProductDetails loads a single product.
type ProductDetails interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
}

// SearchRequest is the body of POST /api/products/search.
type SearchRequest struct {
	Term string `json:"term"`
}

// LoadMoreResponse reports whether a load-more was started.
type LoadMoreResponse struct {
	Started bool         `json:"started"`
	View    listing.View `json:"view"`
}

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	list     ProductList
	sentinel VisibilityTrigger
	details  ProductDetails
	logger   zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(list ProductList, sentinel VisibilityTrigger, details ProductDetails, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		list:     list,
		sentinel: sentinel,
		details:  details,
		logger:   logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products. An optional ?search= sets the filter.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("search") {
		h.list.SetSearch(strings.TrimSpace(r.URL.Query().Get("search")))
	}
	writeJSON(w, http.StatusOK, h.list.View())
}

// Search handles POST /api/products/search.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	h.list.SetSearch(strings.TrimSpace(req.Term))
	writeJSON(w, http.StatusOK, h.list.View())
}

// LoadMore handles POST /api/products/more, the manual "load more" button.
func (h *ProductHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	started := h.list.LoadMore()
	writeJSON(w, http.StatusOK, LoadMoreResponse{Started: started, View: h.list.View()})
}

// Visible handles POST /api/products/visible, sent when the end of the
// list scrolls into view.
func (h *ProductHandler) Visible(w http.ResponseWriter, r *http.Request) {
	h.sentinel.Signal()
	w.WriteHeader(http.StatusAccepted)
}

// Refetch handles POST /api/products/refetch.
func (h *ProductHandler) Refetch(w http.ResponseWriter, r *http.Request) {
	if err := h.list.Refetch(r.Context()); err != nil {
		writeError(w, r, http.StatusBadGateway, model.ErrCodeRemoteUnavailable,
			"Se ha producido un error al cargar los productos.", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.list.View())
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, err := h.details.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeDomainError(w, r, model.ErrProductNotFound, h.logger)
			return
		}
		writeDomainError(w, r, model.ErrRemoteUnavailable, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}
