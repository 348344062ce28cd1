package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/listing"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductList is a mock implementation of ProductList.
type MockProductList struct {
	mock.Mock
}

func (m *MockProductList) View() listing.View {
	args := m.Called()
	return args.Get(0).(listing.View)
}

func (m *MockProductList) SetSearch(term string) {
	m.Called(term)
}

func (m *MockProductList) LoadMore() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockProductList) Refetch(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSentinel is a mock implementation of VisibilityTrigger.
type MockSentinel struct {
	mock.Mock
}

func (m *MockSentinel) Signal() {
	m.Called()
}

// MockProductDetails is a mock implementation of ProductDetails.
type MockProductDetails struct {
	mock.Mock
}

func (m *MockProductDetails) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

var testView = listing.View{
	Products:      []model.Product{{ID: "1", Brand: "Apple", Model: "iPhone 12", Price: "809"}},
	FilteredTotal: 1,
	CurrentPage:   1,
}

func TestProductHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantSearch string
	}{
		{name: "without search", query: ""},
		{name: "with search", query: "?search=+apple+", wantSearch: "apple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := new(MockProductList)
			list.On("View").Return(testView)
			if tt.query != "" {
				list.On("SetSearch", tt.wantSearch).Return()
			}

			h := NewProductHandler(list, new(MockSentinel), new(MockProductDetails), zerolog.Nop())

			req := httptest.NewRequest(http.MethodGet, "/api/products"+tt.query, nil)
			w := httptest.NewRecorder()
			h.List(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			var view listing.View
			require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
			assert.Equal(t, 1, view.FilteredTotal)
			list.AssertExpectations(t)
		})
	}
}

func TestProductHandler_Search(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectSearch   bool
	}{
		{
			name:           "valid term",
			body:           `{"term":"Galaxy"}`,
			expectedStatus: http.StatusOK,
			expectSearch:   true,
		},
		{
			name:           "invalid JSON",
			body:           `{"term":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown field",
			body:           `{"query":"x"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := new(MockProductList)
			if tt.expectSearch {
				list.On("SetSearch", "Galaxy").Return()
				list.On("View").Return(testView)
			}

			h := NewProductHandler(list, new(MockSentinel), new(MockProductDetails), zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/api/products/search", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Search(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			list.AssertExpectations(t)
		})
	}
}

func TestProductHandler_LoadMore(t *testing.T) {
	list := new(MockProductList)
	list.On("LoadMore").Return(false)
	list.On("View").Return(testView)

	h := NewProductHandler(list, new(MockSentinel), new(MockProductDetails), zerolog.Nop())

	w := httptest.NewRecorder()
	h.LoadMore(w, httptest.NewRequest(http.MethodPost, "/api/products/more", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp LoadMoreResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Started)
}

func TestProductHandler_Visible(t *testing.T) {
	sentinel := new(MockSentinel)
	sentinel.On("Signal").Return().Once()

	h := NewProductHandler(new(MockProductList), sentinel, new(MockProductDetails), zerolog.Nop())

	w := httptest.NewRecorder()
	h.Visible(w, httptest.NewRequest(http.MethodPost, "/api/products/visible", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	sentinel.AssertExpectations(t)
}

func TestProductHandler_Refetch(t *testing.T) {
	tests := []struct {
		name           string
		refetchErr     error
		expectedStatus int
	}{
		{"success", nil, http.StatusOK},
		{"remote failure", errors.New("timeout"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := new(MockProductList)
			list.On("Refetch", mock.Anything).Return(tt.refetchErr)
			list.On("View").Return(testView).Maybe()

			h := NewProductHandler(list, new(MockSentinel), new(MockProductDetails), zerolog.Nop())

			w := httptest.NewRecorder()
			h.Refetch(w, httptest.NewRequest(http.MethodPost, "/api/products/refetch", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestProductHandler_GetByID(t *testing.T) {
	tests := []struct {
		name           string
		productID      string
		mockReturn     *model.Product
		mockError      error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "found",
			productID:      "1",
			mockReturn:     &model.Product{ID: "1", Brand: "Apple", Model: "iPhone 12"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found",
			productID:      "999",
			mockError:      fmt.Errorf("%w: 999", model.ErrProductNotFound),
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeProductNotFound,
		},
		{
			name:           "remote unavailable",
			productID:      "1",
			mockError:      errors.New("connection refused"),
			expectedStatus: http.StatusBadGateway,
			expectedCode:   model.ErrCodeRemoteUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := new(MockProductDetails)
			if tt.mockReturn != nil {
				details.On("GetProduct", mock.Anything, tt.productID).Return(tt.mockReturn, nil)
			} else {
				details.On("GetProduct", mock.Anything, tt.productID).Return(nil, tt.mockError)
			}

			h := NewProductHandler(new(MockProductList), new(MockSentinel), details, zerolog.Nop())

			req := httptest.NewRequest(http.MethodGet, "/api/products/"+tt.productID, nil)
			req.SetPathValue("id", tt.productID)
			w := httptest.NewRecorder()
			h.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.expectedCode, resp.Error)
			}
			details.AssertExpectations(t)
		})
	}
}
