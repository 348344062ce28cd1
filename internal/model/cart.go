package model

import (
	"fmt"
	"time"
)

// CartItem is one (product, colour, storage) line in the cart.
type CartItem struct {
	ID          string  `json:"id"`
	Product     Product `json:"product"`
	Quantity    int     `json:"quantity"`
	ColorCode   int     `json:"colorCode"`
	StorageCode int     `json:"storageCode"`
}

// LastAdded records the most recent add so the UI can show a confirmation.
type LastAdded struct {
	Product     Product   `json:"product"`
	ColorCode   int       `json:"colorCode"`
	StorageCode int       `json:"storageCode"`
	Quantity    int       `json:"quantity"`
	AddedAt     time.Time `json:"addedAt"`
}

// CartState is the persisted cart record.
type CartState struct {
	CartItems        []CartItem `json:"cartItems"`
	CartCount        int        `json:"cartCount"`
	LastAddedProduct *LastAdded `json:"lastAddedProduct,omitempty"`
}

// CartItemID builds the composite key of a cart line.
func CartItemID(productID string, colorCode, storageCode int) string {
	return fmt.Sprintf("%s-%d-%d", productID, colorCode, storageCode)
}

// QuantitySum returns the sum of all line quantities.
func (s CartState) QuantitySum() int {
	sum := 0
	for _, item := range s.CartItems {
		sum += item.Quantity
	}
	return sum
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s CartState) Clone() CartState {
	out := CartState{CartCount: s.CartCount}
	if s.CartItems != nil {
		out.CartItems = make([]CartItem, len(s.CartItems))
		copy(out.CartItems, s.CartItems)
	}
	if s.LastAddedProduct != nil {
		last := *s.LastAddedProduct
		out.LastAddedProduct = &last
	}
	return out
}

// AddToCartRequest is a local add-to-cart intent. Quantity and Product never
// leave the process.
type AddToCartRequest struct {
	ID          string   `json:"id"`
	ColorCode   int      `json:"colorCode"`
	StorageCode int      `json:"storageCode"`
	Quantity    *int     `json:"quantity,omitempty"`
	Product     *Product `json:"-"`
}

// CartRequest is the POST /cart wire payload.
type CartRequest struct {
	ID          string `json:"id"`
	ColorCode   int    `json:"colorCode"`
	StorageCode int    `json:"storageCode"`
}

// AddToCartResponse is the POST /cart response.
type AddToCartResponse struct {
	Count int `json:"count"`
}
