package cart

import (
	"time"

	"storefront/internal/model"
)

// The functions in this file are the cart's state transitions. Each returns a
// new state and leaves its input untouched.

func addItem(s model.CartState, product model.Product, colorCode, storageCode, quantity int, at time.Time) model.CartState {
	next := s.Clone()
	id := model.CartItemID(product.ID, colorCode, storageCode)

	found := false
	for i := range next.CartItems {
		if next.CartItems[i].ID == id {
			next.CartItems[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		next.CartItems = append(next.CartItems, model.CartItem{
			ID:          id,
			Product:     product,
			Quantity:    quantity,
			ColorCode:   colorCode,
			StorageCode: storageCode,
		})
	}

	next.CartCount = next.QuantitySum()
	next.LastAddedProduct = &model.LastAdded{
		Product:     product,
		ColorCode:   colorCode,
		StorageCode: storageCode,
		Quantity:    quantity,
		AddedAt:     at,
	}
	return next
}

func removeItem(s model.CartState, id string) model.CartState {
	idx := indexOf(s, id)
	if idx < 0 {
		return s
	}

	next := s.Clone()
	removed := next.CartItems[idx]
	next.CartItems = append(next.CartItems[:idx], next.CartItems[idx+1:]...)
	next.CartCount -= removed.Quantity
	return next
}

// updateQuantity does not clamp; callers keep quantity >= 1.
func updateQuantity(s model.CartState, id string, quantity int) model.CartState {
	idx := indexOf(s, id)
	if idx < 0 {
		return s
	}

	next := s.Clone()
	delta := quantity - next.CartItems[idx].Quantity
	next.CartItems[idx].Quantity = quantity
	next.CartCount += delta
	return next
}

func clearCart(model.CartState) model.CartState {
	return model.CartState{CartItems: []model.CartItem{}}
}

func syncCount(s model.CartState, count int) model.CartState {
	next := s.Clone()
	next.CartCount = count
	return next
}

func dismissLastAdded(s model.CartState) model.CartState {
	next := s.Clone()
	next.LastAddedProduct = nil
	return next
}

// repairCount reports whether the count disagreed with the items and returns
// a state whose count is the quantity sum.
func repairCount(s model.CartState) (model.CartState, bool) {
	sum := s.QuantitySum()
	if s.CartCount == sum {
		return s, false
	}
	next := s.Clone()
	next.CartCount = sum
	return next, true
}

func indexOf(s model.CartState, id string) int {
	for i, item := range s.CartItems {
		if item.ID == id {
			return i
		}
	}
	return -1
}
