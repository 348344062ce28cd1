package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Message   string            `json:"message,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeValidation           = "VALIDATION_FAILED"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeItemNotFound         = "CART_ITEM_NOT_FOUND"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeRemoteUnavailable    = "REMOTE_UNAVAILABLE"
	ErrCodeNotificationNotFound = "NOTIFICATION_NOT_FOUND"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrItemNotFound      = NewDomainError(ErrCodeItemNotFound, "Cart item not found")
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrValidation        = NewDomainError(ErrCodeValidation, "One or more fields are invalid")
	ErrRemoteUnavailable = NewDomainError(ErrCodeRemoteUnavailable, "Remote store API is unavailable")
)

// VariantError reports colour or storage codes a product does not offer.
// It matches ErrValidation with errors.Is.
type VariantError struct {
	ProductID string
	Fields    map[string]string
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("product %s does not offer the requested variant", e.ProductID)
}

func (e *VariantError) Unwrap() error {
	return ErrValidation
}
