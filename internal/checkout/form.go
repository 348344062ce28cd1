package checkout

import (
	"context"
	"fmt"

	"storefront/internal/model"
)

// OrderSubmitter places an order for the given customer.
type OrderSubmitter interface {
	Submit(ctx context.Context, details model.CustomerDetails) model.CheckoutResponse
}

// Form is the checkout form: the entered details and the errors from the
// last validation.
type Form struct {
	Details model.CustomerDetails
	Errors  FieldErrors
}

// Set updates one field and clears that field's error only.
func (f *Form) Set(field, value string) error {
	switch field {
	case FieldFirstName:
		f.Details.FirstName = value
	case FieldLastName:
		f.Details.LastName = value
	case FieldEmail:
		f.Details.Email = value
	case FieldPhone:
		f.Details.Phone = value
	case FieldAddress:
		f.Details.Address = value
	case FieldCity:
		f.Details.City = value
	case FieldZipCode:
		f.Details.ZipCode = value
	default:
		return fmt.Errorf("unknown checkout field %q", field)
	}

	delete(f.Errors, field)
	return nil
}

// Validate re-validates every field and reports whether the form is valid.
func (f *Form) Validate() bool {
	f.Errors = Validate(f.Details)
	return len(f.Errors) == 0
}

// Submit validates the form and, only when it is valid, places the order.
// ok is false when validation failed and nothing was submitted.
func (f *Form) Submit(ctx context.Context, orders OrderSubmitter) (resp model.CheckoutResponse, ok bool) {
	if !f.Validate() {
		return model.CheckoutResponse{}, false
	}
	return orders.Submit(ctx, f.Details), true
}
