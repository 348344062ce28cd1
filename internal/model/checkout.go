package model

// CustomerDetails holds the seven checkout form fields.
type CustomerDetails struct {
	FirstName string `json:"firstName" schema:"firstName"`
	LastName  string `json:"lastName" schema:"lastName"`
	Email     string `json:"email" schema:"email"`
	Phone     string `json:"phone" schema:"phone"`
	Address   string `json:"address" schema:"address"`
	City      string `json:"city" schema:"city"`
	ZipCode   string `json:"zipCode" schema:"zipCode"`
}

// CheckoutItem is a cart line as sent to the checkout endpoint.
type CheckoutItem struct {
	ID          string `json:"id"`
	ColorCode   int    `json:"colorCode"`
	StorageCode int    `json:"storageCode"`
	Quantity    int    `json:"quantity"`
}

// CheckoutRequest is the POST /checkout payload.
type CheckoutRequest struct {
	CustomerDetails CustomerDetails `json:"customerDetails"`
	Items           []CheckoutItem  `json:"items"`
}

// CheckoutResponse is the POST /checkout response.
type CheckoutResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId,omitempty"`
	Message string `json:"message,omitempty"`
}
