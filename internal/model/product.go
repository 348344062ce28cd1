package model

import "fmt"

// Option is a selectable product variant such as a colour or a storage size.
// Codes are unique only within their own list.
type Option struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// Options groups the variant lists a product offers.
type Options struct {
	Colors   []Option `json:"colors"`
	Storages []Option `json:"storages"`
}

// Product represents a phone in the remote catalogue.
// Price is string-encoded and may be empty or non-numeric.
type Product struct {
	ID      string  `json:"id"`
	Brand   string  `json:"brand"`
	Model   string  `json:"model"`
	Price   string  `json:"price"`
	ImgURL  string  `json:"imgUrl"`
	Options Options `json:"options"`

	// Detail-only fields returned by GET /product/{id}.
	CPU               string `json:"cpu,omitempty"`
	RAM               string `json:"ram,omitempty"`
	OS                string `json:"os,omitempty"`
	DisplayResolution string `json:"displayResolution,omitempty"`
	Battery           string `json:"battery,omitempty"`
	PrimaryCamera     any    `json:"primaryCamera,omitempty"`
	Dimensions        string `json:"dimentions,omitempty"`
	Weight            string `json:"weight,omitempty"`
}

// HasColor reports whether code is one of the product's colour options.
func (p Product) HasColor(code int) bool {
	return hasOption(p.Options.Colors, code)
}

// HasStorage reports whether code is one of the product's storage options.
func (p Product) HasStorage(code int) bool {
	return hasOption(p.Options.Storages, code)
}

// CheckVariant returns a *VariantError when colorCode or storageCode is not
// among the product's options.
func (p Product) CheckVariant(colorCode, storageCode int) error {
	fields := make(map[string]string)
	if !p.HasColor(colorCode) {
		fields["colorCode"] = fmt.Sprintf("colour %d is not offered for this product", colorCode)
	}
	if !p.HasStorage(storageCode) {
		fields["storageCode"] = fmt.Sprintf("storage %d is not offered for this product", storageCode)
	}
	if len(fields) == 0 {
		return nil
	}
	return &VariantError{ProductID: p.ID, Fields: fields}
}

func hasOption(options []Option, code int) bool {
	for _, o := range options {
		if o.Code == code {
			return true
		}
	}
	return false
}
