// Package checkout validates customer details and submits orders built from
// the cart.
package checkout

import (
	"regexp"
	"sort"
	"strings"

	"storefront/internal/model"
)

// Form field names, matching the JSON and form-encoded request fields.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldAddress   = "address"
	FieldCity      = "city"
	FieldZipCode   = "zipCode"
)

// Fields lists the form fields in display order.
var Fields = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldAddress,
	FieldCity,
	FieldZipCode,
}

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^\d{9,}$`)
	zipPattern   = regexp.MustCompile(`^\d{5}$`)
	whitespace   = regexp.MustCompile(`\s`)
)

// FieldErrors maps a field name to its error message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+e[f])
	}
	return "invalid checkout details: " + strings.Join(msgs, "; ")
}

// Validate checks every field and returns one message per invalid field,
// or nil when all are valid.
func Validate(d model.CustomerDetails) FieldErrors {
	errs := FieldErrors{}

	required(errs, FieldFirstName, d.FirstName, "El nombre es obligatorio")
	required(errs, FieldLastName, d.LastName, "El apellido es obligatorio")

	if required(errs, FieldEmail, d.Email, "El email es obligatorio") && !emailPattern.MatchString(d.Email) {
		errs[FieldEmail] = "El formato del email no es válido"
	}

	if required(errs, FieldPhone, d.Phone, "El teléfono es obligatorio") &&
		!phonePattern.MatchString(whitespace.ReplaceAllString(d.Phone, "")) {
		errs[FieldPhone] = "El teléfono debe tener al menos 9 dígitos"
	}

	required(errs, FieldAddress, d.Address, "La dirección es obligatoria")
	required(errs, FieldCity, d.City, "La ciudad es obligatoria")

	if required(errs, FieldZipCode, d.ZipCode, "El código postal es obligatorio") && !zipPattern.MatchString(d.ZipCode) {
		errs[FieldZipCode] = "El código postal debe tener 5 dígitos"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// required records msg when value is blank and reports whether it was not.
func required(errs FieldErrors, field, value, msg string) bool {
	if strings.TrimSpace(value) == "" {
		errs[field] = msg
		return false
	}
	return true
}
