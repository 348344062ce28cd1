package checkout

import (
	"testing"

	"storefront/internal/model"

	"github.com/stretchr/testify/assert"
)

func validDetails() model.CustomerDetails {
	return model.CustomerDetails{
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@example.com",
		Phone:     "612 345 678",
		Address:   "Calle Mayor 1",
		City:      "Madrid",
		ZipCode:   "28013",
	}
}

func TestValidate_AllBlank(t *testing.T) {
	errs := Validate(model.CustomerDetails{})

	assert.Len(t, errs, 7)
	for _, field := range Fields {
		assert.NotEmpty(t, errs[field], field)
	}
}

func TestValidate_WhitespaceIsBlank(t *testing.T) {
	d := validDetails()
	d.City = "   "

	errs := Validate(d)
	assert.Equal(t, FieldErrors{FieldCity: "La ciudad es obligatoria"}, errs)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*model.CustomerDetails)
		wantField string
		wantMsg   string
	}{
		{
			name:   "valid",
			mutate: func(*model.CustomerDetails) {},
		},
		{
			name:      "email without domain dot",
			mutate:    func(d *model.CustomerDetails) { d.Email = "ana@example" },
			wantField: FieldEmail,
			wantMsg:   "El formato del email no es válido",
		},
		{
			name:      "email without at",
			mutate:    func(d *model.CustomerDetails) { d.Email = "ana.example.com" },
			wantField: FieldEmail,
			wantMsg:   "El formato del email no es válido",
		},
		{
			name:      "phone too short",
			mutate:    func(d *model.CustomerDetails) { d.Phone = "12345678" },
			wantField: FieldPhone,
			wantMsg:   "El teléfono debe tener al menos 9 dígitos",
		},
		{
			name:      "phone with letters",
			mutate:    func(d *model.CustomerDetails) { d.Phone = "61234567a" },
			wantField: FieldPhone,
			wantMsg:   "El teléfono debe tener al menos 9 dígitos",
		},
		{
			name:   "phone with spaces is stripped",
			mutate: func(d *model.CustomerDetails) { d.Phone = " 6 1 2 3 4 5 6 7 8 " },
		},
		{
			name:      "zip too long",
			mutate:    func(d *model.CustomerDetails) { d.ZipCode = "280130" },
			wantField: FieldZipCode,
			wantMsg:   "El código postal debe tener 5 dígitos",
		},
		{
			name:      "zip with surrounding space",
			mutate:    func(d *model.CustomerDetails) { d.ZipCode = " 28013" },
			wantField: FieldZipCode,
			wantMsg:   "El código postal debe tener 5 dígitos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)

			errs := Validate(d)
			if tt.wantField == "" {
				assert.Nil(t, errs)
				return
			}
			assert.Equal(t, FieldErrors{tt.wantField: tt.wantMsg}, errs)
		})
	}
}

func TestFieldErrors_Error(t *testing.T) {
	errs := FieldErrors{FieldZipCode: "bad zip", FieldCity: "no city"}
	assert.Equal(t, "invalid checkout details: city: no city; zipCode: bad zip", errs.Error())
}
