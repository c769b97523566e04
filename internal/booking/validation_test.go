package booking

import (
	"testing"

	"tours-be/internal/bokun"

	"github.com/stretchr/testify/assert"
)

func TestValidateSelection(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*bokun.CheckoutSelection)
		valid  bool
	}{
		{"valid", func(*bokun.CheckoutSelection) {}, true},
		{"blank package", func(s *bokun.CheckoutSelection) { s.PackageID = "  " }, false},
		{"bad date", func(s *bokun.CheckoutSelection) { s.Date = "01/05/2024" }, false},
		{"missing start time", func(s *bokun.CheckoutSelection) { s.StartTimeID = 0 }, false},
		{"no seats", func(s *bokun.CheckoutSelection) {
			s.Passengers = []bokun.PassengerSelection{{PricingCategoryID: 1, Quantity: 0}, {PricingCategoryID: 0, Quantity: 3}}
		}, false},
		{"seat cap reached", func(s *bokun.CheckoutSelection) {
			s.Passengers = []bokun.PassengerSelection{{PricingCategoryID: 1, Quantity: 30}, {PricingCategoryID: 2, Quantity: 20}}
		}, true},
		{"too many seats across categories", func(s *bokun.CheckoutSelection) {
			s.Passengers = []bokun.PassengerSelection{{PricingCategoryID: 1, Quantity: 30}, {PricingCategoryID: 2, Quantity: 21}}
		}, false},
		{"huge quantity", func(s *bokun.CheckoutSelection) {
			s.Passengers = []bokun.PassengerSelection{{PricingCategoryID: 1, Quantity: 2_000_000_000}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := validSelection()
			tt.mutate(&sel)

			err := validateSelection(sel)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidSelection)
		})
	}
}

func TestValidateContact(t *testing.T) {
	assert.NoError(t, validateContact(bokun.ContactDetails{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}))
	assert.ErrorIs(t, validateContact(bokun.ContactDetails{FirstName: "Jane", Email: "jane@example.com"}), ErrInvalidContact)
	assert.ErrorIs(t, validateContact(bokun.ContactDetails{FirstName: "Jane", LastName: "Doe", Email: "not-an-email"}), ErrInvalidContact)
}
