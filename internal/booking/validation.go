package booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"tours-be/internal/bokun"
)

func validateSelection(sel bokun.CheckoutSelection) error {
	if strings.TrimSpace(sel.PackageID) == "" {
		return fmt.Errorf("%w: packageId is required", ErrInvalidSelection)
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(sel.Date)); err != nil {
		return fmt.Errorf("%w: date must use the YYYY-MM-DD format", ErrInvalidSelection)
	}
	if sel.StartTimeID <= 0 {
		return fmt.Errorf("%w: startTimeId must be positive", ErrInvalidSelection)
	}

	seats := 0
	for _, p := range sel.Passengers {
		if p.PricingCategoryID <= 0 || p.Quantity <= 0 {
			continue
		}
		if p.Quantity > bokun.MaxSeatsPerBooking-seats {
			return fmt.Errorf("%w: at most %d passengers per booking", ErrInvalidSelection, bokun.MaxSeatsPerBooking)
		}
		seats += p.Quantity
	}
	if seats == 0 {
		return fmt.Errorf("%w: at least one passenger is required", ErrInvalidSelection)
	}
	return nil
}

func validateContact(contact bokun.ContactDetails) error {
	if strings.TrimSpace(contact.FirstName) == "" ||
		strings.TrimSpace(contact.LastName) == "" ||
		strings.TrimSpace(contact.Email) == "" {
		return ErrInvalidContact
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(contact.Email)); err != nil {
		return fmt.Errorf("%w: email is not valid", ErrInvalidContact)
	}
	return nil
}
