package booking

import (
	"context"

	"tours-be/internal/bokun"
)

// Repository submits bookings to the provider. *bokun.Client implements it.
type Repository interface {
	GetCheckoutOptions(ctx context.Context, sel bokun.CheckoutSelection) (*bokun.CheckoutOptionsResult, error)
	SubmitCheckout(ctx context.Context, req bokun.CheckoutSubmitRequest) (*bokun.CheckoutSubmitResult, error)
}

var _ Repository = (*bokun.Client)(nil)
