package packages

import (
	"context"

	"tours-be/internal/bokun"
)

// Repository is the catalog source. *bokun.Client implements it.
type Repository interface {
	ListPackages(ctx context.Context, page, pageSize int) ([]bokun.PackageSummary, error)
	GetPackageDetails(ctx context.Context, id string) (*bokun.PackageDetails, error)
	GetAvailability(ctx context.Context, id string, q bokun.AvailabilityQuery) (*bokun.PackageAvailability, error)
}

var _ Repository = (*bokun.Client)(nil)
