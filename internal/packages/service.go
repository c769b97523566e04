package packages

import (
	"context"
	"strings"
	"time"

	"tours-be/internal/bokun"
	"tours-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	ListPackages(ctx context.Context, filter ListFilter, page, pageSize int) ([]bokun.PackageSummary, error)
	GetPackage(ctx context.Context, id string) (*bokun.PackageDetails, error)
	GetAvailability(ctx context.Context, id string, input AvailabilityInput) (*bokun.PackageAvailability, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) ListPackages(ctx context.Context, filter ListFilter, page, pageSize int) ([]bokun.PackageSummary, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListPackages"),
		zap.Int("page", page),
		zap.Int("page_size", pageSize),
	)
	log.Debug("start list packages")

	// ---------- PAGINATION ----------
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	items, err := s.repo.ListPackages(ctx, page, pageSize)
	if err != nil {
		log.Error("failed to list packages", zap.Error(err))
		return nil, err
	}

	// ---------- FILTER ----------
	filtered := applyFilter(items, filter)

	log.Info("success list packages",
		zap.Int("fetched", len(items)),
		zap.Int("count", len(filtered)),
	)
	return filtered, nil
}

func (s *service) GetPackage(ctx context.Context, id string) (*bokun.PackageDetails, error) {
	id = strings.TrimSpace(id)
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetPackage"),
		zap.String("package_id", id),
	)

	if id == "" {
		return nil, ErrMissingPackageID
	}

	details, err := s.repo.GetPackageDetails(ctx, id)
	if err != nil {
		log.Error("failed to get package", zap.Error(err))
		return nil, err
	}
	if details == nil {
		log.Info("package not found")
		return nil, ErrPackageNotFound
	}

	return details, nil
}

func (s *service) GetAvailability(ctx context.Context, id string, input AvailabilityInput) (*bokun.PackageAvailability, error) {
	id = strings.TrimSpace(id)
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetAvailability"),
		zap.String("package_id", id),
	)

	if id == "" {
		return nil, ErrMissingPackageID
	}

	query, err := s.availabilityQuery(input)
	if err != nil {
		log.Warn("invalid availability request", zap.Error(err))
		return nil, err
	}

	availability, err := s.repo.GetAvailability(ctx, id, query)
	if err != nil {
		log.Error("failed to get availability", zap.Error(err))
		return nil, err
	}
	if availability == nil {
		log.Info("package not found")
		return nil, ErrPackageNotFound
	}

	log.Info("success get availability",
		zap.String("start", query.Start),
		zap.String("end", query.End),
		zap.Int("slots", len(availability.Slots)),
	)
	return availability, nil
}

// availabilityQuery applies the date defaults and checks the range.
func (s *service) availabilityQuery(input AvailabilityInput) (bokun.AvailabilityQuery, error) {
	start := s.now().UTC().Truncate(24 * time.Hour)
	if raw := strings.TrimSpace(input.Start); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return bokun.AvailabilityQuery{}, ErrInvalidDate
		}
		start = parsed
	}

	end := start.AddDate(0, 0, DefaultAvailabilityDays)
	if raw := strings.TrimSpace(input.End); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return bokun.AvailabilityQuery{}, ErrInvalidDate
		}
		end = parsed
	}

	if end.Before(start) {
		return bokun.AvailabilityQuery{}, ErrInvalidDateRange
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = bokun.DefaultCurrency
	}

	return bokun.AvailabilityQuery{
		Start:          start.Format(dateLayout),
		End:            end.Format(dateLayout),
		Currency:       currency,
		IncludeSoldOut: input.IncludeSoldOut,
	}, nil
}
