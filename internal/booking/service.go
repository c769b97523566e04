package booking

import (
	"context"

	"tours-be/internal/bokun"
	"tours-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	CheckoutOptions(ctx context.Context, sel bokun.CheckoutSelection) (*bokun.CheckoutOptionsResult, error)
	SubmitCheckout(ctx context.Context, req bokun.CheckoutSubmitRequest) (*bokun.CheckoutSubmitResult, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CheckoutOptions(ctx context.Context, sel bokun.CheckoutSelection) (*bokun.CheckoutOptionsResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CheckoutOptions"),
		zap.String("package_id", sel.PackageID),
		zap.String("date", sel.Date),
	)

	if err := validateSelection(sel); err != nil {
		log.Warn("invalid selection", zap.Error(err))
		return nil, err
	}

	result, err := s.repo.GetCheckoutOptions(ctx, sel)
	if err != nil {
		log.Error("failed to get checkout options", zap.Error(err))
		return nil, err
	}

	log.Info("success get checkout options", zap.Int("options", len(result.Options)))
	return result, nil
}

func (s *service) SubmitCheckout(ctx context.Context, req bokun.CheckoutSubmitRequest) (*bokun.CheckoutSubmitResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SubmitCheckout"),
		zap.String("package_id", req.Selection.PackageID),
		zap.String("email", logger.MaskEmail(req.Contact.Email)),
	)

	if err := validateSelection(req.Selection); err != nil {
		log.Warn("invalid selection", zap.Error(err))
		return nil, err
	}
	if err := validateContact(req.Contact); err != nil {
		log.Warn("invalid contact", zap.Error(err))
		return nil, err
	}

	result, err := s.repo.SubmitCheckout(ctx, req)
	if err != nil {
		log.Error("failed to submit checkout", zap.Error(err))
		return nil, err
	}

	log.Info("success submit checkout",
		zap.String("status", result.Status),
		zap.String("confirmation_code", result.ConfirmationCode),
	)
	return result, nil
}
