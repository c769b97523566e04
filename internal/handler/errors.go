package handler

import (
	"errors"
	"net/http"

	"tours-be/internal/bokun"
	"tours-be/internal/booking"
	"tours-be/internal/logger"
	"tours-be/internal/packages"
	"tours-be/internal/utils"

	"go.uber.org/zap"
)

// writeError maps a service error onto a problem response. Provider status
// codes in [400,600) pass through; everything else unexpected becomes 502.
func writeError(w http.ResponseWriter, r *http.Request, title string, err error) {
	log := logger.FromCtx(r.Context()).With(
		zap.String("layer", "handler"),
		zap.String("path", r.URL.Path),
	)

	switch {
	case errors.Is(err, packages.ErrPackageNotFound):
		utils.WriteProblem(w, http.StatusText(http.StatusNotFound), err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, packages.ErrInvalidDate),
		errors.Is(err, packages.ErrInvalidDateRange),
		errors.Is(err, packages.ErrMissingPackageID),
		errors.Is(err, booking.ErrInvalidSelection),
		errors.Is(err, booking.ErrInvalidContact):
		utils.WriteProblem(w, title, err.Error(), http.StatusBadRequest)
		return
	}

	if pe, ok := bokun.AsProviderError(err); ok {
		status := http.StatusBadGateway
		if pe.StatusCode >= 400 && pe.StatusCode < 600 {
			status = pe.StatusCode
		}
		log.Error("provider error", zap.Int("provider_status", pe.StatusCode), zap.Error(err))
		utils.WriteProblem(w, title, pe.Body, status)
		return
	}

	log.Error("request failed", zap.Error(err))
	utils.WriteProblem(w, title, err.Error(), http.StatusBadGateway)
}
