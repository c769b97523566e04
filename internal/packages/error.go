package packages

import "errors"

var (
	ErrPackageNotFound  = errors.New("package not found")
	ErrMissingPackageID = errors.New("package id is required")
	ErrInvalidDate      = errors.New("dates must use the YYYY-MM-DD format")
	ErrInvalidDateRange = errors.New("end date must be greater than or equal to start date.")
)
