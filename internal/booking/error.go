package booking

import "errors"

var (
	ErrInvalidSelection = errors.New("invalid checkout selection")
	ErrInvalidContact   = errors.New("first name, last name and email are required")
)
