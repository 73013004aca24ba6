package errors

import "errors"

var (
	ErrNotFound = errors.New("service package not found")

	ErrInvalidID = errors.New("invalid service package ID")
)
