package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID")

	// ErrQueueEmpty is the expected terminal condition for polling loops,
	// not a failure.
	ErrQueueEmpty = errors.New("booking queue is empty")
)
