package errors

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")

	ErrInvalidBookingID = errors.New("invalid booking ID format")

	// ErrStaleBooking means the guarded write matched nothing because the
	// booking's paid amount changed after it was read.
	ErrStaleBooking = errors.New("booking was modified concurrently")

	// ErrNotPending means the submission no longer exists or was already
	// reviewed.
	ErrNotPending = errors.New("payment is not pending")
)
