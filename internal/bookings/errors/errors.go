// Package errors holds the sentinel errors returned by the bookings
// repository. The service maps them onto AppErrors.
package errors

import "errors"

var (
	// ErrNotFound is returned when no booking has the requested ID.
	ErrNotFound = errors.New("booking not found")

	// ErrInvalidID wraps IDs that are not 24-character hex ObjectIDs.
	ErrInvalidID = errors.New("booking ID is not a valid ObjectID")

	// ErrStaleBooking means amount_paid changed after the booking was read.
	ErrStaleBooking = errors.New("booking payments changed concurrently")
)
