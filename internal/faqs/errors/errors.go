package errors

import "errors"

var (
	ErrNotFound = errors.New("faq not found")

	ErrInvalidID = errors.New("invalid faq ID format")
)
