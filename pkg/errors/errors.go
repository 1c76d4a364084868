// Package errors is the error taxonomy every HTTP response is rendered from.
// Services return *AppError; anything else reaching the edge becomes a 500.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
	CodeTimeout          = "TIMEOUT"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeRateLimited      = "RATE_LIMITED"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
)

var statusByCode = map[string]int{
	CodeNotFound:         http.StatusNotFound,
	CodeValidation:       http.StatusUnprocessableEntity,
	CodeConflict:         http.StatusConflict,
	CodeInternal:         http.StatusInternalServerError,
	CodeTimeout:          http.StatusGatewayTimeout,
	CodeUnavailable:      http.StatusServiceUnavailable,
	CodeInvalidInput:     http.StatusBadRequest,
	CodeRateLimited:      http.StatusTooManyRequests,
	CodePayloadTooLarge:  http.StatusRequestEntityTooLarge,
	CodeUnsupportedMedia: http.StatusUnsupportedMediaType,
}

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func newError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: statusByCode[code]}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// StatusCode is the HTTP status for e, 500 when none was set.
func (e *AppError) StatusCode() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (e *AppError) Response() ErrorResponse {
	return ErrorResponse{Code: e.Code, Message: e.Message, Details: e.Details}
}

// ToJSON is used where the JSON encoder itself cannot be trusted, such as
// after a recovered panic.
func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(e.Response())
	return data
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func NotFound(resource string) *AppError {
	return newError(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func NotFoundWithID(resource, id string) *AppError {
	return NotFound(resource).WithDetails(map[string]any{"resource": resource, "id": id})
}

func Validation(message string, details map[string]any) *AppError {
	return newError(CodeValidation, message).WithDetails(details)
}

func InvalidInput(message string) *AppError {
	return newError(CodeInvalidInput, message)
}

func Conflict(message string) *AppError {
	return newError(CodeConflict, message)
}

func Internal(message string, err error) *AppError {
	appErr := newError(CodeInternal, message)
	appErr.Err = err
	return appErr
}

func Timeout(message string) *AppError {
	return newError(CodeTimeout, message)
}

// Unavailable reports a dependency that cannot serve the request right now,
// such as a Mongo deployment without transaction support.
func Unavailable(what string) *AppError {
	return newError(CodeUnavailable, fmt.Sprintf("%s is temporarily unavailable", what))
}

func RateLimited() *AppError {
	return newError(CodeRateLimited, "Rate limit exceeded")
}

func PayloadTooLarge(limit int64) *AppError {
	return newError(CodePayloadTooLarge, "Request body too large").
		WithDetails(map[string]any{"max_bytes": limit})
}

func UnsupportedMediaType(want string) *AppError {
	return newError(CodeUnsupportedMedia, fmt.Sprintf("Content-Type must be %s", want))
}

func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError finds the first AppError in err's chain, or wraps err as an
// internal error.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}
