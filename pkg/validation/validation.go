// Package validation wraps go-playground/validator with JSON field names and
// readable messages shared by every service validator.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors for an AppError details map.
func (v ValidationErrors) Details() map[string]any {
	fields := make(map[string]string, len(v))
	for _, err := range v {
		fields[err.Field] = err.Message
	}
	return map[string]any{"fields": fields}
}

// Field builds a single-error result for business rules.
func Field(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

// New returns a validator that reports fields by their json name.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct validates s and translates tag failures.
func Struct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return Translate(validationErrs)
		}
		return err
	}
	return nil
}

func Translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		field := fieldPath(err)
		message := err.Error()

		switch err.Tag() {
		case "required", "required_with":
			message = fmt.Sprintf("%s is required", field)
		case "required_if":
			message = fmt.Sprintf("%s is required when %s", field, strings.Replace(err.Param(), " ", " is ", 1))
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", field, err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "gtefield":
			message = fmt.Sprintf("%s must not be before %s", field, err.Param())
		case "ltefield":
			message = fmt.Sprintf("%s must not exceed %s", field, err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", field)
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", field)
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +639171234567)", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "ip":
			message = fmt.Sprintf("%s must be a valid IP address", field)
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, err.Param())
		case "dive", "unique":
			message = fmt.Sprintf("%s contains invalid or duplicate entries", field)
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return validationErrors
}

// fieldPath drops the top-level struct name: "Booking.itinerary[0].title"
// becomes "itinerary[0].title".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return err.Field()
}
