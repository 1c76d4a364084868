package validator

import (
	"fmt"

	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"
	"bondvoyage/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := validation.Struct(v.validate, booking); err != nil {
		return err
	}
	return v.validateItinerary(booking.Itinerary)
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := validation.Struct(v.validate, update); err != nil {
		return err
	}

	if update.StartDate != nil && update.EndDate != nil && update.EndDate.Before(*update.StartDate) {
		return validation.Field("end_date", "end_date must not be before start_date")
	}

	return nil
}

func (v *BookingValidator) ValidateItinerary(update *model.ItineraryUpdate) error {
	if err := validation.Struct(v.validate, update); err != nil {
		return err
	}
	return v.validateItinerary(update.Days)
}

// validateItinerary rejects repeated day numbers.
func (v *BookingValidator) validateItinerary(days []model.ItineraryDay) error {
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if seen[d.Day] {
			return validation.Field("itinerary", fmt.Sprintf("day %d appears more than once", d.Day))
		}
		seen[d.Day] = true
	}
	return nil
}
