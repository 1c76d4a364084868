package validator

import (
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"
	"bondvoyage/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type ActivityLogValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewActivityLogValidator(log *logger.Logger) *ActivityLogValidator {
	log.Info("Activity log validator initialized successfully")

	return &ActivityLogValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *ActivityLogValidator) Validate(entry *model.ActivityLogEntry) error {
	return validation.Struct(v.validate, entry)
}
