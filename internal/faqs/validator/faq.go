package validator

import (
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"
	"bondvoyage/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type FAQValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewFAQValidator(log *logger.Logger) *FAQValidator {
	log.Info("FAQ validator initialized successfully")

	return &FAQValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *FAQValidator) Validate(faq *model.FAQ) error {
	return validation.Struct(v.validate, faq)
}

func (v *FAQValidator) ValidateUpdate(update *model.FAQUpdate) error {
	if err := validation.Struct(v.validate, update); err != nil {
		return err
	}

	if update.Question == nil && update.Answer == nil && update.Tags == nil &&
		update.Pages == nil && update.Keywords == nil {
		return validation.Field("update", "at least one field must be provided")
	}

	return nil
}
