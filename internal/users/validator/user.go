package validator

import (
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"
	"bondvoyage/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type UserValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewUserValidator(log *logger.Logger) *UserValidator {
	log.Info("User validator initialized successfully")

	return &UserValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *UserValidator) Validate(user *model.User) error {
	return validation.Struct(v.validate, user)
}
