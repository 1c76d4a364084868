package validator

import (
	"fmt"
	"strings"

	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"
	"bondvoyage/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type PaymentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPaymentValidator(log *logger.Logger) *PaymentValidator {
	log.Info("Payment validator initialized successfully")

	return &PaymentValidator{
		validate: validation.New(),
		logger:   log,
	}
}

// ValidateRequest checks the request shape and the rules that depend only on
// the current settings. Balance rules need the booking and live in the service.
func (v *PaymentValidator) ValidateRequest(req *model.PaymentRequest, settings *model.PaymentSettings) error {
	if err := validation.Struct(v.validate, req); err != nil {
		return err
	}

	if !settings.Accepts(req.Mode) {
		return validation.Field("mode", fmt.Sprintf("mode %s is not accepted; accepted modes: %s",
			req.Mode, strings.Join(settings.AcceptedModes, ", ")))
	}

	if req.Mode == model.PaymentModeGcash && req.ProofReference == "" {
		return validation.Field("proof_reference", "proof_reference is required for Gcash payments")
	}

	return nil
}

func (v *PaymentValidator) ValidateRejection(review *model.PaymentReview) error {
	if err := validation.Struct(v.validate, review); err != nil {
		return err
	}
	if strings.TrimSpace(review.Reason) == "" {
		return validation.Field("reason", "reason is required when rejecting a payment")
	}
	return nil
}

func (v *PaymentValidator) ValidateSettings(settings *model.PaymentSettings) error {
	if err := validation.Struct(v.validate, settings); err != nil {
		return err
	}

	if settings.Accepts(model.PaymentModeGcash) && settings.GcashNumber == "" {
		return validation.Field("gcash_number", "gcash_number is required when Gcash is accepted")
	}

	return nil
}
