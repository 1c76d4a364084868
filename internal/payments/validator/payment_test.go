package validator

import (
	"errors"
	"testing"

	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"
	"bondvoyage/pkg/validation"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var verrs validation.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		t.Fatalf("error = %v, want ValidationErrors", err)
	}
	return verrs[0].Field
}

func TestValidateRequest(t *testing.T) {
	v := NewPaymentValidator(logger.Discard())
	cashOnly := &model.PaymentSettings{AcceptedModes: []string{model.PaymentModeCash}}
	both := model.DefaultPaymentSettings()

	tests := []struct {
		name      string
		req       model.PaymentRequest
		settings  *model.PaymentSettings
		wantField string
	}{
		{"cash partial", model.PaymentRequest{Type: "Partial", Amount: 500, Mode: "Cash"}, both, ""},
		{"gcash with proof", model.PaymentRequest{Type: "Full", Amount: 500, Mode: "Gcash", ProofReference: "ref-123"}, both, ""},
		{"gcash without proof", model.PaymentRequest{Type: "Full", Amount: 500, Mode: "Gcash"}, both, "proof_reference"},
		{"mode not accepted", model.PaymentRequest{Type: "Full", Amount: 500, Mode: "Gcash", ProofReference: "x"}, cashOnly, "mode"},
		{"zero amount", model.PaymentRequest{Type: "Full", Amount: 0, Mode: "Cash"}, both, "amount"},
		{"unknown type", model.PaymentRequest{Type: "Deposit", Amount: 10, Mode: "Cash"}, both, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRequest(&tt.req, tt.settings)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateRequest() error = %v", err)
				}
				return
			}
			if got := fieldOf(t, err); got != tt.wantField {
				t.Errorf("field = %s, want %s", got, tt.wantField)
			}
		})
	}
}

func TestValidateRejection(t *testing.T) {
	v := NewPaymentValidator(logger.Discard())

	if got := fieldOf(t, v.ValidateRejection(&model.PaymentReview{})); got != "reason" {
		t.Errorf("field = %s", got)
	}
	if got := fieldOf(t, v.ValidateRejection(&model.PaymentReview{Reason: "   "})); got != "reason" {
		t.Errorf("field = %s", got)
	}
	if err := v.ValidateRejection(&model.PaymentReview{Reason: "Blurry receipt"}); err != nil {
		t.Errorf("reject with reason: %v", err)
	}
}

func TestValidateSettings(t *testing.T) {
	v := NewPaymentValidator(logger.Discard())

	ok := &model.PaymentSettings{
		GcashAccountName:  "BondVoyage Travel",
		GcashNumber:       "+639171234567",
		AcceptedModes:     []string{"Cash", "Gcash"},
		MinPartialPercent: 30,
	}
	if err := v.ValidateSettings(ok); err != nil {
		t.Fatalf("ValidateSettings() error = %v", err)
	}

	noNumber := *ok
	noNumber.GcashNumber = ""
	noNumber.GcashAccountName = ""
	if got := fieldOf(t, v.ValidateSettings(&noNumber)); got != "gcash_number" {
		t.Errorf("field = %s, want gcash_number", got)
	}

	noModes := *ok
	noModes.AcceptedModes = nil
	if got := fieldOf(t, v.ValidateSettings(&noModes)); got != "accepted_modes" {
		t.Errorf("field = %s, want accepted_modes", got)
	}

	badPercent := *ok
	badPercent.MinPartialPercent = 120
	if got := fieldOf(t, v.ValidateSettings(&badPercent)); got != "min_partial_percent" {
		t.Errorf("field = %s, want min_partial_percent", got)
	}
}
