package model

import "time"

const (
	PaymentTypeFull    = "Full"
	PaymentTypePartial = "Partial"

	PaymentModeCash  = "Cash"
	PaymentModeGcash = "Gcash"

	PaymentStatusPending  = "Pending"
	PaymentStatusVerified = "Verified"
	PaymentStatusRejected = "Rejected"
)

// PaymentSubmission is stored inside its booking's payment_history array.
type PaymentSubmission struct {
	ID             string     `json:"id" bson:"id" validate:"required,uuid4"`
	BookingID      string     `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	Type           string     `json:"type" bson:"type" validate:"required,oneof=Full Partial"`
	Amount         float64    `json:"amount" bson:"amount" validate:"gt=0"`
	Mode           string     `json:"mode" bson:"mode" validate:"required,oneof=Cash Gcash"`
	ProofReference string     `json:"proof_reference,omitempty" bson:"proof_reference,omitempty" validate:"required_if=Mode Gcash,max=500"`
	SubmittedAt    time.Time  `json:"submitted_at" bson:"submitted_at"`
	Status         string     `json:"status" bson:"status" validate:"required,oneof=Pending Verified Rejected"`
	Reason         string     `json:"reason,omitempty" bson:"reason,omitempty" validate:"max=500"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
}

// CountsTowardsPaid reports whether the amount is part of the booking's
// cumulative paid total.
func (p PaymentSubmission) CountsTowardsPaid() bool {
	return p.Status != PaymentStatusRejected
}

func (p PaymentSubmission) PaidAmount() float64 { return p.Amount }

type PaymentRequest struct {
	Type           string  `json:"type" validate:"required,oneof=Full Partial"`
	Amount         float64 `json:"amount" validate:"gt=0"`
	Mode           string  `json:"mode" validate:"required,oneof=Cash Gcash"`
	ProofReference string  `json:"proof_reference,omitempty" validate:"max=500"`
}

type PaymentReview struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

const PaymentSettingsID = "default"

type PaymentSettings struct {
	ID                string    `json:"-" bson:"_id"`
	GcashAccountName  string    `json:"gcash_account_name" bson:"gcash_account_name" validate:"required_with=GcashNumber,max=100"`
	GcashNumber       string    `json:"gcash_number" bson:"gcash_number" validate:"omitempty,e164"`
	AcceptedModes     []string  `json:"accepted_modes" bson:"accepted_modes" validate:"required,min=1,dive,oneof=Cash Gcash"`
	MinPartialPercent int       `json:"min_partial_percent" bson:"min_partial_percent" validate:"min=0,max=100"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// DefaultPaymentSettings is served until an administrator saves settings.
func DefaultPaymentSettings() *PaymentSettings {
	return &PaymentSettings{
		ID:            PaymentSettingsID,
		AcceptedModes: []string{PaymentModeCash, PaymentModeGcash},
	}
}

func (s *PaymentSettings) Accepts(mode string) bool {
	for _, m := range s.AcceptedModes {
		if m == mode {
			return true
		}
	}
	return false
}

// PaymentListing is a submission together with the booking it belongs to, as
// shown in the cross-booking payments view.
type PaymentListing struct {
	PaymentSubmission `bson:",inline"`
	CustomerName      string  `json:"customer_name" bson:"customer_name"`
	Destination       string  `json:"destination" bson:"destination"`
	BookingTotal      float64 `json:"booking_total" bson:"booking_total"`
}
