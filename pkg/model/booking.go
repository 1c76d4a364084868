package model

import (
	"time"

	"bondvoyage/pkg/billing"
)

const (
	BookingTypeStandard   = "Standard"
	BookingTypeCustomized = "Customized"
	BookingTypeRequested  = "Requested"

	BookingStatusPending   = "Pending"
	BookingStatusConfirmed = "Confirmed"
	BookingStatusCompleted = "Completed"
	BookingStatusCancelled = "Cancelled"
)

type Booking struct {
	ID             string              `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CustomerName   string              `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	Email          string              `json:"email" bson:"email" validate:"required,email"`
	Phone          string              `json:"phone" bson:"phone" validate:"required,e164"`
	Destination    string              `json:"destination" bson:"destination" validate:"required,min=2,max=150"`
	StartDate      time.Time           `json:"start_date" bson:"start_date" validate:"required"`
	EndDate        time.Time           `json:"end_date" bson:"end_date" validate:"required,gtefield=StartDate"`
	Travelers      int                 `json:"travelers" bson:"travelers" validate:"required,min=1,max=500"`
	TotalAmount    float64             `json:"total_amount" bson:"total_amount" validate:"gte=0"`
	AmountPaid     float64             `json:"amount_paid" bson:"amount_paid" validate:"gte=0,ltefield=TotalAmount"`
	Type           string              `json:"type" bson:"type" validate:"required,oneof=Standard Customized Requested"`
	Status         string              `json:"status" bson:"status" validate:"required,oneof=Pending Confirmed Completed Cancelled"`
	Notes          string              `json:"notes,omitempty" bson:"notes,omitempty" validate:"max=2000"`
	Itinerary      []ItineraryDay      `json:"itinerary,omitempty" bson:"itinerary,omitempty" validate:"omitempty,max=60,dive"`
	PaymentHistory []PaymentSubmission `json:"payment_history" bson:"payment_history" validate:"omitempty,dive"`
	PaymentStatus  billing.Status      `json:"payment_status" bson:"-"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" bson:"updated_at"`
}

// Summary derives the billing position from the stored paid amount.
func (b *Booking) Summary() billing.Summary {
	return billing.SummaryFor(b.TotalAmount, b.AmountPaid)
}

// Derive fills the read-only fields. Call it on every booking leaving the
// repository.
func (b *Booking) Derive() *Booking {
	b.PaymentStatus = b.Summary().Status
	if b.PaymentHistory == nil {
		b.PaymentHistory = []PaymentSubmission{}
	}
	return b
}

// IsHistorical reports whether the booking has left the active pipeline.
func (b *Booking) IsHistorical() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

type BookingUpdate struct {
	CustomerName string     `json:"customer_name,omitempty" validate:"omitempty,min=2,max=100"`
	Email        string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string     `json:"phone,omitempty" validate:"omitempty,e164"`
	Destination  string     `json:"destination,omitempty" validate:"omitempty,min=2,max=150"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Travelers    *int       `json:"travelers,omitempty" validate:"omitempty,min=1,max=500"`
	TotalAmount  *float64   `json:"total_amount,omitempty" validate:"omitempty,gte=0"`
	Type         string     `json:"type,omitempty" validate:"omitempty,oneof=Standard Customized Requested"`
	Status       string     `json:"status,omitempty" validate:"omitempty,oneof=Pending Confirmed Completed Cancelled"`
	Notes        *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
