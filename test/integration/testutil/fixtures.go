//go:build integration

package testutil

import (
	"time"

	"bondvoyage/pkg/model"
)

type BookingBuilder struct {
	b model.Booking
}

func NewBookingBuilder() *BookingBuilder {
	start := time.Now().UTC().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	return &BookingBuilder{
		b: model.Booking{
			CustomerName: "Ana Reyes",
			Email:        "ana@example.com",
			Phone:        "+639171234567",
			Destination:  "Boracay",
			StartDate:    start,
			EndDate:      start.AddDate(0, 0, 4),
			Travelers:    2,
			TotalAmount:  10000,
		},
	}
}

func (b *BookingBuilder) WithCustomer(name, email string) *BookingBuilder {
	b.b.CustomerName = name
	b.b.Email = email
	return b
}

func (b *BookingBuilder) WithDestination(destination string) *BookingBuilder {
	b.b.Destination = destination
	return b
}

func (b *BookingBuilder) WithTotal(total float64) *BookingBuilder {
	b.b.TotalAmount = total
	return b
}

func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.b.Status = status
	return b
}

func (b *BookingBuilder) WithDates(start, end time.Time) *BookingBuilder {
	b.b.StartDate = start
	b.b.EndDate = end
	return b
}

func (b *BookingBuilder) Build() model.Booking {
	return b.b
}

func CashPayment(paymentType string, amount float64) model.PaymentRequest {
	return model.PaymentRequest{Type: paymentType, Amount: amount, Mode: model.PaymentModeCash}
}

func GcashPayment(paymentType string, amount float64, proof string) model.PaymentRequest {
	return model.PaymentRequest{Type: paymentType, Amount: amount, Mode: model.PaymentModeGcash, ProofReference: proof}
}

func ValidUser(name, email string) model.User {
	return model.User{Name: name, Email: email, Phone: "+639181234567"}
}
