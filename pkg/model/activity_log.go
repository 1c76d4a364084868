package model

import "time"

const (
	CategoryBooking = "Booking"
	CategoryPayment = "Payment"
	CategoryFAQ     = "FAQ"
	CategoryUser    = "User"
	CategoryAuth    = "Auth"
	CategorySystem  = "System"

	OutcomeSuccess = "Success"
	OutcomeFailed  = "Failed"
	OutcomeWarning = "Warning"
)

// ActivityLogEntry uses the publishing event's id as its _id so a redelivered
// event overwrites instead of duplicating.
type ActivityLogEntry struct {
	ID        string    `json:"id" bson:"_id" validate:"required,uuid4"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp" validate:"required"`
	Actor     string    `json:"actor" bson:"actor" validate:"required,max=100"`
	Action    string    `json:"action" bson:"action" validate:"required,max=150"`
	Category  string    `json:"category" bson:"category" validate:"required,oneof=Booking Payment FAQ User Auth System"`
	Details   string    `json:"details,omitempty" bson:"details,omitempty" validate:"max=2000"`
	IP        string    `json:"ip,omitempty" bson:"ip,omitempty" validate:"omitempty,ip"`
	Status    string    `json:"status,omitempty" bson:"status,omitempty" validate:"omitempty,oneof=Success Failed Warning"`
}
