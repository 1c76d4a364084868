package model

import "time"

const (
	UserStatusActive      = "Active"
	UserStatusDeactivated = "Deactivated"
)

type User struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name       string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email      string    `json:"email" bson:"email" validate:"required,email"`
	Phone      string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	SignupDate time.Time `json:"signup_date" bson:"signup_date"`
	Status     string    `json:"status" bson:"status" validate:"required,oneof=Active Deactivated"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}
