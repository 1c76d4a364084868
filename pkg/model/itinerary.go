package model

type ItineraryDay struct {
	Day        int                 `json:"day" bson:"day" validate:"required,min=1"`
	Title      string              `json:"title" bson:"title" validate:"required,max=150"`
	Activities []ItineraryActivity `json:"activities" bson:"activities" validate:"omitempty,max=30,dive"`
}

type ItineraryActivity struct {
	Time        string `json:"time" bson:"time" validate:"required,max=20"`
	Icon        string `json:"icon,omitempty" bson:"icon,omitempty" validate:"max=40"`
	Title       string `json:"title" bson:"title" validate:"required,max=150"`
	Description string `json:"description,omitempty" bson:"description,omitempty" validate:"max=1000"`
	Location    string `json:"location,omitempty" bson:"location,omitempty" validate:"max=200"`
}

type ItineraryUpdate struct {
	Days []ItineraryDay `json:"days" validate:"max=60,dive"`
}
