package model

import "time"

type FAQ struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Question  string    `json:"question" bson:"question" validate:"required,min=5,max=300"`
	Answer    string    `json:"answer" bson:"answer" validate:"required,min=2,max=5000"`
	Tags      []string  `json:"tags" bson:"tags" validate:"max=20,dive,required,max=40"`
	Pages     []string  `json:"pages" bson:"pages" validate:"max=20,dive,required,max=60"`
	Keywords  []string  `json:"keywords" bson:"keywords" validate:"max=40,dive,required,max=40"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type FAQUpdate struct {
	Question *string   `json:"question,omitempty" validate:"omitempty,min=5,max=300"`
	Answer   *string   `json:"answer,omitempty" validate:"omitempty,min=2,max=5000"`
	Tags     *[]string `json:"tags,omitempty"`
	Pages    *[]string `json:"pages,omitempty"`
	Keywords *[]string `json:"keywords,omitempty"`
}
