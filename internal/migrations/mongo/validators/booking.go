package validators

import "go.mongodb.org/mongo-driver/bson"

var paymentSubmissionSchema = bson.M{
	"bsonType": "object",
	"required": []string{"id", "booking_id", "type", "amount", "mode", "submitted_at", "status"},
	"properties": bson.M{
		"id":              bson.M{"bsonType": "string", "minLength": 36, "maxLength": 36},
		"booking_id":      bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
		"type":            bson.M{"bsonType": "string", "enum": []string{"Full", "Partial"}},
		"amount":          bson.M{"bsonType": "number", "exclusiveMinimum": true, "minimum": 0},
		"mode":            bson.M{"bsonType": "string", "enum": []string{"Cash", "Gcash"}},
		"proof_reference": bson.M{"bsonType": "string", "maxLength": 500},
		"submitted_at":    bson.M{"bsonType": "date"},
		"status":          bson.M{"bsonType": "string", "enum": []string{"Pending", "Verified", "Rejected"}},
		"reason":          bson.M{"bsonType": "string", "maxLength": 500},
		"reviewed_at":     bson.M{"bsonType": "date"},
	},
}

var itineraryDaySchema = bson.M{
	"bsonType": "object",
	"required": []string{"day", "title"},
	"properties": bson.M{
		"day":   bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
		"title": bson.M{"bsonType": "string", "maxLength": 150},
		"activities": bson.M{
			"bsonType": "array",
			"maxItems": 30,
			"items": bson.M{
				"bsonType": "object",
				"required": []string{"time", "title"},
				"properties": bson.M{
					"time":        bson.M{"bsonType": "string", "maxLength": 20},
					"icon":        bson.M{"bsonType": "string", "maxLength": 40},
					"title":       bson.M{"bsonType": "string", "maxLength": 150},
					"description": bson.M{"bsonType": "string", "maxLength": 1000},
					"location":    bson.M{"bsonType": "string", "maxLength": 200},
				},
			},
		},
	},
}

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"customer_name",
			"email",
			"phone",
			"destination",
			"start_date",
			"end_date",
			"travelers",
			"total_amount",
			"amount_paid",
			"type",
			"status",
			"payment_history",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"customer_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"email": bson.M{
				"bsonType": "string",
			},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{1,14}$`,
			},

			"destination": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 150,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"travelers": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  500,
			},

			"total_amount": bson.M{
				"bsonType": "number",
				"minimum":  0,
			},

			"amount_paid": bson.M{
				"bsonType": "number",
				"minimum":  0,
			},

			"type": bson.M{
				"bsonType": "string",
				"enum":     []string{"Standard", "Customized", "Requested"},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"Pending", "Confirmed", "Completed", "Cancelled"},
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"itinerary": bson.M{
				"bsonType": "array",
				"maxItems": 60,
				"items":    itineraryDaySchema,
			},

			"payment_history": bson.M{
				"bsonType": "array",
				"items":    paymentSubmissionSchema,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
