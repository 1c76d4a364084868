package validators

import "go.mongodb.org/mongo-driver/bson"

var ActivityLogValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "timestamp", "actor", "action", "category"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":       bson.M{"bsonType": "string", "minLength": 36, "maxLength": 36},
			"timestamp": bson.M{"bsonType": "date"},
			"actor":     bson.M{"bsonType": "string", "maxLength": 100},
			"action":    bson.M{"bsonType": "string", "maxLength": 150},
			"category": bson.M{
				"bsonType": "string",
				"enum":     []string{"Booking", "Payment", "FAQ", "User", "Auth", "System"},
			},
			"details": bson.M{"bsonType": "string", "maxLength": 2000},
			"ip":      bson.M{"bsonType": "string"},
			"status":  bson.M{"bsonType": "string", "enum": []string{"Success", "Failed", "Warning"}},
		},
	},
}
