package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "email", "signup_date", "status"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":         bson.M{"bsonType": "objectId"},
			"name":        bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"email":       bson.M{"bsonType": "string"},
			"phone":       bson.M{"bsonType": "string", "pattern": `^\+[1-9]\d{1,14}$`},
			"signup_date": bson.M{"bsonType": "date"},
			"status":      bson.M{"bsonType": "string", "enum": []string{"Active", "Deactivated"}},
			"updated_at":  bson.M{"bsonType": "date"},
		},
	},
}
