package validators

import "go.mongodb.org/mongo-driver/bson"

var PaymentSettingsValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "accepted_modes", "min_partial_percent"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":                bson.M{"bsonType": "string", "enum": []string{"default"}},
			"gcash_account_name": bson.M{"bsonType": "string", "maxLength": 100},
			"gcash_number":       bson.M{"bsonType": "string"},
			"accepted_modes": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items":    bson.M{"bsonType": "string", "enum": []string{"Cash", "Gcash"}},
			},
			"min_partial_percent": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0, "maximum": 100},
			"updated_at":          bson.M{"bsonType": "date"},
		},
	},
}
