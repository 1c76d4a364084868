package validators

import "go.mongodb.org/mongo-driver/bson"

var FAQValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"question", "answer", "tags", "pages", "keywords", "updated_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":      bson.M{"bsonType": "objectId"},
			"question": bson.M{"bsonType": "string", "minLength": 5, "maxLength": 300},
			"answer":   bson.M{"bsonType": "string", "minLength": 2, "maxLength": 5000},
			"tags": bson.M{
				"bsonType": "array",
				"maxItems": 20,
				"items":    bson.M{"bsonType": "string", "maxLength": 40},
			},
			"pages": bson.M{
				"bsonType": "array",
				"maxItems": 20,
				"items":    bson.M{"bsonType": "string", "maxLength": 60},
			},
			"keywords": bson.M{
				"bsonType": "array",
				"maxItems": 40,
				"items":    bson.M{"bsonType": "string", "maxLength": 40},
			},
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}
