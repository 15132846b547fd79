package validators

import "go.mongodb.org/mongo-driver/bson"

var SpeakerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "area", "phone_number", "page_id", "availability", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":          bson.M{"bsonType": "objectId"},
			"name":         bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"area":         bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"phone_number": bson.M{"bsonType": "string"},
			"page_id":      bson.M{"bsonType": "string"},
			"availability": bson.M{
				"bsonType": "object",
				"required": []string{"is_available"},
				"properties": bson.M{
					"is_available":   bson.M{"bsonType": "bool"},
					"program_date":   bson.M{"bsonType": "date"},
					"program_time":   bson.M{"bsonType": "string"},
					"locked_by":      bson.M{"bsonType": "string"},
					"locked_by_name": bson.M{"bsonType": "string"},
					"locked_at":      bson.M{"bsonType": "date"},
				},
			},
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}
