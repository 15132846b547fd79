package validators

import "go.mongodb.org/mongo-driver/bson"

var PageValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "objectId"},
			"name":       bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
			"order":      bson.M{"bsonType": []string{"int", "long"}},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
