package validators

import "go.mongodb.org/mongo-driver/bson"

var ServiceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"description",
			"category",
			"price",
			"duration_min",
			"active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"description": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 1000,
			},

			"category": bson.M{
				"bsonType": "string",
				"enum": []string{
					"grooming",
					"walking",
					"training",
					"veterinary",
					"boarding",
					"exercise",
					"health",
					"care",
					"other",
				},
			},

			"price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"duration_min": bson.M{
				"bsonType": "int",
				"minimum":  15,
				"maximum":  1440,
			},

			"image": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"active": bson.M{
				"bsonType": "bool",
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
