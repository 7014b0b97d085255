package validators

import "go.mongodb.org/mongo-driver/bson"

var PetValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"name",
			"species",
			"breed",
			"active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"species": bson.M{
				"bsonType": "string",
				"enum": []string{
					"dog",
					"cat",
					"bird",
					"rabbit",
					"hamster",
					"fish",
					"other",
				},
			},

			"breed": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"age": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  30,
			},

			"weight_kg": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"gender": bson.M{
				"bsonType": "string",
				"enum": []string{
					"male",
					"female",
					"unknown",
				},
			},

			"color": bson.M{
				"bsonType":  "string",
				"maxLength": 50,
			},

			"allergies": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType":  "string",
					"maxLength": 100,
				},
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
