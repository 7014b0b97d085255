package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"customer_id",
			"service_id",
			"pet_id",
			"start_time",
			"duration_min",
			"total_price",
			"status",
			"payment_status",
			"payment_method",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"customer_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"service_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"pet_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			// End of the interval is derived from start_time and
			// duration_min; it is never stored.
			"duration_min": bson.M{
				"bsonType": "int",
				"minimum":  15,
				"maximum":  1440,
			},

			"total_price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"in-progress",
					"completed",
					"cancelled",
					"no-show",
				},
			},

			"special_requests": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"paid",
					"refunded",
					"failed",
				},
			},

			"payment_method": bson.M{
				"bsonType": "string",
				"enum": []string{
					"cash",
					"card",
					"online",
					"bank-transfer",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},

			"completed_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
