package validators

import "go.mongodb.org/mongo-driver/bson"

var SessionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"token",
			"user",
			"created_at",
			"expires_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"token": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"user": bson.M{
				"bsonType": "object",
				"required": []string{"id", "role"},
				"properties": bson.M{
					"id": bson.M{
						"bsonType":  "string",
						"minLength": 1,
					},
					"role": bson.M{
						"enum": []string{"SUPERADMIN", "ADMIN", "USER"},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"expires_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
