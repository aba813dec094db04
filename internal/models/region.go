package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Region is the country/region a recipe originates from. Optional on recipes.
type Region struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}
