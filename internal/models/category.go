package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category groups recipes; every recipe references exactly one.
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}
