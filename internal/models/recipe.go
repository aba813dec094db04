package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe is a catalog entry backed by the "recipes" collection.
//
// ImageID is the image host's asset identifier. It exists only so the asset
// can be deleted later and is excluded from every read projection; it must be
// set or replaced together with ImageURL, never on its own.
type Recipe struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description" json:"description"`
	Ingredients []string            `bson:"ingredients" json:"ingredients"`
	Steps       []string            `bson:"steps" json:"steps"`
	ImageURL    string              `bson:"image_url" json:"image_url"`
	ImageID     string              `bson:"image_id,omitempty" json:"-"`
	CategoryID  primitive.ObjectID  `bson:"category" json:"category_id"`
	RegionID    *primitive.ObjectID `bson:"region,omitempty" json:"region_id,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`

	// Category carries the joined category document when the query asked
	// for it; it is never written back to the collection.
	Category *Category `bson:"category_doc,omitempty" json:"category,omitempty"`
}
