// Package repository implements the document store ports on MongoDB.
package repository

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/platewise/recipe-catalog/backend/internal/models"
)

// RecipeRepository stores recipes in the "recipes" collection, joining
// categories from the "categories" collection on reads.
type RecipeRepository struct {
	coll *mongo.Collection
}

// NewRecipeRepository creates a recipe repository over the given database.
func NewRecipeRepository(db *mongo.Database) *RecipeRepository {
	return &RecipeRepository{coll: db.Collection("recipes")}
}

// categoryLookup joins the referenced category into category_doc. The
// unwind keeps recipes whose reference points at a deleted category.
func categoryLookup() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "categories",
			"localField":   "category",
			"foreignField": "_id",
			"as":           "category_doc",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$category_doc",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

// hideAsset strips the image asset id from query results.
func hideAsset() bson.D {
	return bson.D{{Key: "$project", Value: bson.M{"image_id": 0}}}
}

func (r *RecipeRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.Recipe, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return recipes, nil
}

// Count returns the number of recipes in the catalog.
func (r *RecipeRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// FindPage returns one page of recipes, newest first, category joined and
// asset id excluded.
func (r *RecipeRepository) FindPage(ctx context.Context, skip, limit int64) ([]models.Recipe, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
	}
	pipeline = append(pipeline, categoryLookup()...)
	pipeline = append(pipeline, hideAsset())
	return r.aggregate(ctx, pipeline)
}

// FindByID returns the recipe with the category joined and the asset id
// excluded, or nil when no such recipe exists.
func (r *RecipeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
	}
	pipeline = append(pipeline, categoryLookup()...)
	pipeline = append(pipeline, hideAsset())

	recipes, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, nil
	}
	return &recipes[0], nil
}

// FindByIDWithAsset returns the raw document including the image asset id.
// Write paths use it to know which asset to delete from the image store.
func (r *RecipeRepository) FindByIDWithAsset(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FindLatest returns the newest recipes up to limit, asset id excluded.
func (r *RecipeRepository) FindLatest(ctx context.Context, limit int64) ([]models.Recipe, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"image_id": 0})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return recipes, nil
}

// SearchByName matches recipe names case-insensitively against the given
// substring. The input is quoted so user text cannot inject regex syntax.
func (r *RecipeRepository) SearchByName(ctx context.Context, name string) ([]models.Recipe, error) {
	filter := bson.M{"name": bson.M{
		"$regex":   regexp.QuoteMeta(name),
		"$options": "i",
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"image_id": 0})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return recipes, nil
}

// FindByCategory returns recipes referencing the given category, joined and
// with the asset id excluded.
func (r *RecipeRepository) FindByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Recipe, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"category": categoryID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	pipeline = append(pipeline, categoryLookup()...)
	pipeline = append(pipeline, hideAsset())
	return r.aggregate(ctx, pipeline)
}

// Insert persists a new recipe and returns it with the generated id.
func (r *RecipeRepository) Insert(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	result, err := r.coll.InsertOne(ctx, recipe)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		recipe.ID = oid
	}
	return recipe, nil
}

// UpdateByID applies a partial $set update to the recipe document.
func (r *RecipeRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("recipe %s: %w", id.Hex(), mongo.ErrNoDocuments)
	}
	return nil
}

// DeleteByID removes the recipe document.
func (r *RecipeRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
