package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/platewise/recipe-catalog/backend/internal/models"
)

// RegionRepository stores regions in the "regions" collection.
type RegionRepository struct {
	coll *mongo.Collection
}

func NewRegionRepository(db *mongo.Database) *RegionRepository {
	return &RegionRepository{coll: db.Collection("regions")}
}

// FindAll returns every region sorted by name.
func (r *RegionRepository) FindAll(ctx context.Context) ([]models.Region, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var regions []models.Region
	if err := cursor.All(ctx, &regions); err != nil {
		return nil, err
	}
	if regions == nil {
		regions = []models.Region{}
	}
	return regions, nil
}

func (r *RegionRepository) Insert(ctx context.Context, region *models.Region) (*models.Region, error) {
	result, err := r.coll.InsertOne(ctx, region)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		region.ID = oid
	}
	return region, nil
}
