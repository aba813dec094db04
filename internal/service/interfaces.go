package service

import (
	"context"
	"errors"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/recipe-catalog/backend/internal/models"
)

// ErrCacheMiss is returned by CacheStore.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// RecipeRepository is the document store port for recipes. Read methods
// return recipes with the category joined and the image asset id stripped,
// except FindByIDWithAsset, which the write paths use to learn which asset
// to delete from the image store.
type RecipeRepository interface {
	Count(ctx context.Context) (int64, error)
	FindPage(ctx context.Context, skip, limit int64) ([]models.Recipe, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error)
	FindByIDWithAsset(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error)
	FindLatest(ctx context.Context, limit int64) ([]models.Recipe, error)
	SearchByName(ctx context.Context, name string) ([]models.Recipe, error)
	FindByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Recipe, error)
	Insert(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

// CategoryRepository persists recipe categories.
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]models.Category, error)
	Insert(ctx context.Context, category *models.Category) (*models.Category, error)
}

// RegionRepository persists recipe regions.
type RegionRepository interface {
	FindAll(ctx context.Context) ([]models.Region, error)
	Insert(ctx context.Context, region *models.Region) (*models.Region, error)
}

// ImageUpload is the image host's answer to an upload: the public URL and
// the opaque asset id needed to delete the image later.
type ImageUpload struct {
	URL     string
	AssetID string
}

// ImageStore uploads and deletes binary image assets.
type ImageStore interface {
	Upload(ctx context.Context, r io.Reader, folder string) (*ImageUpload, error)
	Delete(ctx context.Context, assetID string) error
}

// CacheStore is a key/value cache. Get returns ErrCacheMiss when the key
// is not present.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
