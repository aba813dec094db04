package service

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/recipe-catalog/backend/internal/models"
)

var (
	// ErrRecipeNotFound is returned when the requested recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrCreateFailed hides the real cause of a failed create from the
	// caller; the cause is logged server-side only.
	ErrCreateFailed = errors.New("could not create recipe")
)

// imageFolder is the image store folder for recipe assets.
const imageFolder = "recipe-images"

// CreateRecipeInput carries the validated fields for a new recipe.
type CreateRecipeInput struct {
	Name        string
	Description string
	Ingredients []string
	Steps       []string
	CategoryID  primitive.ObjectID
	RegionID    *primitive.ObjectID
}

// UpdateRecipeInput carries a partial update; nil fields are left untouched.
type UpdateRecipeInput struct {
	Name        *string
	Description *string
	Ingredients []string
	Steps       []string
	CategoryID  *primitive.ObjectID
	RegionID    *primitive.ObjectID
}

// RecipeService coordinates the document store and the image store for
// recipe reads and writes. Every write invalidates the listing cache slot.
type RecipeService struct {
	repo    RecipeRepository
	images  ImageStore
	listing *ListingService
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(repo RecipeRepository, images ImageStore, listing *ListingService) *RecipeService {
	return &RecipeService{repo: repo, images: images, listing: listing}
}

// FindOne returns the recipe with its category joined, or ErrRecipeNotFound.
func (s *RecipeService) FindOne(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, ErrRecipeNotFound
	}
	return recipe, nil
}

// GetLatest returns the newest recipes up to limit, unpaginated and uncached.
func (s *RecipeService) GetLatest(ctx context.Context, limit int) ([]models.Recipe, error) {
	return s.repo.FindLatest(ctx, int64(limit))
}

// SearchByName matches recipe names case-insensitively. An empty result is
// not an error; the handler turns it into an informational payload.
func (s *RecipeService) SearchByName(ctx context.Context, name string) ([]models.Recipe, error) {
	return s.repo.SearchByName(ctx, name)
}

// GetByCategory returns the recipes referencing the category. Unknown
// categories yield an empty result, not an error — unlike FindOne.
func (s *RecipeService) GetByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Recipe, error) {
	return s.repo.FindByCategory(ctx, categoryID)
}

// Create uploads the image first and persists the recipe with the returned
// URL and asset id. Any failure along the way is logged and reported as
// ErrCreateFailed so internals do not leak to the caller.
func (s *RecipeService) Create(ctx context.Context, input CreateRecipeInput, image io.Reader) (*models.Recipe, error) {
	upload, err := s.images.Upload(ctx, image, imageFolder)
	if err != nil {
		log.Printf("[RecipeService] image upload failed: %v", err)
		return nil, ErrCreateFailed
	}

	recipe := &models.Recipe{
		Name:        input.Name,
		Description: input.Description,
		Ingredients: input.Ingredients,
		Steps:       input.Steps,
		ImageURL:    upload.URL,
		ImageID:     upload.AssetID,
		CategoryID:  input.CategoryID,
		RegionID:    input.RegionID,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Insert(ctx, recipe)
	if err != nil {
		log.Printf("[RecipeService] insert failed for %q: %v", input.Name, err)
		return nil, ErrCreateFailed
	}

	s.listing.InvalidateLast(ctx)
	return created, nil
}

// Update applies a partial update. When a new image is supplied the old
// asset is deleted from the image store before the replacement is uploaded,
// and URL and asset id are overwritten together. Store errors propagate
// unwrapped.
func (s *RecipeService) Update(ctx context.Context, id primitive.ObjectID, input UpdateRecipeInput, image io.Reader) (*models.Recipe, error) {
	existing, err := s.repo.FindByIDWithAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrRecipeNotFound
	}

	s.listing.InvalidateLast(ctx)

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if len(input.Ingredients) > 0 {
		fields["ingredients"] = input.Ingredients
	}
	if len(input.Steps) > 0 {
		fields["steps"] = input.Steps
	}
	if input.CategoryID != nil {
		fields["category"] = *input.CategoryID
	}
	if input.RegionID != nil {
		fields["region"] = *input.RegionID
	}

	if image != nil {
		if err := s.images.Delete(ctx, existing.ImageID); err != nil {
			return nil, err
		}
		upload, err := s.images.Upload(ctx, image, imageFolder)
		if err != nil {
			return nil, err
		}
		// URL and asset id always change together.
		fields["image_url"] = upload.URL
		fields["image_id"] = upload.AssetID
	}

	if err := s.repo.UpdateByID(ctx, id, fields); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrRecipeNotFound
	}
	return updated, nil
}

// Remove deletes the recipe and its image asset and returns the deleted
// recipe's name. Store errors propagate unwrapped.
func (s *RecipeService) Remove(ctx context.Context, id primitive.ObjectID) (string, error) {
	existing, err := s.repo.FindByIDWithAsset(ctx, id)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return "", ErrRecipeNotFound
	}

	s.listing.InvalidateLast(ctx)

	if err := s.images.Delete(ctx, existing.ImageID); err != nil {
		return "", err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return "", err
	}

	return existing.Name, nil
}
