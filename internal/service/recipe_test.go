package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/recipe-catalog/backend/internal/service"
	"github.com/platewise/recipe-catalog/backend/internal/testhelpers/mocks"
)

type recipeFixture struct {
	store   *mocks.RecipeStore
	cache   *mocks.Cache
	images  *mocks.ImageStore
	listing *service.ListingService
	recipes *service.RecipeService
}

func newRecipeFixture() *recipeFixture {
	store := mocks.NewRecipeStore()
	cacheStore := mocks.NewCache()
	images := mocks.NewImageStore()
	listing := service.NewListingService(store, cacheStore)
	return &recipeFixture{
		store:   store,
		cache:   cacheStore,
		images:  images,
		listing: listing,
		recipes: service.NewRecipeService(store, images, listing),
	}
}

func createInput(name string) service.CreateRecipeInput {
	return service.CreateRecipeInput{
		Name:        name,
		Description: "a test dish",
		Ingredients: []string{"flour", "water"},
		Steps:       []string{"mix", "bake"},
		CategoryID:  primitive.NewObjectID(),
	}
}

func TestCreateUploadsImageThenPersists(t *testing.T) {
	f := newRecipeFixture()

	created, err := f.recipes.Create(context.Background(), createInput("Flatbread"), strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Flatbread", created.Name)
	assert.False(t, created.ID.IsZero())

	stored := f.store.Stored(created.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "https://images.test/recipe-images/img-1.png", stored.ImageURL)
	assert.Equal(t, "recipe-images/img-1.png", stored.ImageID)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestCreateInvalidatesLastServedPage(t *testing.T) {
	f := newRecipeFixture()
	seedRecipes(f.store, 15)

	_, err := f.listing.List(context.Background(), 2, 10)
	require.NoError(t, err)
	require.True(t, f.cache.Has(service.ListingCacheKey(2, 10)))

	_, err = f.recipes.Create(context.Background(), createInput("Invalidator"), strings.NewReader("img"))
	require.NoError(t, err)

	assert.False(t, f.cache.Has(service.ListingCacheKey(2, 10)))
}

func TestCreateImageFailureIsGeneric(t *testing.T) {
	f := newRecipeFixture()
	f.images.UploadErr = errors.New("bucket exploded")

	_, err := f.recipes.Create(context.Background(), createInput("Doomed"), strings.NewReader("img"))
	assert.ErrorIs(t, err, service.ErrCreateFailed)
	// The real cause stays server-side.
	assert.NotContains(t, err.Error(), "bucket exploded")
	assert.Equal(t, 0, f.store.Len())
}

func TestCreateInsertFailureIsGeneric(t *testing.T) {
	f := newRecipeFixture()
	f.store.InsertErr = errors.New("write concern failed")

	_, err := f.recipes.Create(context.Background(), createInput("Doomed"), strings.NewReader("img"))
	assert.ErrorIs(t, err, service.ErrCreateFailed)
	assert.NotContains(t, err.Error(), "write concern")
}

func TestFindOne(t *testing.T) {
	f := newRecipeFixture()
	seedRecipes(f.store, 1)

	created, err := f.recipes.Create(context.Background(), createInput("Findable"), strings.NewReader("img"))
	require.NoError(t, err)

	found, err := f.recipes.FindOne(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Findable", found.Name)
	// Asset id never leaves the repository on the read path.
	assert.Empty(t, found.ImageID)
}

func TestFindOneNotFound(t *testing.T) {
	f := newRecipeFixture()

	_, err := f.recipes.FindOne(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestGetLatest(t *testing.T) {
	f := newRecipeFixture()
	seedRecipes(f.store, 8)

	latest, err := f.recipes.GetLatest(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, latest, 5)
	assert.Equal(t, "Recipe 8", latest[0].Name)
	assert.Equal(t, "Recipe 4", latest[4].Name)
}

func TestSearchByNameNoMatchIsNotAnError(t *testing.T) {
	f := newRecipeFixture()
	seedRecipes(f.store, 5)

	results, err := f.recipes.SearchByName(context.Background(), "xyz-no-match")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchByNameIsCaseInsensitive(t *testing.T) {
	f := newRecipeFixture()
	seedRecipes(f.store, 3)

	results, err := f.recipes.SearchByName(context.Background(), "rEcIpE 2")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Recipe 2", results[0].Name)
}

// Unknown category yields an empty result while an unknown recipe id is an
// error; the asymmetry is part of the contract.
func TestGetByCategoryUnknownIsNotAnError(t *testing.T) {
	f := newRecipeFixture()
	seedRecipes(f.store, 5)

	results, err := f.recipes.GetByCategory(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUpdateNotFound(t *testing.T) {
	f := newRecipeFixture()

	_, err := f.recipes.Update(context.Background(), primitive.NewObjectID(), service.UpdateRecipeInput{}, nil)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestUpdatePartialFields(t *testing.T) {
	f := newRecipeFixture()

	created, err := f.recipes.Create(context.Background(), createInput("Original"), strings.NewReader("img"))
	require.NoError(t, err)

	newName := "Renamed"
	updated, err := f.recipes.Update(context.Background(), created.ID, service.UpdateRecipeInput{Name: &newName}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	stored := f.store.Stored(created.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "a test dish", stored.Description)
	assert.Equal(t, []string{"flour", "water"}, stored.Ingredients)
	// Image untouched when no new upload came in.
	assert.Equal(t, "recipe-images/img-1.png", stored.ImageID)
	assert.Empty(t, f.images.Deleted)
}

func TestUpdateReplacesImageAtomically(t *testing.T) {
	f := newRecipeFixture()

	created, err := f.recipes.Create(context.Background(), createInput("Pictured"), strings.NewReader("old"))
	require.NoError(t, err)

	_, err = f.recipes.Update(context.Background(), created.ID, service.UpdateRecipeInput{}, strings.NewReader("new"))
	require.NoError(t, err)

	// Old asset removed from the image store first.
	assert.Equal(t, []string{"recipe-images/img-1.png"}, f.images.Deleted)

	stored := f.store.Stored(created.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "recipe-images/img-2.png", stored.ImageID)
	assert.Equal(t, "https://images.test/recipe-images/img-2.png", stored.ImageURL)
}

// Update errors are not converted to a generic failure the way create's are.
func TestUpdateImageErrorPropagates(t *testing.T) {
	f := newRecipeFixture()

	created, err := f.recipes.Create(context.Background(), createInput("Pictured"), strings.NewReader("old"))
	require.NoError(t, err)

	f.images.DeleteErr = errors.New("asset locked")
	_, err = f.recipes.Update(context.Background(), created.ID, service.UpdateRecipeInput{}, strings.NewReader("new"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "asset locked")
}

func TestRemove(t *testing.T) {
	f := newRecipeFixture()

	created, err := f.recipes.Create(context.Background(), createInput("Ephemeral"), strings.NewReader("img"))
	require.NoError(t, err)

	name, err := f.recipes.Remove(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ephemeral", name)

	assert.Nil(t, f.store.Stored(created.ID))
	assert.Equal(t, []string{"recipe-images/img-1.png"}, f.images.Deleted)
}

func TestRemoveNotFound(t *testing.T) {
	f := newRecipeFixture()

	_, err := f.recipes.Remove(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestRemoveInvalidatesLastServedPage(t *testing.T) {
	f := newRecipeFixture()
	seedRecipes(f.store, 10)

	created, err := f.recipes.Create(context.Background(), createInput("Short Lived"), strings.NewReader("img"))
	require.NoError(t, err)

	_, err = f.listing.List(context.Background(), 1, 10)
	require.NoError(t, err)
	require.True(t, f.cache.Has(service.ListingCacheKey(1, 10)))

	_, err = f.recipes.Remove(context.Background(), created.ID)
	require.NoError(t, err)

	assert.False(t, f.cache.Has(service.ListingCacheKey(1, 10)))
}
