// Package mocks provides in-memory fakes for the store ports so service
// and handler tests run without Mongo, Redis or S3.
package mocks

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/recipe-catalog/backend/internal/models"
	"github.com/platewise/recipe-catalog/backend/internal/service"
)

// RecipeStore is an in-memory service.RecipeRepository.
type RecipeStore struct {
	mu         sync.Mutex
	recipes    []models.Recipe
	categories map[primitive.ObjectID]models.Category

	InsertErr error
}

func NewRecipeStore() *RecipeStore {
	return &RecipeStore{categories: make(map[primitive.ObjectID]models.Category)}
}

// Seed adds recipes directly, assigning ids where missing.
func (s *RecipeStore) Seed(recipes ...models.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range recipes {
		if r.ID.IsZero() {
			r.ID = primitive.NewObjectID()
		}
		s.recipes = append(s.recipes, r)
	}
}

// AddCategory registers a category for join lookups.
func (s *RecipeStore) AddCategory(category models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[category.ID] = category
}

// Len reports how many recipes are stored.
func (s *RecipeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recipes)
}

// Stored returns the raw stored document, asset id included.
func (s *RecipeStore) Stored(id primitive.ObjectID) *models.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			r := s.recipes[i]
			return &r
		}
	}
	return nil
}

// joined returns a read-model copy: category attached, asset id stripped.
func (s *RecipeStore) joined(r models.Recipe) models.Recipe {
	r.ImageID = ""
	if cat, ok := s.categories[r.CategoryID]; ok {
		c := cat
		r.Category = &c
	}
	return r
}

func (s *RecipeStore) sortedDesc() []models.Recipe {
	out := make([]models.Recipe, len(s.recipes))
	copy(out, s.recipes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *RecipeStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.recipes)), nil
}

func (s *RecipeStore) FindPage(ctx context.Context, skip, limit int64) ([]models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := s.sortedDesc()
	if skip >= int64(len(sorted)) {
		return []models.Recipe{}, nil
	}
	sorted = sorted[skip:]
	if int64(len(sorted)) > limit {
		sorted = sorted[:limit]
	}

	page := make([]models.Recipe, 0, len(sorted))
	for _, r := range sorted {
		page = append(page, s.joined(r))
	}
	return page, nil
}

func (s *RecipeStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recipes {
		if r.ID == id {
			joined := s.joined(r)
			return &joined, nil
		}
	}
	return nil, nil
}

func (s *RecipeStore) FindByIDWithAsset(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recipes {
		if r.ID == id {
			raw := r
			return &raw, nil
		}
	}
	return nil, nil
}

func (s *RecipeStore) FindLatest(ctx context.Context, limit int64) ([]models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := s.sortedDesc()
	if int64(len(sorted)) > limit {
		sorted = sorted[:limit]
	}
	latest := make([]models.Recipe, 0, len(sorted))
	for _, r := range sorted {
		r.ImageID = ""
		latest = append(latest, r)
	}
	return latest, nil
}

func (s *RecipeStore) SearchByName(ctx context.Context, name string) ([]models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := []models.Recipe{}
	needle := strings.ToLower(name)
	for _, r := range s.sortedDesc() {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			r.ImageID = ""
			matches = append(matches, r)
		}
	}
	return matches, nil
}

func (s *RecipeStore) FindByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := []models.Recipe{}
	for _, r := range s.sortedDesc() {
		if r.CategoryID == categoryID {
			matches = append(matches, s.joined(r))
		}
	}
	return matches, nil
}

func (s *RecipeStore) Insert(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if s.InsertErr != nil {
		return nil, s.InsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if recipe.ID.IsZero() {
		recipe.ID = primitive.NewObjectID()
	}
	s.recipes = append(s.recipes, *recipe)
	return recipe, nil
}

func (s *RecipeStore) UpdateByID(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recipes {
		if s.recipes[i].ID != id {
			continue
		}
		r := &s.recipes[i]
		for key, value := range fields {
			switch key {
			case "name":
				r.Name = value.(string)
			case "description":
				r.Description = value.(string)
			case "ingredients":
				r.Ingredients = value.([]string)
			case "steps":
				r.Steps = value.([]string)
			case "category":
				r.CategoryID = value.(primitive.ObjectID)
			case "region":
				region := value.(primitive.ObjectID)
				r.RegionID = &region
			case "image_url":
				r.ImageURL = value.(string)
			case "image_id":
				r.ImageID = value.(string)
			}
		}
		return nil
	}
	return fmt.Errorf("recipe %s not found", id.Hex())
}

func (s *RecipeStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
			return nil
		}
	}
	return nil
}

// CategoryStore is an in-memory service.CategoryRepository.
type CategoryStore struct {
	mu         sync.Mutex
	categories []models.Category
}

func NewCategoryStore(categories ...models.Category) *CategoryStore {
	return &CategoryStore{categories: categories}
}

func (s *CategoryStore) FindAll(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *CategoryStore) Insert(ctx context.Context, category *models.Category) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	s.categories = append(s.categories, *category)
	return category, nil
}

// RegionStore is an in-memory service.RegionRepository.
type RegionStore struct {
	mu      sync.Mutex
	regions []models.Region
}

func NewRegionStore(regions ...models.Region) *RegionStore {
	return &RegionStore{regions: regions}
}

func (s *RegionStore) FindAll(ctx context.Context) ([]models.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Region, len(s.regions))
	copy(out, s.regions)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *RegionStore) Insert(ctx context.Context, region *models.Region) (*models.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if region.ID.IsZero() {
		region.ID = primitive.NewObjectID()
	}
	s.regions = append(s.regions, *region)
	return region, nil
}

// Cache is an in-memory service.CacheStore that records its traffic.
type Cache struct {
	mu      sync.Mutex
	data    map[string][]byte
	Deleted []string
	SetKeys []string
}

func NewCache() *Cache {
	return &Cache{data: make(map[string][]byte)}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.data[key]
	if !ok {
		return nil, service.ErrCacheMiss
	}
	return value, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.SetKeys = append(c.SetKeys, key)
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.Deleted = append(c.Deleted, key)
	return nil
}

// Has reports whether the key is currently cached.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// Put stores a raw entry, bypassing the recorded traffic.
func (c *Cache) Put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// ImageStore is an in-memory service.ImageStore.
type ImageStore struct {
	mu      sync.Mutex
	counter int
	Deleted []string

	UploadErr error
	DeleteErr error
}

func NewImageStore() *ImageStore {
	return &ImageStore{}
}

func (s *ImageStore) Upload(ctx context.Context, r io.Reader, folder string) (*service.ImageUpload, error) {
	if s.UploadErr != nil {
		return nil, s.UploadErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	assetID := fmt.Sprintf("%s/img-%d.png", folder, s.counter)
	return &service.ImageUpload{
		URL:     fmt.Sprintf("https://images.test/%s", assetID),
		AssetID: assetID,
	}, nil
}

func (s *ImageStore) Delete(ctx context.Context, assetID string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, assetID)
	return nil
}
