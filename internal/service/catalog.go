package service

import (
	"context"

	"github.com/platewise/recipe-catalog/backend/internal/models"
)

// CategoryService manages the recipe categories collection.
type CategoryService struct {
	repo CategoryRepository
}

func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List returns all categories sorted by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.FindAll(ctx)
}

// Create persists a new category.
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	return s.repo.Insert(ctx, &models.Category{Name: name})
}

// RegionService manages the recipe regions collection.
type RegionService struct {
	repo RegionRepository
}

func NewRegionService(repo RegionRepository) *RegionService {
	return &RegionService{repo: repo}
}

// List returns all regions sorted by name.
func (s *RegionService) List(ctx context.Context) ([]models.Region, error) {
	return s.repo.FindAll(ctx)
}

// Create persists a new region.
func (s *RegionService) Create(ctx context.Context, name string) (*models.Region, error) {
	return s.repo.Insert(ctx, &models.Region{Name: name})
}
