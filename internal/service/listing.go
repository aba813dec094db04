package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/platewise/recipe-catalog/backend/internal/models"
	"github.com/platewise/recipe-catalog/backend/internal/pagination"
)

// RecipeListing is one cached page of the recipe catalog.
type RecipeListing struct {
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	TotalItems int64           `json:"total_items"`
	Data       []models.Recipe `json:"data"`
}

// ListingService serves paginated recipe listings through the cache store.
//
// Invalidation is deliberately narrow: only the cache entry for the most
// recently served page is dropped on a write. Pages cached earlier stay
// until their TTL expires and may serve stale data. The last-served key
// lives in a mutex-guarded slot so concurrent requests cannot corrupt it,
// but the single-slot policy itself is kept as-is.
type ListingService struct {
	repo  RecipeRepository
	cache CacheStore

	mu      sync.Mutex
	lastKey string
}

// NewListingService creates a listing service over the given stores.
func NewListingService(repo RecipeRepository, cache CacheStore) *ListingService {
	return &ListingService{repo: repo, cache: cache}
}

// ListingCacheKey derives the cache key for a (page, limit) pair. Same
// inputs always map to the same key.
func ListingCacheKey(page, limit int) string {
	return fmt.Sprintf("recipes:page=%d:limit=%d", page, limit)
}

// List returns one page of recipes, newest first. The page is validated
// against a fresh count on every call; a cache hit never bypasses that
// validation, but a valid hit is returned as-is without any staleness check.
func (s *ListingService) List(ctx context.Context, page, limit int) (*RecipeListing, error) {
	key := ListingCacheKey(page, limit)

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}
	meta, err := pagination.Paginate(total, page, limit)
	if err != nil {
		return nil, err
	}

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var listing RecipeListing
		if err := json.Unmarshal(cached, &listing); err == nil {
			s.remember(key)
			return &listing, nil
		}
		log.Printf("[ListingService] dropping undecodable cache entry %s", key)
	} else if !errors.Is(err, ErrCacheMiss) {
		log.Printf("[ListingService] cache get %s: %v", key, err)
	}

	skip := int64(page-1) * int64(limit)
	recipes, err := s.repo.FindPage(ctx, skip, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("find recipe page: %w", err)
	}

	listing := &RecipeListing{
		Page:       meta.Page,
		TotalPages: meta.TotalPages,
		TotalItems: meta.TotalItems,
		Data:       recipes,
	}

	if payload, err := json.Marshal(listing); err == nil {
		if err := s.cache.Set(ctx, key, payload); err != nil {
			log.Printf("[ListingService] cache set %s: %v", key, err)
		}
	}

	s.remember(key)
	return listing, nil
}

func (s *ListingService) remember(key string) {
	s.mu.Lock()
	s.lastKey = key
	s.mu.Unlock()
}

// InvalidateLast drops the cache entry for the most recently served page.
// The slot is emptied in the same critical section, so two concurrent
// writes delete the key once.
func (s *ListingService) InvalidateLast(ctx context.Context) {
	s.mu.Lock()
	key := s.lastKey
	s.lastKey = ""
	s.mu.Unlock()

	if key == "" {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("[ListingService] cache delete %s: %v", key, err)
	}
}
