package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/recipe-catalog/backend/internal/pagination"
	"github.com/platewise/recipe-catalog/backend/internal/service"
)

const (
	defaultPageLimit   = 10
	defaultLatestLimit = 5
)

// RecipeHandler exposes the recipe catalog over HTTP.
type RecipeHandler struct {
	recipes *service.RecipeService
	listing *service.ListingService
}

func NewRecipeHandler(recipes *service.RecipeService, listing *service.ListingService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, listing: listing}
}

// RegisterRoutes mounts the recipe endpoints. Static paths are registered
// alongside the :id parameter; gin resolves them with static precedence.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, writeGuards ...gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/latest", h.LatestRecipes)
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/filter", h.RecipesByCategory)
		recipes.GET("/:id", h.GetRecipe)

		writes := recipes.Group("", writeGuards...)
		writes.POST("", h.CreateRecipe)
		writes.PUT("/:id", h.UpdateRecipe)
		writes.DELETE("/:id", h.DeleteRecipe)
	}
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return value, nil
}

// ListRecipes handles GET /recipes?page&limit.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, err := queryInt(c, "limit", defaultPageLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be at least 1"})
		return
	}

	listing, err := h.listing.List(c.Request.Context(), page, limit)
	if err != nil {
		if errors.Is(err, pagination.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// LatestRecipes handles GET /recipes/latest?limit.
func (h *RecipeHandler) LatestRecipes(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultLatestLimit)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	recipes, err := h.recipes.GetLatest(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch latest recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": recipes})
}

// SearchRecipes handles GET /recipes/search?name=.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	recipes, err := h.recipes.SearchByName(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search recipes"})
		return
	}

	// No matches is information, not an error.
	if len(recipes) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("no recipes matched %q", name),
			"data":    recipes,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": recipes})
}

// RecipesByCategory handles GET /recipes/filter?CategoryId=.
func (h *RecipeHandler) RecipesByCategory(c *gin.Context) {
	raw := c.Query("CategoryId")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CategoryId query parameter is required"})
		return
	}
	categoryID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CategoryId must be a valid id"})
		return
	}

	recipes, err := h.recipes.GetByCategory(c.Request.Context(), categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	// Unknown categories report "no recipes", not a 404. Single-recipe
	// lookups do fail with 404; the asymmetry is intentional.
	if len(recipes) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "no recipes in this category",
			"data":    recipes,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": recipes})
}

// GetRecipe handles GET /recipes/:id.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid recipe id"})
		return
	}

	recipe, err := h.recipes.FindOne(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipe"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// openImage returns the uploaded image file, or (nil, nil) when the request
// carries none.
func openImage(c *gin.Context) (multipart.File, error) {
	fileHeader, err := c.FormFile("image")
	if err == http.ErrMissingFile || fileHeader == nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fileHeader.Open()
}

// CreateRecipe handles POST /recipes (multipart).
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	input, verrs := validateCreateRecipe(c)
	if verrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": verrs})
		return
	}

	image, err := openImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image upload"})
		return
	}
	if image == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": ValidationErrors{
			{Field: "image", Message: "image is required"},
		}})
		return
	}
	defer image.Close()

	recipe, err := h.recipes.Create(c.Request.Context(), *input, image)
	if err != nil {
		// Deliberately generic: the cause was logged by the service.
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrCreateFailed.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("recipe %q created", recipe.Name),
		"data":    recipe,
	})
}

// UpdateRecipe handles PUT /recipes/:id (multipart, partial).
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid recipe id"})
		return
	}

	input, verrs := validateUpdateRecipe(c)
	if verrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": verrs})
		return
	}

	image, err := openImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image upload"})
		return
	}
	var imageReader io.Reader
	if image != nil {
		defer image.Close()
		imageReader = image
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, *input, imageReader)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		// Update errors surface as-is, unlike create.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("recipe %q updated", recipe.Name),
		"data":    recipe,
	})
}

// DeleteRecipe handles DELETE /recipes/:id.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid recipe id"})
		return
	}

	name, err := h.recipes.Remove(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("recipe %q deleted", name)})
}
