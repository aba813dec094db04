package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/recipe-catalog/backend/internal/service"
)

// CatalogHandler exposes the category and region collections.
type CatalogHandler struct {
	categories *service.CategoryService
	regions    *service.RegionService
}

func NewCatalogHandler(categories *service.CategoryService, regions *service.RegionService) *CatalogHandler {
	return &CatalogHandler{categories: categories, regions: regions}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup, writeGuards ...gin.HandlerFunc) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.Group("", writeGuards...).POST("", h.CreateCategory)
	}
	regions := router.Group("/regions")
	{
		regions.GET("", h.ListRegions)
		regions.Group("", writeGuards...).POST("", h.CreateRegion)
	}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CreateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": ValidationErrors{
			{Field: "name", Message: "name is required"},
		}})
		return
	}

	category, err := h.categories.Create(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": category})
}

func (h *CatalogHandler) ListRegions(c *gin.Context) {
	regions, err := h.regions.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch regions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": regions})
}

func (h *CatalogHandler) CreateRegion(c *gin.Context) {
	var req CreateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": ValidationErrors{
			{Field: "name", Message: "name is required"},
		}})
		return
	}

	region, err := h.regions.Create(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create region"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": region})
}
