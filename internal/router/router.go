package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/platewise/recipe-catalog/backend/internal/api"
	"github.com/platewise/recipe-catalog/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	recipeHandler *api.RecipeHandler,
	catalogHandler *api.CatalogHandler,
	writeLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var writeGuards []gin.HandlerFunc
	if writeLimiter != nil {
		writeGuards = append(writeGuards, writeLimiter.RateLimitMiddleware())
	}

	// API v1 routes
	v1 := router.Group("/v1/api")
	recipeHandler.RegisterRoutes(v1, writeGuards...)
	catalogHandler.RegisterRoutes(v1, writeGuards...)

	return router
}
