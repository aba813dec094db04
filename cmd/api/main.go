package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/platewise/recipe-catalog/backend/config"
	"github.com/platewise/recipe-catalog/backend/internal/api"
	"github.com/platewise/recipe-catalog/backend/internal/cache"
	"github.com/platewise/recipe-catalog/backend/internal/database"
	"github.com/platewise/recipe-catalog/backend/internal/middleware"
	"github.com/platewise/recipe-catalog/backend/internal/repository"
	"github.com/platewise/recipe-catalog/backend/internal/router"
	"github.com/platewise/recipe-catalog/backend/internal/server"
	"github.com/platewise/recipe-catalog/backend/internal/service"
)

func main() {
	// A missing .env file is fine; environment variables take over.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := database.NewMongoClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("MongoDB disconnect error: %v", err)
		}
	}()

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3: %v", err)
	}

	// Compose stores, services and handlers explicitly.
	db := database.Database(mongoClient, cfg)
	recipeRepo := repository.NewRecipeRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	regionRepo := repository.NewRegionRepository(db)

	listingCache := cache.NewRedisCache(redisClient, 0)
	imageStore := service.NewS3ImageStore(s3Config)

	listingService := service.NewListingService(recipeRepo, listingCache)
	recipeService := service.NewRecipeService(recipeRepo, imageStore, listingService)
	categoryService := service.NewCategoryService(categoryRepo)
	regionService := service.NewRegionService(regionRepo)

	recipeHandler := api.NewRecipeHandler(recipeService, listingService)
	catalogHandler := api.NewCatalogHandler(categoryService, regionService)
	writeLimiter := middleware.NewWriteRateLimiter(redisClient)

	engine := router.SetupRouter(recipeHandler, catalogHandler, writeLimiter)
	srv := server.New(engine, cfg.ServerHost+":"+cfg.ServerPort)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
