package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/platewise/recipe-catalog/backend/config"
)

// NewMongoClient connects to MongoDB and verifies the connection.
func NewMongoClient(cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}

	// Test the connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("error pinging MongoDB: %w", err)
	}

	log.Printf("Successfully connected to MongoDB database %s", cfg.MongoDB)
	return client, nil
}

// Database returns the application database handle.
func Database(client *mongo.Client, cfg *config.Config) *mongo.Database {
	return client.Database(cfg.MongoDB)
}
