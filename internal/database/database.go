package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront/internal/config"
	"storefront/internal/repository"
)

// Connect abre el cliente de Mongo y verifica la conexión con un ping al primario.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Printf("🔌 Connecting to MongoDB database %q", cfg.Database)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		Disconnect(client)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Println("✅ Connected to MongoDB")
	return client, nil
}

// Disconnect cierra el cliente con un tiempo límite propio.
func Disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Println("⚠️ Error disconnecting from MongoDB:", err)
	}
}

// indexes por colección, además del índice único sobre id.
var indexes = map[string][]mongo.IndexModel{
	repository.OrdersCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "paymentMethod", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	},
	repository.ReviewsCollection: {
		{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	repository.UsersCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	repository.ProductsCollection: {
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}},
	},
}

// EnsureIndexes crea los índices de todas las colecciones; es idempotente.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, name := range repository.Collections {
		models := []mongo.IndexModel{{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		}}
		models = append(models, indexes[name]...)

		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	log.Println("📇 MongoDB indexes ensured")
	return nil
}
