package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/catalog/config"
)

const (
	ProductsCollection  = "products"
	SuppliersCollection = "suppliers"
)

// Connect opens a pooled MongoDB client and verifies it with a ping.
// Returns an error instead of calling log.Fatal so the caller can shut
// down gracefully.
func Connect(ctx context.Context) (*mongo.Client, error) {
	timeout := config.MongoTimeout()

	opts := options.Client().
		ApplyURI(config.MongoURI()).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetMaxPoolSize(config.MongoMaxPool())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return client, nil
}

// ProductUniqueFields hold at most one product per value. Products without
// the field are not constrained.
var ProductUniqueFields = []string{"sku"}

// EnsureIndexes creates the indexes the product queries rely on. Creating
// an index that already exists is a no-op in MongoDB.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	products := []mongo.IndexModel{
		{Keys: bson.D{{Key: "supplier_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}
	for _, field := range ProductUniqueFields {
		products = append(products, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		})
	}
	if _, err := db.Collection(ProductsCollection).Indexes().CreateMany(ctx, products); err != nil {
		return fmt.Errorf("database: product indexes: %w", err)
	}

	suppliers := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}
	if _, err := db.Collection(SuppliersCollection).Indexes().CreateMany(ctx, suppliers); err != nil {
		return fmt.Errorf("database: supplier indexes: %w", err)
	}
	return nil
}
