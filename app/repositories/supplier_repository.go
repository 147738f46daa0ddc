package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/docstore"
)

// SupplierRepository handles database operations for Supplier.
type SupplierRepository struct {
	suppliers docstore.Collection
}

func NewSupplierRepository(suppliers docstore.Collection) *SupplierRepository {
	return &SupplierRepository{suppliers: suppliers}
}

// Create persists a new supplier and returns its id.
func (r *SupplierRepository) Create(ctx context.Context, s models.Supplier) (string, error) {
	s.ID = primitive.NilObjectID
	s.CreatedAt = time.Now().UTC()

	id, err := r.suppliers.InsertOne(ctx, s)
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

// GetByID returns nil when no supplier has the id.
func (r *SupplierRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Supplier, error) {
	var s models.Supplier
	found, err := r.suppliers.FindOne(ctx, docstore.ByID(id), &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

// FindByName returns the first supplier named name, nil when there is none.
func (r *SupplierRepository) FindByName(ctx context.Context, name string) (*models.Supplier, error) {
	var s models.Supplier
	found, err := r.suppliers.FindOne(ctx, bson.M{"name": name}, &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

// Exists reports whether a supplier with id is stored.
func (r *SupplierRepository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.suppliers.CountDocuments(ctx, docstore.ByID(id))
	return n > 0, err
}
