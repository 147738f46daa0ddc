package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Supplier is referenced by Product.SupplierID.
type Supplier struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"   json:"id"`
	Name      string             `bson:"name"            json:"name"            validate:"required,min=2,max=255"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,max=32"`
	CreatedAt time.Time          `bson:"created_at"      json:"created_at"`
}
