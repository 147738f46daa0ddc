package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a product in the catalogue.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"         json:"id"`
	Name        string             `bson:"name"                  json:"name"                  validate:"required,min=2,max=255"`
	Description string             `bson:"description,omitempty" json:"description,omitempty" validate:"max=2000"`
	Price       float64            `bson:"price"                 json:"price"                 validate:"gte=0"`
	Stock       int                `bson:"stock"                 json:"stock"                 validate:"gte=0"`
	Category    string             `bson:"category,omitempty"    json:"category,omitempty"    validate:"max=100"`
	SKU         string             `bson:"sku,omitempty"         json:"sku,omitempty"         validate:"max=100"`
	SupplierID  string             `bson:"supplier_id"           json:"supplier_id"           validate:"required"`
	CreatedAt   time.Time          `bson:"created_at"            json:"created_at"`
	UpdatedAt   *time.Time         `bson:"updated_at,omitempty"  json:"updated_at,omitempty"`
}

// ProductUpdate is a partial update: nil fields are left untouched.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"        validate:"omitempty,min=2,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price,omitempty"       validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock,omitempty"       validate:"omitempty,gte=0"`
	Category    *string  `json:"category,omitempty"    validate:"omitempty,max=100"`
	SKU         *string  `json:"sku,omitempty"         validate:"omitempty,max=100"`
	SupplierID  *string  `json:"supplier_id,omitempty"`
}

// Fields returns the $set document for the fields present in u, and the
// optional text fields to $unset. An empty description, category or sku
// clears the field, so it is stored the same way as on create.
func (u ProductUpdate) Fields() (set bson.M, unset []string) {
	set = bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Stock != nil {
		set["stock"] = *u.Stock
	}
	if u.SupplierID != nil {
		set["supplier_id"] = *u.SupplierID
	}
	for field, v := range map[string]*string{
		"description": u.Description,
		"category":    u.Category,
		"sku":         u.SKU,
	} {
		switch {
		case v == nil:
		case *v == "":
			unset = append(unset, field)
		default:
			set[field] = *v
		}
	}
	sort.Strings(unset)
	return set, unset
}
