package controllers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/resources"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/resource"
)

type SupplierStore interface {
	Create(ctx context.Context, s models.Supplier) (string, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Supplier, error)
}

type SupplierController struct {
	suppliers SupplierStore
}

func NewSupplierController(suppliers SupplierStore) *SupplierController {
	return &SupplierController{suppliers: suppliers}
}

func (sc *SupplierController) Store(c *ctx.Context) {
	var input models.Supplier
	if !c.BindJSON(&input) {
		return
	}

	hex, err := sc.suppliers.Create(c.Context(), input)
	if err != nil {
		c.Fail(err)
		return
	}

	id, _ := primitive.ObjectIDFromHex(hex)
	s, err := sc.suppliers.GetByID(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	if s == nil {
		c.Created(resource.Map{"id": hex})
		return
	}
	c.Created(resource.One(s, resources.Supplier))
}

func (sc *SupplierController) Show(c *ctx.Context) {
	id, ok := pathID(c, "Invalid supplier ID format")
	if !ok {
		return
	}

	s, err := sc.suppliers.GetByID(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	if s == nil {
		c.NotFound("Supplier not found")
		return
	}
	c.Success(resource.One(s, resources.Supplier))
}
