package controllers

import (
	"context"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/resources"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/resource"
)

// ProductStore is the subset of repositories.ProductRepository the
// controller uses.
type ProductStore interface {
	Create(ctx context.Context, p models.Product) (string, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetAll(ctx context.Context, pagination models.PaginationParams, filters ...models.Filter) (*models.ProductPage, error)
	Update(ctx context.Context, id primitive.ObjectID, u models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type ProductController struct {
	products ProductStore
}

func NewProductController(products ProductStore) *ProductController {
	return &ProductController{products: products}
}

// Index lists products.
//
//	GET /api/products?page=2&limit=20&sort_by=price&sort_order=asc&category=tools&min_price=5
func (pc *ProductController) Index(c *ctx.Context) {
	pagination, ok := paginationFrom(c)
	if !ok {
		return
	}
	filters, ok := productFiltersFrom(c)
	if !ok {
		return
	}

	page, err := pc.products.GetAll(c.Context(), pagination, filters...)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.ProductPage(*page))
}

func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := pathID(c, "Invalid product ID format")
	if !ok {
		return
	}

	p, err := pc.products.GetByID(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	if p == nil {
		c.NotFound("Product not found")
		return
	}
	c.Success(resource.One(p, resources.Product))
}

func (pc *ProductController) Store(c *ctx.Context) {
	var input models.Product
	if !c.BindJSON(&input) {
		return
	}

	hex, err := pc.products.Create(c.Context(), input)
	if err != nil {
		c.Fail(err)
		return
	}

	id, _ := primitive.ObjectIDFromHex(hex)
	p, err := pc.products.GetByID(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	if p == nil {
		c.Created(resource.Map{"id": hex})
		return
	}
	c.Created(resource.One(p, resources.Product))
}

// Update applies a partial update; absent fields are left as stored.
func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := pathID(c, "Invalid product ID format")
	if !ok {
		return
	}

	var input models.ProductUpdate
	if !c.BindJSON(&input) {
		return
	}

	p, err := pc.products.Update(c.Context(), id, input)
	if err != nil {
		c.Fail(err)
		return
	}
	if p == nil {
		c.NotFound("Product not found")
		return
	}
	c.Success(resource.One(p, resources.Product))
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := pathID(c, "Invalid product ID format")
	if !ok {
		return
	}

	deleted, err := pc.products.Delete(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	if !deleted {
		c.NotFound("Product not found")
		return
	}
	c.Message("Product deleted successfully")
}

func pathID(c *ctx.Context, invalid string) (primitive.ObjectID, bool) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		c.Error(http.StatusBadRequest, invalid)
		return primitive.NilObjectID, false
	}
	return id, true
}

func paginationFrom(c *ctx.Context) (models.PaginationParams, bool) {
	p := models.DefaultPagination()
	p.SortBy = c.Query("sort_by")
	p.SortOrder = c.Query("sort_order")

	var err error
	if p.Page, err = strconv.Atoi(c.DefaultQuery("page", "1")); err != nil {
		c.Error(http.StatusBadRequest, "page must be an integer")
		return p, false
	}
	if p.Limit, err = strconv.Atoi(c.DefaultQuery("limit", "10")); err != nil {
		c.Error(http.StatusBadRequest, "limit must be an integer")
		return p, false
	}
	if errs := c.Validate(p); len(errs) > 0 {
		c.ValidationError(errs)
		return p, false
	}
	return p, true
}

func productFiltersFrom(c *ctx.Context) ([]models.Filter, bool) {
	var filters []models.Filter
	for _, field := range []string{"name", "category", "sku", "supplier_id"} {
		if v := c.Query(field); v != "" {
			filters = append(filters, models.Eq{Name: field, Value: v})
		}
	}

	for _, field := range []string{"price", "stock"} {
		lo, ok := floatQuery(c, "min_"+field)
		if !ok {
			return nil, false
		}
		hi, ok := floatQuery(c, "max_"+field)
		if !ok {
			return nil, false
		}
		if lo != nil || hi != nil {
			filters = append(filters, models.Range{Name: field, Min: lo, Max: hi})
		}
	}
	return filters, true
}

func floatQuery(c *ctx.Context, key string) (*float64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.Error(http.StatusBadRequest, key+" must be a number")
		return nil, false
	}
	return &f, true
}
