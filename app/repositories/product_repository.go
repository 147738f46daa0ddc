package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/apperr"
	"github.com/shashiranjanraj/catalog/pkg/docstore"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// SupplierChecker answers whether a supplier exists.
type SupplierChecker interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// ProductRepository handles database operations for Product. Every write
// that sets supplier_id first checks the supplier exists.
type ProductRepository struct {
	products  docstore.Collection
	suppliers SupplierChecker
	now       func() time.Time
}

func NewProductRepository(products docstore.Collection, suppliers SupplierChecker) *ProductRepository {
	return &ProductRepository{
		products:  products,
		suppliers: suppliers,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts p and returns the id the store assigned.
//
// A malformed supplier id fails with a 400 apperr wrapping
// models.ErrInvalidID; an unknown supplier with a 404 wrapping
// ErrSupplierNotFound; an sku another product holds with a 409 wrapping
// ErrDuplicateSKU. Nothing is written in any of these cases.
func (r *ProductRepository) Create(ctx context.Context, p models.Product) (string, error) {
	supplierID, err := models.ParseID(p.SupplierID)
	if err != nil {
		return "", apperr.BadRequest("Invalid supplier ID format", err)
	}

	if err := r.requireSupplier(ctx, supplierID, fmt.Sprintf("Supplier with ID %s not found", p.SupplierID)); err != nil {
		return "", err
	}

	p.ID = primitive.NilObjectID
	p.CreatedAt = r.now()
	p.UpdatedAt = nil

	id, err := r.products.InsertOne(ctx, p)
	if err != nil {
		return "", duplicateSKU(err, p.SKU)
	}

	logger.WithCtx(ctx).Info("product created", "id", id.Hex(), "supplier_id", p.SupplierID)
	return id.Hex(), nil
}

// GetByID returns nil, nil when no product has the id.
func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	found, err := r.products.FindOne(ctx, docstore.ByID(id), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// GetAll returns one page of the products matching filters together with
// the total number of matches.
//
// Page must be at least 1 and Limit within 1..models.MaxLimit; anything else
// fails with a 400 wrapping ErrInvalidPagination.
func (r *ProductRepository) GetAll(ctx context.Context, pagination models.PaginationParams, filters ...models.Filter) (*models.ProductPage, error) {
	if pagination.Page < 1 || pagination.Limit < 1 || pagination.Limit > models.MaxLimit {
		return nil, apperr.BadRequest(
			fmt.Sprintf("page must be at least 1 and limit between 1 and %d", models.MaxLimit),
			ErrInvalidPagination,
		)
	}

	query, err := buildProductQuery(filters)
	if err != nil {
		return nil, err
	}

	opts := docstore.FindOptions{
		Skip:  pagination.Skip(),
		Limit: int64(pagination.Limit),
	}
	if pagination.SortBy != "" {
		opts.Sort = []docstore.SortField{{Field: pagination.SortBy, Desc: !pagination.Ascending()}}
	}

	var (
		total    int64
		products []models.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = r.products.CountDocuments(gctx, query)
		return err
	})
	g.Go(func() error {
		return r.products.Find(gctx, query, opts, &products)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if products == nil {
		products = []models.Product{}
	}
	return &models.ProductPage{
		Total:    total,
		Page:     pagination.Page,
		Limit:    pagination.Limit,
		Products: products,
	}, nil
}

// Update applies the fields present in u and refreshes updated_at. It
// returns the document as stored after the update, or nil when no product
// has the id.
//
// The write and the read are one atomic find-and-update, so a concurrent
// delete cannot slip in between them. Concurrent updates to the same
// product are last-writer-wins.
func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, u models.ProductUpdate) (*models.Product, error) {
	if u.SupplierID != nil {
		supplierID, err := models.ParseID(*u.SupplierID)
		if err != nil {
			return nil, apperr.BadRequest("Invalid supplier ID format", err)
		}
		if err := r.requireSupplier(ctx, supplierID, "Supplier not found"); err != nil {
			return nil, err
		}
	}

	set, unset := u.Fields()
	set["updated_at"] = r.now()

	var p models.Product
	found, err := r.products.FindOneAndUpdate(ctx, docstore.ByID(id), docstore.Update{Set: set, Unset: unset}, &p)
	if err != nil {
		sku := ""
		if u.SKU != nil {
			sku = *u.SKU
		}
		return nil, duplicateSKU(err, sku)
	}
	if !found {
		return nil, nil
	}

	logger.WithCtx(ctx).Info("product updated", "id", id.Hex(), "fields", len(set)-1+len(unset))
	return &p, nil
}

// Delete removes the product and reports whether one existed.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.products.DeleteOne(ctx, docstore.ByID(id))
	if err != nil {
		return false, err
	}
	if n > 0 {
		logger.WithCtx(ctx).Info("product deleted", "id", id.Hex())
	}
	return n > 0, nil
}

// duplicateSKU turns a unique index violation into a 409. sku is the only
// unique product field besides _id.
func duplicateSKU(err error, sku string) error {
	if !errors.Is(err, docstore.ErrDuplicate) {
		return err
	}
	return apperr.Conflict(
		fmt.Sprintf("Product with SKU %s already exists", sku),
		fmt.Errorf("%w: %w", ErrDuplicateSKU, err),
	)
}

func (r *ProductRepository) requireSupplier(ctx context.Context, id primitive.ObjectID, notFound string) error {
	ok, err := r.suppliers.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check supplier %s: %w", id.Hex(), err)
	}
	if !ok {
		return apperr.NotFound(notFound, ErrSupplierNotFound)
	}
	return nil
}
