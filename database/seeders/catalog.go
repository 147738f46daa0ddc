package seeders

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

const seedConcurrency = 4

func init() {
	Register("catalog", SeedCatalog)
}

type demoSupplier struct {
	supplier models.Supplier
	products []models.Product
}

var demo = []demoSupplier{
	{
		supplier: models.Supplier{Name: "Acme Tools", Email: "sales@acme.example", Phone: "+1-555-0100"},
		products: []models.Product{
			{Name: "Claw Hammer", Description: "16 oz steel claw hammer", Price: 12.99, Stock: 120, Category: "hand-tools", SKU: "ACME-HAM-16"},
			{Name: "Adjustable Wrench", Description: "10 inch chrome wrench", Price: 9.49, Stock: 80, Category: "hand-tools", SKU: "ACME-WRN-10"},
			{Name: "Cordless Drill", Description: "18V drill with two batteries", Price: 89.00, Stock: 25, Category: "power-tools", SKU: "ACME-DRL-18"},
		},
	},
	{
		supplier: models.Supplier{Name: "Globex Fasteners", Email: "orders@globex.example"},
		products: []models.Product{
			{Name: "Wood Screws (100)", Price: 4.25, Stock: 500, Category: "fasteners", SKU: "GLX-SCR-100"},
			{Name: "Wall Anchors (50)", Price: 6.75, Stock: 300, Category: "fasteners", SKU: "GLX-ANC-50"},
		},
	},
}

// SeedCatalog creates a few suppliers, then each supplier's products on a
// small bounded pool. Running it again adds nothing: suppliers are matched
// by name and products whose sku is already stored are skipped.
func SeedCatalog(ctx context.Context, r Repos) error {
	for _, d := range demo {
		supplierID, err := ensureSupplier(ctx, r, d.supplier)
		if err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(seedConcurrency)
		for _, p := range d.products {
			p.SupplierID = supplierID
			g.Go(func() error {
				_, err := r.Products.Create(gctx, p)
				if errors.Is(err, repositories.ErrDuplicateSKU) {
					logger.WithCtx(gctx).Debug("product already seeded", "sku", p.SKU)
					return nil
				}
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

func ensureSupplier(ctx context.Context, r Repos, s models.Supplier) (string, error) {
	existing, err := r.Suppliers.FindByName(ctx, s.Name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID.Hex(), nil
	}
	return r.Suppliers.Create(ctx, s)
}
