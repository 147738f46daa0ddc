package seeders_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/database/seeders"
	"github.com/shashiranjanraj/catalog/pkg/app"
)

func TestRunAll_SeedsCatalog(t *testing.T) {
	a := app.NewInMemory()
	var out bytes.Buffer

	err := seeders.RunAll(context.Background(), seeders.Repos{Suppliers: a.Suppliers, Products: a.Products}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "catalog … done")

	page, err := a.Products.GetAll(context.Background(), models.PaginationParams{Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)

	tools, err := a.Products.GetAll(context.Background(), models.DefaultPagination(),
		models.Eq{Name: "category", Value: "fasteners"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), tools.Total)
}

func TestSeedCatalog_RunsTwice(t *testing.T) {
	ctx := context.Background()
	a := app.NewInMemory()
	repos := seeders.Repos{Suppliers: a.Suppliers, Products: a.Products}

	require.NoError(t, seeders.SeedCatalog(ctx, repos))
	require.NoError(t, seeders.SeedCatalog(ctx, repos), "a second run must not conflict")

	page, err := a.Products.GetAll(ctx, models.PaginationParams{Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)

	acme, err := a.Suppliers.FindByName(ctx, "Acme Tools")
	require.NoError(t, err)
	require.NotNil(t, acme)
	owned, err := a.Products.GetAll(ctx, models.DefaultPagination(),
		models.Eq{Name: "supplier_id", Value: acme.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, int64(3), owned.Total, "the existing supplier is reused")
}
