package routes

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/catalog/app/controllers"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/rbac"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// Deps are the stores the API serves. Ping backs /healthz and may be nil.
type Deps struct {
	Products     controllers.ProductStore
	Suppliers    controllers.SupplierStore
	Ping         func(ctx context.Context) error
	AuthRequired bool
}

func RegisterAPI(r *router.Router, d Deps) {
	products := controllers.NewProductController(d.Products)
	suppliers := controllers.NewSupplierController(d.Suppliers)

	r.Get("/healthz", "health", health(d.Ping))

	api := r.Group("/api")
	api.Get("/products", "products.index", ctx.Wrap(products.Index))
	api.Get("/products/{id}", "products.show", ctx.Wrap(products.Show))
	api.Get("/suppliers/{id}", "suppliers.show", ctx.Wrap(suppliers.Show))

	writes := api
	if d.AuthRequired {
		writes = api.Group("", middleware.Auth, rbac.HasRole(rbac.Writers...))
	}
	writes.Post("/products", "products.store", ctx.Wrap(products.Store))
	writes.Patch("/products/{id}", "products.update", ctx.Wrap(products.Update))
	writes.Delete("/products/{id}", "products.destroy", ctx.Wrap(products.Destroy))
	writes.Post("/suppliers", "suppliers.store", ctx.Wrap(suppliers.Store))
}

func health(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				response.Error(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		response.Success(w, map[string]string{"status": "ok"})
	}
}
