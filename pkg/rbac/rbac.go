// Package rbac restricts routes to tokens carrying one of a set of roles.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

// Roles understood by the catalog API.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Writers may create, update and delete catalog entries.
var Writers = []string{RoleAdmin, RoleEditor}

// HasRole allows the request only when the claims stored by middleware.Auth
// carry one of roles. It must run after Auth.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := middleware.ClaimsFrom(r.Context())
			if claims == nil || !allowed[claims.Role] {
				role := ""
				if claims != nil {
					role = claims.Role
				}
				logger.WithCtx(r.Context()).Info("forbidden", "role", role, "path", r.URL.Path)
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
