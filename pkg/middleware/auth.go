package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

type claimsKey struct{}

// Auth requires a valid "Authorization: Bearer <jwt>" header and stores the
// token's claims in the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Unauthorized(w, "Unauthorized")
			return
		}

		claims, err := auth.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			logger.WithCtx(r.Context()).Debug("rejected bearer token", "error", err)
			response.Unauthorized(w, "Invalid token")
			return
		}

		log := logger.WithCtx(r.Context()).With("subject", claims.Subject)
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		ctx = logger.InjectLogger(ctx, log)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFrom returns the claims Auth stored in ctx, nil when the route is
// not authenticated.
func ClaimsFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return c
}
