package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
)

var noContent = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func get(h http.Handler, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_Rejects(t *testing.T) {
	before := testutil.ToFloat64(metrics.RateLimited.WithLabelValues("memory"))
	h := middleware.RateLimit(middleware.NewMemoryLimiter(1, time.Minute))(noContent)
	fromClient := func(r *http.Request) { r.Header.Set("X-Forwarded-For", "9.9.9.9") }

	assert.Equal(t, http.StatusNoContent, get(h, fromClient).Code)

	rec := get(h, fromClient)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimited.WithLabelValues("memory")))
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return false, 0, errors.New("connection refused")
}

func (brokenLimiter) Backend() string { return "broken" }

func TestRateLimit_FailsOpen(t *testing.T) {
	h := middleware.RateLimit(brokenLimiter{})(noContent)
	assert.Equal(t, http.StatusNoContent, get(h, nil).Code)
}

func TestAuth(t *testing.T) {
	valid, err := auth.GenerateToken("importer", "admin", time.Hour)
	require.NoError(t, err)

	var subject string
	h := middleware.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = middleware.ClaimsFrom(r.Context()).Subject
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(h, func(r *http.Request) {
				if tc.header != "" {
					r.Header.Set("Authorization", tc.header)
				}
			})
			assert.Equal(t, tc.status, rec.Code)
		})
	}
	assert.Equal(t, "importer", subject)
}

func TestClaimsFrom_Unauthenticated(t *testing.T) {
	assert.Nil(t, middleware.ClaimsFrom(context.Background()))
}

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := get(h, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
}

func TestCORS(t *testing.T) {
	h := middleware.CORS(middleware.DefaultCORSOptions("https://admin.example.com"))(noContent)

	rec := get(h, func(r *http.Request) { r.Header.Set("Origin", "https://admin.example.com") })
	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(h, func(r *http.Request) { r.Header.Set("Origin", "https://evil.example.com") })
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}
