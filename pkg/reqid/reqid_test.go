package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/pkg/reqid"
)

func serve(header string) (seen string, rec *httptest.ResponseRecorder) {
	h := reqid.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(reqid.Header, header)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec
}

func TestMiddleware_GeneratesUUID(t *testing.T) {
	seen, rec := serve("")

	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(reqid.Header))
}

func TestMiddleware_HonoursUpstream(t *testing.T) {
	seen, rec := serve("gateway-123")

	assert.Equal(t, "gateway-123", seen)
	assert.Equal(t, "gateway-123", rec.Header().Get(reqid.Header))
}

func TestMiddleware_ReplacesOversizedUpstream(t *testing.T) {
	seen, _ := serve(strings.Repeat("x", 500))

	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}
