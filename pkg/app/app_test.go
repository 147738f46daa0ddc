package app_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/app"
	"github.com/shashiranjanraj/catalog/pkg/auth"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type product struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
	Category   string  `json:"category"`
	SupplierID string  `json:"supplier_id"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type productPage struct {
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Products []product `json:"products"`
}

// APISuite drives the full HTTP stack over in-memory collections.
type APISuite struct {
	suite.Suite
	handler  http.Handler
	supplier string
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupSuite() {
	config.Set("RATE_LIMIT", "100000")
}

func (s *APISuite) SetupTest() {
	config.Set("AUTH_REQUIRED", "false")
	s.handler = app.NewInMemory().Kernel().Handler()

	var sup struct {
		ID string `json:"id"`
	}
	s.decode(s.do(http.MethodPost, "/api/suppliers", `{"name":"Acme Tools","email":"sales@acme.test"}`, http.StatusCreated), &sup)
	s.Require().Len(sup.ID, 24)
	s.supplier = sup.ID
}

func (s *APISuite) do(method, path, body string, want int, headers ...string) envelope {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Require().Equal(want, rec.Code, "%s %s → %s", method, path, rec.Body.String())

	var env envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func (s *APISuite) decode(env envelope, out any) {
	s.Require().NoError(json.Unmarshal(env.Data, out))
}

func (s *APISuite) createProduct(name string, price float64, category string) product {
	body, _ := json.Marshal(map[string]any{
		"name": name, "price": price, "stock": 3, "category": category, "supplier_id": s.supplier,
	})
	var p product
	s.decode(s.do(http.MethodPost, "/api/products", string(body), http.StatusCreated), &p)
	return p
}

func (s *APISuite) TestCreateAndShow() {
	created := s.createProduct("Hammer", 12.5, "tools")
	s.Len(created.ID, 24)
	s.Equal(s.supplier, created.SupplierID)
	s.NotEmpty(created.CreatedAt)
	s.Empty(created.UpdatedAt)

	var shown product
	s.decode(s.do(http.MethodGet, "/api/products/"+created.ID, "", http.StatusOK), &shown)
	s.Equal(created, shown)
}

func (s *APISuite) TestCreate_Errors() {
	env := s.do(http.MethodPost, "/api/products", `{"name":"Saw","price":5,"supplier_id":"nope"}`, http.StatusBadRequest)
	s.Equal("Invalid supplier ID format", env.Message)

	missing := "65f0c0ffee0000000000aaaa"
	env = s.do(http.MethodPost, "/api/products", `{"name":"Saw","price":5,"supplier_id":"`+missing+`"}`, http.StatusNotFound)
	s.Equal("Supplier with ID "+missing+" not found", env.Message)

	env = s.do(http.MethodPost, "/api/products", `{"price":-1}`, http.StatusUnprocessableEntity)
	s.Contains(env.Errors, "name")
	s.Contains(env.Errors, "price")
	s.Contains(env.Errors, "supplier_id")

	s.do(http.MethodPost, "/api/products", `{"name":`, http.StatusBadRequest)
}

func (s *APISuite) TestSKUConflicts() {
	body := `{"name":"Level","price":20,"sku":"LV-1","supplier_id":"` + s.supplier + `"}`
	s.do(http.MethodPost, "/api/products", body, http.StatusCreated)

	env := s.do(http.MethodPost, "/api/products", body, http.StatusConflict)
	s.Equal("Product with SKU LV-1 already exists", env.Message)

	var other product
	s.decode(s.do(http.MethodPost, "/api/products", `{"name":"Square","price":8,"sku":"SQ-1","supplier_id":"`+s.supplier+`"}`, http.StatusCreated), &other)
	s.do(http.MethodPatch, "/api/products/"+other.ID, `{"sku":"LV-1"}`, http.StatusConflict)

	s.do(http.MethodPatch, "/api/products/"+other.ID, `{"sku":""}`, http.StatusOK)
	third := s.createProduct("Chisel", 6, "tools")
	s.do(http.MethodPatch, "/api/products/"+third.ID, `{"sku":""}`, http.StatusOK)
}

func (s *APISuite) TestShow_Errors() {
	env := s.do(http.MethodGet, "/api/products/not-an-id", "", http.StatusBadRequest)
	s.Equal("Invalid product ID format", env.Message)

	env = s.do(http.MethodGet, "/api/products/65f0c0ffee0000000000aaaa", "", http.StatusNotFound)
	s.Equal("Product not found", env.Message)

	env = s.do(http.MethodGet, "/api/suppliers/65f0c0ffee0000000000aaaa", "", http.StatusNotFound)
	s.Equal("Supplier not found", env.Message)
}

func (s *APISuite) TestIndex_PaginationSortAndFilters() {
	s.createProduct("Drill", 80, "power")
	s.createProduct("Hammer", 12, "tools")
	s.createProduct("Wrench", 9, "tools")
	s.createProduct("Pliers", 15, "tools")

	var page productPage
	s.decode(s.do(http.MethodGet, "/api/products?category=tools&sort_by=price&sort_order=asc&limit=2&page=1", "", http.StatusOK), &page)
	s.Equal(int64(3), page.Total)
	s.Equal(1, page.Page)
	s.Equal(2, page.Limit)
	s.Require().Len(page.Products, 2)
	s.Equal("Wrench", page.Products[0].Name)
	s.Equal("Hammer", page.Products[1].Name)

	s.decode(s.do(http.MethodGet, "/api/products?min_price=10&max_price=20&sort_by=price", "", http.StatusOK), &page)
	s.Equal(int64(2), page.Total)
	s.Equal("Pliers", page.Products[0].Name, "descending unless sort_order=asc")

	s.decode(s.do(http.MethodGet, "/api/products?page=9", "", http.StatusOK), &page)
	s.Equal(int64(4), page.Total)
	s.Empty(page.Products)
}

func (s *APISuite) TestIndex_BadQuery() {
	s.do(http.MethodGet, "/api/products?page=abc", "", http.StatusBadRequest)
	s.do(http.MethodGet, "/api/products?min_price=cheap", "", http.StatusBadRequest)
	env := s.do(http.MethodGet, "/api/products?limit=1000", "", http.StatusUnprocessableEntity)
	s.Contains(env.Errors, "limit")
	env = s.do(http.MethodGet, "/api/products?min_stock=5&max_stock=1", "", http.StatusBadRequest)
	s.Contains(env.Message, "min greater than max")
}

func (s *APISuite) TestUpdate() {
	p := s.createProduct("Hammer", 12, "tools")

	var updated product
	s.decode(s.do(http.MethodPatch, "/api/products/"+p.ID, `{"price":14.5}`, http.StatusOK), &updated)
	s.Equal(14.5, updated.Price)
	s.Equal("Hammer", updated.Name)
	s.Equal("tools", updated.Category)
	s.NotEmpty(updated.UpdatedAt)

	env := s.do(http.MethodPatch, "/api/products/"+p.ID, `{"supplier_id":"65f0c0ffee0000000000aaaa"}`, http.StatusNotFound)
	s.Equal("Supplier not found", env.Message)

	env = s.do(http.MethodPatch, "/api/products/"+p.ID, `{"supplier_id":"bad"}`, http.StatusBadRequest)
	s.Equal("Invalid supplier ID format", env.Message)

	s.do(http.MethodPatch, "/api/products/65f0c0ffee0000000000aaaa", `{"price":1}`, http.StatusNotFound)
	s.do(http.MethodPatch, "/api/products/"+p.ID, `{"price":-3}`, http.StatusUnprocessableEntity)
}

func (s *APISuite) TestDestroy() {
	p := s.createProduct("Hammer", 12, "tools")

	env := s.do(http.MethodDelete, "/api/products/"+p.ID, "", http.StatusOK)
	s.Equal("Product deleted successfully", env.Message)

	s.do(http.MethodDelete, "/api/products/"+p.ID, "", http.StatusNotFound)
	s.do(http.MethodGet, "/api/products/"+p.ID, "", http.StatusNotFound)
}

func (s *APISuite) TestAuthRequiredForWrites() {
	config.Set("AUTH_REQUIRED", "true")
	s.handler = app.NewInMemory().Kernel().Handler()

	s.do(http.MethodPost, "/api/suppliers", `{"name":"Globex"}`, http.StatusUnauthorized)

	token, err := auth.GenerateToken("importer", "admin", time.Hour)
	s.Require().NoError(err)
	s.do(http.MethodPost, "/api/suppliers", `{"name":"Globex"}`, http.StatusCreated, "Authorization", "Bearer "+token)

	viewer, err := auth.GenerateToken("reporting", "viewer", time.Hour)
	s.Require().NoError(err)
	env := s.do(http.MethodPost, "/api/suppliers", `{"name":"Initech"}`, http.StatusForbidden, "Authorization", "Bearer "+viewer)
	s.Equal("Forbidden", env.Message)

	s.do(http.MethodGet, "/api/products", "", http.StatusOK)
}

func (s *APISuite) TestHealthAndUnknownRoute() {
	s.do(http.MethodGet, "/healthz", "", http.StatusOK)
	s.do(http.MethodGet, "/nope", "", http.StatusNotFound)
	s.do(http.MethodPut, "/api/products", "", http.StatusMethodNotAllowed)
}

func TestRoutes(t *testing.T) {
	names := map[string]bool{}
	for _, r := range app.NewInMemory().Kernel().Routes() {
		names[r.Name] = true
	}
	for _, want := range []string{
		"health", "metrics",
		"products.index", "products.show", "products.store", "products.update", "products.destroy",
		"suppliers.show", "suppliers.store",
	} {
		if !names[want] {
			t.Errorf("route %q not registered", want)
		}
	}
}
