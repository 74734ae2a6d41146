package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abgdnv/storefront/internal/cart"
	"github.com/abgdnv/storefront/internal/catalog/service"
	"github.com/abgdnv/storefront/internal/catalog/store"
	checkoutservice "github.com/abgdnv/storefront/internal/checkout/service"
	"github.com/abgdnv/storefront/internal/theme"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `[
	{"id": 1, "name": "Headphones", "price": 10.00, "description": "Wireless", "category": "Electronics"},
	{"id": 2, "name": "Socks", "price": 5.50, "description": "Warm", "category": "Fashion"},
	{"id": 3, "name": "Lamp", "price": 10, "description": "Desk lamp", "category": "Home"}
]`

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// failingCatalog simulates a catalog backend error
type failingCatalog struct {
	service.CatalogService
}

func (failingCatalog) FindByID(_ context.Context, _ int) (*store.Product, error) {
	return nil, errors.New("catalog unavailable")
}

type fixture struct {
	router *chi.Mux
	cart   *cart.Store
	theme  *theme.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products, err := store.NewJSONStore(strings.NewReader(testCatalog))
	require.NoError(t, err)
	c := cart.NewStore()
	th := theme.NewStore(false)
	h := NewHandler(service.NewService(products), c, checkoutservice.NewService(c, nil, discard), th, 2, discard)
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return &fixture{router: router, cart: c, theme: th}
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func Test_Handler_Products(t *testing.T) {
	testCases := []struct {
		name         string
		target       string
		expectedCode int
		expectedIDs  []int
	}{
		{name: "all products", target: "/api/v1/products", expectedCode: http.StatusOK, expectedIDs: []int{1, 2, 3}},
		{name: "by category", target: "/api/v1/products?category=Fashion", expectedCode: http.StatusOK, expectedIDs: []int{2}},
		{name: "All category", target: "/api/v1/products?category=All", expectedCode: http.StatusOK, expectedIDs: []int{1, 2, 3}},
		{name: "by query", target: "/api/v1/products?q=LAMP", expectedCode: http.StatusOK, expectedIDs: []int{3}},
		{name: "no match", target: "/api/v1/products?q=guitar", expectedCode: http.StatusOK, expectedIDs: []int{}},
		{name: "featured default", target: "/api/v1/products/featured", expectedCode: http.StatusOK, expectedIDs: []int{1, 2}},
		{name: "featured with limit", target: "/api/v1/products/featured?limit=1", expectedCode: http.StatusOK, expectedIDs: []int{1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			f := newFixture(t)
			// when
			rr := f.do(http.MethodGet, tc.target, "")
			// then
			require.Equal(t, tc.expectedCode, rr.Code)
			products := decode[[]store.Product](t, rr)
			ids := make([]int, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.expectedIDs, ids)
		})
	}
}

func Test_Handler_FeaturedInvalidLimit(t *testing.T) {
	// given
	f := newFixture(t)
	// when
	rr := f.do(http.MethodGet, "/api/v1/products/featured?limit=0", "")
	// then
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid limit number: 0"}`, rr.Body.String())
}

func Test_Handler_FindProduct(t *testing.T) {
	testCases := []struct {
		name         string
		id           string
		expectedCode int
		expectedBody string
	}{
		{name: "found", id: "2", expectedCode: http.StatusOK, expectedBody: `{"id":2,"name":"Socks","description":"Warm","category":"Fashion","price":"5.5","image":""}`},
		{name: "unknown id", id: "99", expectedCode: http.StatusNotFound, expectedBody: `{"error":"Product with ID 99 not found"}`},
		{name: "not a number", id: "abc", expectedCode: http.StatusBadRequest, expectedBody: `{"error":"Invalid ID: abc"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			f := newFixture(t)
			// when
			rr := f.do(http.MethodGet, "/api/v1/products/"+tc.id, "")
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func Test_Handler_Categories(t *testing.T) {
	// given
	f := newFixture(t)
	// when
	rr := f.do(http.MethodGet, "/api/v1/categories", "")
	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `["Electronics","Fashion","Home"]`, rr.Body.String())
}

func Test_Handler_AddItem(t *testing.T) {
	testCases := []struct {
		name          string
		body          string
		expectedCode  int
		expectedCount int
		expectedBody  string
	}{
		{name: "default quantity", body: `{"product_id":1}`, expectedCode: http.StatusOK, expectedCount: 1},
		{name: "explicit quantity", body: `{"product_id":1,"quantity":3}`, expectedCode: http.StatusOK, expectedCount: 3},
		{name: "unknown product", body: `{"product_id":99}`, expectedCode: http.StatusNotFound, expectedBody: `{"error":"Product with ID 99 not found"}`},
		{name: "zero quantity", body: `{"product_id":1,"quantity":0}`, expectedCode: http.StatusBadRequest, expectedBody: `{"validation_errors":{"Quantity":"failed on rule: gte"}}`},
		{name: "missing product", body: `{"quantity":2}`, expectedCode: http.StatusBadRequest, expectedBody: `{"validation_errors":{"ProductID":"failed on rule: required"}}`},
		{name: "malformed body", body: `{"product_id":`, expectedCode: http.StatusBadRequest, expectedBody: `{"error":"Invalid request body"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			f := newFixture(t)
			// when
			rr := f.do(http.MethodPost, "/api/v1/cart/items", tc.body)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.Equal(t, tc.expectedCount, f.cart.ItemsCount())
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}

func Test_Handler_AddItem_CatalogError(t *testing.T) {
	// given
	c := cart.NewStore()
	h := NewHandler(failingCatalog{}, c, checkoutservice.NewService(c, nil, discard), theme.NewStore(false), 6, discard)
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":1}`))
	rr := httptest.NewRecorder()
	// when
	router.ServeHTTP(rr, req)
	// then
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Zero(t, c.ItemsCount())
}

func Test_Handler_CartScenario(t *testing.T) {
	// given
	f := newFixture(t)

	// when
	f.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":1,"quantity":2}`)
	f.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":2}`)
	rr := f.do(http.MethodGet, "/api/v1/cart", "")
	// then
	require.Equal(t, http.StatusOK, rr.Code)
	view := decode[CartView](t, rr)
	assert.Equal(t, 3, view.ItemsCount)
	assert.Equal(t, "$25.50", view.FormattedTotal)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "$20.00", view.Items[0].FormattedSubtotal)

	// when
	rr = f.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":3,"quantity":3}`)
	// then
	assert.Equal(t, "$55.50", decode[CartView](t, rr).FormattedTotal)

	// when
	rr = f.do(http.MethodDelete, "/api/v1/cart/items/2", "")
	// then
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 5, f.cart.ItemsCount())
	assert.Equal(t, "$50.00", cart.FormatPrice(f.cart.Total()))

	// when
	rr = f.do(http.MethodDelete, "/api/v1/cart/items/2", "")
	// then
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 5, f.cart.ItemsCount())

	// when
	rr = f.do(http.MethodDelete, "/api/v1/cart", "")
	// then
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, f.cart.ItemsCount())
	assert.True(t, f.cart.Total().IsZero())
}

func Test_Handler_UpdateItem(t *testing.T) {
	testCases := []struct {
		name         string
		target       string
		body         string
		expectedCode int
		expectedQty  int
	}{
		{name: "sets quantity", target: "/api/v1/cart/items/1", body: `{"quantity":7}`, expectedCode: http.StatusOK, expectedQty: 7},
		{name: "zero leaves item unchanged", target: "/api/v1/cart/items/1", body: `{"quantity":0}`, expectedCode: http.StatusOK, expectedQty: 2},
		{name: "negative leaves item unchanged", target: "/api/v1/cart/items/1", body: `{"quantity":-3}`, expectedCode: http.StatusOK, expectedQty: 2},
		{name: "absent product is ignored", target: "/api/v1/cart/items/3", body: `{"quantity":4}`, expectedCode: http.StatusOK, expectedQty: 2},
		{name: "missing quantity", target: "/api/v1/cart/items/1", body: `{}`, expectedCode: http.StatusBadRequest, expectedQty: 2},
		{name: "invalid id", target: "/api/v1/cart/items/x", body: `{"quantity":4}`, expectedCode: http.StatusBadRequest, expectedQty: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			f := newFixture(t)
			f.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":1,"quantity":2}`)
			// when
			rr := f.do(http.MethodPut, tc.target, tc.body)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			item, found := f.cart.Snapshot().Find(1)
			require.True(t, found)
			assert.Equal(t, tc.expectedQty, item.Quantity)
			_, found = f.cart.Snapshot().Find(3)
			assert.False(t, found)
		})
	}
}

func Test_Handler_Checkout(t *testing.T) {
	// given
	f := newFixture(t)

	// when
	rr := f.do(http.MethodPost, "/api/v1/checkout", "")
	// then
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"error":"Cart is empty"}`, rr.Body.String())

	// given
	f.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":2,"quantity":2}`)
	// when
	rr = f.do(http.MethodGet, "/api/v1/checkout", "")
	// then
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decode[checkoutservice.SummaryDto](t, rr)
	assert.Equal(t, "$11.00", summary.FormattedTotal)
	assert.Equal(t, 2, summary.ItemsCount)

	// when
	rr = f.do(http.MethodPost, "/api/v1/checkout", "")
	// then
	require.Equal(t, http.StatusCreated, rr.Code)
	order := decode[checkoutservice.OrderDto](t, rr)
	assert.Equal(t, "$11.00", order.FormattedTotal)
	assert.True(t, f.cart.Snapshot().IsEmpty())
}

func Test_Handler_Theme(t *testing.T) {
	// given
	f := newFixture(t)
	// when
	before := f.do(http.MethodGet, "/api/v1/theme", "")
	toggled := f.do(http.MethodPost, "/api/v1/theme/toggle", "")
	// then
	assert.JSONEq(t, `{"dark_mode":false}`, before.Body.String())
	assert.Equal(t, http.StatusOK, toggled.Code)
	assert.JSONEq(t, `{"dark_mode":true}`, toggled.Body.String())
	assert.True(t, f.theme.DarkMode())
}

func Test_Handler_HealthCheck(t *testing.T) {
	// given
	f := newFixture(t)
	// when
	rr := f.do(http.MethodGet, "/healthz", "")
	// then
	assert.Equal(t, http.StatusOK, rr.Code)
}
