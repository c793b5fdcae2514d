package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/alerts"
	"github.com/jhoicas/inventario-stock/internal/application/analytics"
	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventario-stock/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-stock/pkg/jwt"
)

type countingNotifier struct {
	mu    sync.Mutex
	names []string
}

func (n *countingNotifier) Notify(_ context.Context, name string, _, _ int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.names = append(n.names, name)
	return nil
}

type apiFixture struct {
	app      *fiber.App
	admin    string
	user     string
	notifier *countingNotifier
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	products, categories := store.Products(), store.Categories()
	n := &countingNotifier{}
	scheduler := alerts.NewScheduler(alerts.DefaultConfig(), products, n, nil, nil, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:    usecase.NewProductUseCase(products, categories),
		CategoryUC:   usecase.NewCategoryUseCase(categories, products),
		SearchUC:     usecase.NewSearchUseCase(products),
		StockUC:      inventory.NewStockUseCase(products),
		AnalyticsUC:  analytics.NewStockAnalyticsUseCase(products, store.Analytics()),
		AlertTrigger: scheduler,
		JWTSecret:    testJWTSecret,
	})
	return &apiFixture{
		app:      app,
		admin:    tokenForRole(t, pkgjwt.RoleAdmin),
		user:     tokenForRole(t, pkgjwt.RoleUser),
		notifier: n,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, auth string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func (f *apiFixture) createCategory(t *testing.T, name string) dto.CategoryResponse {
	t.Helper()
	status, body := f.do(t, http.MethodPost, "/api/categories", f.admin, map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[dto.CategoryResponse](t, body)
}

func (f *apiFixture) createProduct(t *testing.T, productID, name, categoryID string, quantity int, price string) dto.ProductResponse {
	t.Helper()
	status, body := f.do(t, http.MethodPost, "/api/products", f.admin, map[string]any{
		"product_id":  productID,
		"name":        name,
		"category_id": categoryID,
		"quantity":    quantity,
		"price":       json.Number(price),
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[dto.ProductResponse](t, body)
}

func TestHealth(t *testing.T) {
	f := newAPI(t)
	status, _ := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestProducts_CrearYConsultarConCategoria(t *testing.T) {
	f := newAPI(t)
	cat := f.createCategory(t, "Ferretería")
	p := f.createProduct(t, "SKU-1", "Tornillos", cat.ID, 4, "2.5")

	assert.Equal(t, "2.50", p.Price)
	assert.Equal(t, 10, p.LowStockThreshold)
	assert.True(t, p.IsLowStock)

	status, body := f.do(t, http.MethodGet, "/api/products/"+p.ID, f.user, nil)
	require.Equal(t, http.StatusOK, status)
	detail := decode[dto.ProductDetailResponse](t, body)
	require.NotNil(t, detail.Category)
	assert.Equal(t, "Ferretería", detail.Category.Name)

	status, body = f.do(t, http.MethodGet, "/api/products/by-product-id/SKU-1", f.user, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, p.ID, decode[dto.ProductResponse](t, body).ID)
}

func TestProducts_ErroresDeCreacion(t *testing.T) {
	f := newAPI(t)
	cat := f.createCategory(t, "Ferretería")
	f.createProduct(t, "SKU-1", "Tornillos", cat.ID, 4, "2.50")

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"clave duplicada", map[string]any{"product_id": "SKU-1", "name": "Otro", "category_id": cat.ID, "quantity": 1, "price": 1}, http.StatusConflict},
		{"categoría inexistente", map[string]any{"product_id": "SKU-2", "name": "Otro", "category_id": "6f1d1c1e-0000-4000-8000-000000000000", "quantity": 1, "price": 1}, http.StatusNotFound},
		{"cantidad negativa", map[string]any{"product_id": "SKU-3", "name": "Otro", "category_id": cat.ID, "quantity": -1, "price": 1}, http.StatusBadRequest},
		{"precio con tres decimales", map[string]any{"product_id": "SKU-4", "name": "Otro", "category_id": cat.ID, "quantity": 1, "price": json.Number("1.005")}, http.StatusBadRequest},
		{"sin nombre", map[string]any{"product_id": "SKU-5", "category_id": cat.ID, "quantity": 1, "price": 1}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := f.do(t, http.MethodPost, "/api/products", f.admin, tt.body)
			assert.Equal(t, tt.status, status, string(body))
		})
	}
}

func TestProducts_UserNoPuedeCrear(t *testing.T) {
	f := newAPI(t)
	status, _ := f.do(t, http.MethodPost, "/api/products", f.user, map[string]any{"name": "x"})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUpdateStock(t *testing.T) {
	f := newAPI(t)
	cat := f.createCategory(t, "Ferretería")
	p := f.createProduct(t, "SKU-1", "Tornillos", cat.ID, 4, "2.50")

	status, body := f.do(t, http.MethodPut, "/api/products/update-stock", f.admin, map[string]any{"id": p.ID, "quantity": 25})
	require.Equal(t, http.StatusOK, status, string(body))
	updated := decode[dto.ProductResponse](t, body)
	assert.Equal(t, 25, updated.Quantity)
	assert.False(t, updated.IsLowStock)

	status, _ = f.do(t, http.MethodPut, "/api/products/update-stock", f.admin, map[string]any{"id": p.ID, "quantity": -1})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.do(t, http.MethodPut, "/api/products/update-stock", f.admin, map[string]any{"id": "6f1d1c1e-0000-4000-8000-000000000000", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = f.do(t, http.MethodPut, "/api/products/update-stock", f.admin, map[string]any{"id": p.ID})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "quantity")

	// El valor rechazado no modificó nada.
	_, body = f.do(t, http.MethodGet, "/api/products/"+p.ID, f.admin, nil)
	assert.Equal(t, 25, decode[dto.ProductDetailResponse](t, body).Quantity)
}

func TestUpdateProduct_RechazaCamposInmutables(t *testing.T) {
	f := newAPI(t)
	cat := f.createCategory(t, "Ferretería")
	p := f.createProduct(t, "SKU-1", "Tornillos", cat.ID, 4, "2.50")

	status, body := f.do(t, http.MethodPut, "/api/products/"+p.ID, f.admin, map[string]any{"quantity": 99})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "IMMUTABLE_FIELD")

	status, body = f.do(t, http.MethodPut, "/api/products/"+p.ID, f.admin, map[string]any{"name": "Tornillos M4", "price": "3.10"})
	require.Equal(t, http.StatusOK, status, string(body))
	out := decode[dto.ProductResponse](t, body)
	assert.Equal(t, "Tornillos M4", out.Name)
	assert.Equal(t, "3.10", out.Price)
	assert.Equal(t, 4, out.Quantity)
}

func TestSearch(t *testing.T) {
	f := newAPI(t)
	tools := f.createCategory(t, "Herramientas")
	food := f.createCategory(t, "Alimentos")
	f.createProduct(t, "H-1", "Martillo grande", tools.ID, 3, "25.00")
	f.createProduct(t, "H-2", "Martillo chico", tools.ID, 8, "12.00")
	f.createProduct(t, "A-1", "Arroz", food.ID, 50, "1.20")

	list := func(path string) []string {
		status, body := f.do(t, http.MethodGet, path, f.user, nil)
		require.Equal(t, http.StatusOK, status, string(body))
		names := []string{}
		for _, p := range decode[dto.ProductListResponse](t, body).Items {
			names = append(names, p.Name)
		}
		return names
	}

	assert.Equal(t, []string{"Martillo grande", "Martillo chico"}, list("/api/products/search?name=MARTILLO"))
	assert.Equal(t, []string{"Martillo chico"}, list("/api/products/search?category="+tools.ID+"&maxPrice=12"))
	assert.Equal(t, []string{"Martillo grande", "Martillo chico", "Arroz"}, list("/api/products/search"))
	assert.Empty(t, list("/api/products/search?minPrice=30&maxPrice=10"))

	status, _ := f.do(t, http.MethodGet, "/api/products/search?minPrice=abc", f.user, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = f.do(t, http.MethodGet, "/api/products/search?minPrice=-1", f.user, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAnalytics(t *testing.T) {
	f := newAPI(t)
	cat := f.createCategory(t, "Ferretería")
	f.createProduct(t, "SKU-1", "Tornillos", cat.ID, 2, "10.00")
	f.createProduct(t, "SKU-2", "Tuercas", cat.ID, 3, "5.50")
	f.createProduct(t, "SKU-3", "Clavos", cat.ID, 0, "1.00")

	status, body := f.do(t, http.MethodGet, "/api/products/analytics/total-stock-value", f.admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "36.50", decode[dto.TotalStockValueDTO](t, body).TotalValue)

	status, body = f.do(t, http.MethodGet, "/api/products/analytics/out-of-stock", f.admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, decode[dto.ProductListResponse](t, body).Total)

	status, body = f.do(t, http.MethodGet, "/api/products/analytics/category-stock", f.admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]int64{cat.ID: 5}, decode[dto.CategoryStockDistributionDTO](t, body).ByCategory)

	status, body = f.do(t, http.MethodGet, "/api/products/low-stock-alerts", f.admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, decode[dto.ProductListResponse](t, body).Total)

	status, body = f.do(t, http.MethodGet, "/api/products/analytics/summary", f.admin, nil)
	require.Equal(t, http.StatusOK, status)
	summary := decode[dto.StockSummaryDTO](t, body)
	assert.Equal(t, "36.50", summary.TotalStockValue)
	assert.Equal(t, 1, summary.OutOfStockCount)
	assert.Equal(t, 3, summary.LowStockCount)

	status, _ = f.do(t, http.MethodGet, "/api/products/analytics/summary", f.user, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCategories_EliminarDejaProductosSinCategoria(t *testing.T) {
	f := newAPI(t)
	cat := f.createCategory(t, "Temporal")
	p := f.createProduct(t, "SKU-1", "Tornillos", cat.ID, 20, "1.00")

	status, body := f.do(t, http.MethodGet, "/api/categories/"+cat.ID, f.user, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[dto.CategoryWithProductsResponse](t, body).Products, 1)

	status, _ = f.do(t, http.MethodDelete, "/api/categories/"+cat.ID, f.admin, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body = f.do(t, http.MethodGet, "/api/products/"+p.ID, f.admin, nil)
	require.Equal(t, http.StatusOK, status)
	detail := decode[dto.ProductDetailResponse](t, body)
	assert.Nil(t, detail.CategoryID)
	assert.Nil(t, detail.Category)

	status, _ = f.do(t, http.MethodGet, "/api/categories/"+cat.ID, f.admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCategories_Renombrar(t *testing.T) {
	f := newAPI(t)
	cat := f.createCategory(t, "Ferreteria")

	status, body := f.do(t, http.MethodPut, "/api/categories/"+cat.ID, f.admin, map[string]any{"name": "Ferretería"})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, "Ferretería", decode[dto.CategoryResponse](t, body).Name)

	status, _ = f.do(t, http.MethodPut, "/api/categories/"+cat.ID, f.admin, map[string]any{"id": "otro"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAlerts_EjecucionManual(t *testing.T) {
	f := newAPI(t)
	cat := f.createCategory(t, "Ferretería")
	f.createProduct(t, "SKU-1", "Tornillos", cat.ID, 1, "1.00")
	f.createProduct(t, "SKU-2", "Tuercas", cat.ID, 100, "1.00")

	status, body := f.do(t, http.MethodPost, "/api/alerts/low-stock/run", f.admin, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	report := decode[dto.TickReportDTO](t, body)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Notified)
	assert.Equal(t, []string{"Tornillos"}, f.notifier.names)

	status, _ = f.do(t, http.MethodPost, "/api/alerts/low-stock/run", f.user, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestProducts_EliminarYMalformado(t *testing.T) {
	f := newAPI(t)
	cat := f.createCategory(t, "Ferretería")
	p := f.createProduct(t, "SKU-1", "Tornillos", cat.ID, 1, "1.00")

	status, _ := f.do(t, http.MethodDelete, "/api/products/"+p.ID, f.admin, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = f.do(t, http.MethodDelete, "/api/products/"+p.ID, f.admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = f.do(t, http.MethodGet, "/api/products/no-es-uuid", f.admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
