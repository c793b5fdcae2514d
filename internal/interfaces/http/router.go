package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/analytics"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	"github.com/jhoicas/inventario-stock/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	CategoryUC   *usecase.CategoryUseCase
	SearchUC     *usecase.SearchUseCase
	StockUC      *inventory.StockUseCase
	AnalyticsUC  *analytics.StockAnalyticsUseCase
	AlertTrigger LowStockTrigger // nil = sin ruta de disparo manual
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleUser)

	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Get("/", anyRole, categoryHandler.List)
	categories.Get("/:id", anyRole, categoryHandler.GetByID)
	categories.Put("/:id", adminOnly, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Las rutas fijas van antes de /:id.
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.SearchUC)
	inventoryHandler := NewInventoryHandler(deps.StockUC)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/search", anyRole, productHandler.Search)
	products.Get("/low-stock-alerts", adminOnly, analyticsHandler.LowStockAlerts)
	products.Get("/analytics/total-stock-value", adminOnly, analyticsHandler.TotalStockValue)
	products.Get("/analytics/out-of-stock", adminOnly, analyticsHandler.OutOfStock)
	products.Get("/analytics/category-stock", adminOnly, analyticsHandler.CategoryStock)
	products.Get("/analytics/summary", adminOnly, analyticsHandler.Summary)
	products.Put("/update-stock", adminOnly, inventoryHandler.UpdateStock)
	products.Get("/by-product-id/:productId", anyRole, productHandler.GetByProductID)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	if deps.AlertTrigger != nil {
		alertHandler := NewAlertHandler(deps.AlertTrigger)
		api.Post("/alerts/low-stock/run", adminOnly, alertHandler.RunLowStock)
	}
}
