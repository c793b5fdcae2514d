package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/analytics"
)

// AnalyticsHandler expone los agregados de stock (solo admin).
type AnalyticsHandler struct {
	uc *analytics.StockAnalyticsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.StockAnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// TotalStockValue godoc
// @Summary      Valor total del inventario
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TotalStockValueDTO
// @Router       /api/products/analytics/total-stock-value [get]
func (h *AnalyticsHandler) TotalStockValue(c *fiber.Ctx) error {
	out, err := h.uc.TotalStockValue(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// OutOfStock godoc
// @Summary      Productos agotados
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products/analytics/out-of-stock [get]
func (h *AnalyticsHandler) OutOfStock(c *fiber.Ctx) error {
	out, err := h.uc.OutOfStockItems(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CategoryStock godoc
// @Summary      Distribución de stock por categoría
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CategoryStockDistributionDTO
// @Router       /api/products/analytics/category-stock [get]
func (h *AnalyticsHandler) CategoryStock(c *fiber.Ctx) error {
	out, err := h.uc.CategoryStockDistribution(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStockAlerts godoc
// @Summary      Productos con stock bajo (cantidad <= umbral)
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products/low-stock-alerts [get]
func (h *AnalyticsHandler) LowStockAlerts(c *fiber.Ctx) error {
	out, err := h.uc.LowStockAlerts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de inventario
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockSummaryDTO
// @Router       /api/products/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
