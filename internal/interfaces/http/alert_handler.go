package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/alerts"
	"github.com/jhoicas/inventario-stock/internal/application/dto"
)

// LowStockTrigger dispara una revisión de stock bajo fuera de horario.
type LowStockTrigger interface {
	TriggerNow(ctx context.Context) (*alerts.TickReport, error)
}

// AlertHandler expone la revisión manual de stock bajo.
type AlertHandler struct {
	trigger LowStockTrigger
}

// NewAlertHandler construye el handler.
func NewAlertHandler(trigger LowStockTrigger) *AlertHandler {
	return &AlertHandler{trigger: trigger}
}

// RunLowStock godoc
// @Summary      Ejecutar ahora la revisión de stock bajo
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TickReportDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/alerts/low-stock/run [post]
func (h *AlertHandler) RunLowStock(c *fiber.Ctx) error {
	report, err := h.trigger.TriggerNow(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TickReportDTO{
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Scanned:    report.Scanned,
		Notified:   report.Notified,
		Failed:     len(report.Failures),
	})
}
