package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/distrisur/almacen-api/internal/application/alerts"
)

// AlertHandler expone la clasificación de criticidad de stock.
type AlertHandler struct {
	uc *alerts.UseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerts.UseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// Snapshot godoc
// @Summary      Clasificación de criticidad de todos los artículos
// @Tags         alerts
// @Produce      json
// @Param        critical  query  bool  false  "Solo SIN_STOCK y CRITICO"
// @Success      200  {array}  dto.StockAlertDTO
// @Router       /api/alerts/stock [get]
func (h *AlertHandler) Snapshot(c *fiber.Ctx) error {
	if c.QueryBool("critical") {
		out, err := h.uc.CriticalOnly(c.Context())
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(out)
	}
	out, err := h.uc.Snapshot(c.Context())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}
