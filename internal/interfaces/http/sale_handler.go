package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/distrisur/almacen-api/internal/application/dto"
	"github.com/distrisur/almacen-api/internal/application/sale"
)

// SaleHandler maneja simulación y confirmación de ventas.
type SaleHandler struct {
	uc       *sale.UseCase
	validate *validator.Validate
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sale.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc, validate: validator.New()}
}

// Simulate godoc
// @Summary      Simular una venta sin mutar stock
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Venta a simular"
// @Success      200   {object}  dto.SaleSimulationResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/simulate [post]
func (h *SaleHandler) Simulate(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	out, err := h.uc.Simulate(c.Context(), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Commit godoc
// @Summary      Confirmar una venta (asiento + cajas abiertas + saldo, atómico)
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Venta a confirmar"
// @Success      201   {object}  dto.SaleCommitResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Commit(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	out, err := h.uc.Commit(c.Context(), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
