package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/distrisur/almacen-api/internal/application/catalog"
	"github.com/distrisur/almacen-api/internal/application/dto"
	"github.com/distrisur/almacen-api/internal/application/ledger"
)

// CatalogHandler maneja presentaciones y saldos por artículo.
type CatalogHandler struct {
	catalogUC *catalog.UseCase
	ledgerUC  *ledger.UseCase
	validate  *validator.Validate
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(catalogUC *catalog.UseCase, ledgerUC *ledger.UseCase) *CatalogHandler {
	return &CatalogHandler{catalogUC: catalogUC, ledgerUC: ledgerUC, validate: validator.New()}
}

// ListPresentations godoc
// @Summary      Listar presentaciones de un artículo
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {array}   dto.PresentationDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-items/{id}/presentations [get]
func (h *CatalogHandler) ListPresentations(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return respond(c, fiber.StatusBadRequest, "MISSING_ID", "id es requerido")
	}
	out, err := h.catalogUC.List(c.Context(), id)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// AddPresentation godoc
// @Summary      Agregar una presentación a un artículo
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del artículo"
// @Param        body  body  dto.AddPresentationRequest  true  "Presentación"
// @Success      201   {object}  dto.PresentationDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-items/{id}/presentations [post]
func (h *CatalogHandler) AddPresentation(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return respond(c, fiber.StatusBadRequest, "MISSING_ID", "id es requerido")
	}
	var in dto.AddPresentationRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	out, err := h.catalogUC.Add(c.Context(), id, in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Balance godoc
// @Summary      Saldo de un artículo (total, libro y caja abierta)
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.BalanceDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-items/{id}/balance [get]
func (h *CatalogHandler) Balance(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return respond(c, fiber.StatusBadRequest, "MISSING_ID", "id es requerido")
	}
	out, err := h.ledgerUC.CurrentBalance(c.Context(), id)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}
