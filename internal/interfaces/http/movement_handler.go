package http

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/distrisur/almacen-api/internal/application/dto"
	"github.com/distrisur/almacen-api/internal/application/ledger"
)

// MovementHandler maneja el libro de movimientos: registro, consulta y exportación.
type MovementHandler struct {
	uc       *ledger.UseCase
	validate *validator.Validate
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *ledger.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc, validate: validator.New()}
}

// Entrada godoc
// @Summary      Registrar una entrada de mercancía
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EntradaRequest  true  "Entrada"
// @Success      201   {object}  dto.MovementAppendResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements/entrada [post]
func (h *MovementHandler) Entrada(c *fiber.Ctx) error {
	var in dto.EntradaRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	out, err := h.uc.RegisterEntrada(c.Context(), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Asignacion godoc
// @Summary      Registrar una asignación a equipo/destino
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AsignacionRequest  true  "Asignación"
// @Success      201   {object}  dto.MovementAppendResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/asignacion [post]
func (h *MovementHandler) Asignacion(c *fiber.Ctx) error {
	var in dto.AsignacionRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	out, err := h.uc.RegisterAsignacion(c.Context(), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Ajuste godoc
// @Summary      Registrar un ajuste manual (positivo o negativo)
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AjusteRequest  true  "Ajuste"
// @Success      201   {object}  dto.MovementAppendResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/ajuste [post]
func (h *MovementHandler) Ajuste(c *fiber.Ctx) error {
	var in dto.AjusteRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	out, err := h.uc.RegisterAjuste(c.Context(), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Query godoc
// @Summary      Consultar movimientos con filtros y paginación
// @Tags         movements
// @Produce      json
// @Param        from           query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        to             query  string  false  "Fecha final (YYYY-MM-DD)"
// @Param        type           query  string  false  "Tipo de movimiento"
// @Param        stock_item_id  query  string  false  "ID del artículo"
// @Param        search         query  string  false  "Texto libre (actor, destino, factura, referencia, carga)"
// @Param        limit          query  int     false  "Tamaño de página"
// @Param        offset         query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) Query(c *fiber.Ctx) error {
	var in dto.MovementQueryRequest
	if err := c.QueryParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", "parámetros de consulta inválidos")
	}
	if err := h.validate.Struct(in); err != nil {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	out, err := h.uc.Query(c.Context(), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar movimientos filtrados en CSV o PDF
// @Tags         movements
// @Produce      text/csv
// @Param        format  query  string  false  "csv o pdf (default csv)"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/export [get]
func (h *MovementHandler) Export(c *fiber.Ctx) error {
	var in dto.MovementQueryRequest
	if err := c.QueryParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", "parámetros de consulta inválidos")
	}
	if err := h.validate.Struct(in); err != nil {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	format := c.Query("format", ledger.ExportFormatCSV)
	if format != ledger.ExportFormatCSV && format != ledger.ExportFormatPDF {
		return respond(c, fiber.StatusBadRequest, "VALIDATION", "format debe ser csv o pdf")
	}
	data, contentType, err := h.uc.Export(c.Context(), in, format)
	if err != nil {
		return mapDomainError(c, err)
	}
	name := fmt.Sprintf("movimientos_%s.%s", time.Now().Format("20060102"), format)
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, name))
	return c.Send(data)
}
