package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/distrisur/almacen-api/internal/application/dto"
	"github.com/distrisur/almacen-api/internal/domain"
)

// mapDomainError traduce los errores de dominio a respuestas HTTP.
// CONCURRENT_MODIFICATION es recuperable: el cliente re-simula y reintenta.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado")
	case errors.Is(err, domain.ErrInvalidInput):
		return respond(c, fiber.StatusBadRequest, "VALIDATION", "datos inválidos")
	case errors.Is(err, domain.ErrInvalidConversionFactor):
		return respond(c, fiber.StatusBadRequest, "INVALID_CONVERSION_FACTOR", err.Error())
	case errors.Is(err, domain.ErrInvalidPresentation):
		return respond(c, fiber.StatusBadRequest, "INVALID_PRESENTATION", err.Error())
	case errors.Is(err, domain.ErrDuplicateAtomicPresentation):
		return respond(c, fiber.StatusConflict, "DUPLICATE_ATOMIC_PRESENTATION", err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return respond(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, domain.ErrConcurrentModification):
		return respond(c, fiber.StatusConflict, "CONCURRENT_MODIFICATION", err.Error())
	default:
		// ErrLedgerIntegrity, ErrAlreadyOpen y ErrOverdraw incluidos: alarmas
		// internas, nunca errores de validación del usuario.
		return respond(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

func respond(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}
