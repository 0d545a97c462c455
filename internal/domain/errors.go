package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Catálogo de presentaciones.
	ErrInvalidPresentation         = errors.New("presentación inválida para el producto")
	ErrInvalidConversionFactor     = errors.New("el factor de conversión debe ser un entero positivo")
	ErrDuplicateAtomicPresentation = errors.New("ya existe una presentación unitaria para el producto")

	// Caja abierta. Estas violaciones dentro de un commit indican un error de
	// serialización aguas arriba; se registran y abortan, nunca se absorben.
	ErrAlreadyOpen = errors.New("ya existe una caja abierta para el producto")
	ErrOverdraw    = errors.New("consumo mayor al remanente de la caja abierta")

	// ErrConcurrentModification: el saldo cambió desde la simulación que usó el
	// caller. Recuperable: re-simular y reintentar.
	ErrConcurrentModification = errors.New("el stock fue modificado por otra operación")

	// ErrLedgerIntegrity: la aritmética de saldos del movimiento no cuadra.
	// Fatal para la transacción; nada se persiste parcialmente.
	ErrLedgerIntegrity = errors.New("violación de integridad del libro de movimientos")
)
