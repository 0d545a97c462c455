package ledger

import (
	"context"

	"github.com/distrisur/almacen-api/internal/domain/entity"
	"github.com/distrisur/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita el anexo al libro. Entradas, asignaciones y
// ajustes comparten el mismo contrato de atomicidad que el commit de venta.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		itemRepo repository.StockItemRepository,
		presRepo repository.PresentationRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// MovementPDFGenerator genera el reporte PDF del historial de movimientos.
type MovementPDFGenerator interface {
	Generate(ctx context.Context, movements []*entity.Movement) ([]byte, error)
}
