package sale

import (
	"context"

	"github.com/distrisur/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. El commit de venta, las mutaciones de la caja
// abierta y el anexo al libro comparten esa única transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.StockItemRepository,
		presRepo repository.PresentationRepository,
		boxRepo repository.OpenBoxRepository,
		movRepo repository.MovementRepository,
	) error) error
}
