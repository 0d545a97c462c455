package repository

import (
	"context"
	"time"

	"github.com/distrisur/almacen-api/internal/domain/entity"
)

// MovementFilter son los filtros opcionales de consulta del libro de
// movimientos. Limit en cero significa sin página (exportación completa).
type MovementFilter struct {
	From        *time.Time
	To          *time.Time
	Type        string
	StockItemID string
	SearchText  string // busca en actor, cliente, factura, referencia y código de carga
	Limit       int
	Offset      int
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// Los movimientos son de solo-anexado: no existen Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	// List devuelve los movimientos filtrados, del más reciente al más antiguo.
	// Cada llamada se re-evalúa contra el estado vigente.
	List(ctx context.Context, f MovementFilter) ([]*entity.Movement, error)
	// LatestBalance devuelve el balance_after del último movimiento del producto
	// y false si el producto no registra movimientos.
	LatestBalance(ctx context.Context, stockItemID string) (int64, bool, error)
}
