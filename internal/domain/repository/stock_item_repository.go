package repository

import (
	"context"

	"github.com/distrisur/almacen-api/internal/domain/entity"
)

// StockBalance es la proyección mínima de saldo usada por el monitor de
// stock crítico.
type StockBalance struct {
	StockItemID string
	Name        string
	TotalUnits  int64
}

// StockItemRepository define el puerto de persistencia para productos.
type StockItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE); solo tiene
	// sentido dentro de una transacción. Serializa los commits por producto.
	GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	Create(ctx context.Context, item *entity.StockItem) error
	UpdateBalance(ctx context.Context, id string, totalUnits int64) error
	ListBalances(ctx context.Context) ([]StockBalance, error)
}
