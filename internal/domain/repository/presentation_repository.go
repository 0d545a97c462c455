package repository

import (
	"context"

	"github.com/distrisur/almacen-api/internal/domain/entity"
)

// PresentationRepository define el puerto de persistencia para presentaciones.
type PresentationRepository interface {
	// ListByStockItem devuelve las presentaciones del producto en orden estable
	// (fecha de creación, luego id).
	ListByStockItem(ctx context.Context, stockItemID string) ([]*entity.Presentation, error)
	GetByID(ctx context.Context, id string) (*entity.Presentation, error)
	// GetAtomic devuelve la presentación con factor 1; nil si aún no existe.
	GetAtomic(ctx context.Context, stockItemID string) (*entity.Presentation, error)
	// GetDefault devuelve la presentación marcada como predeterminada; nil si ninguna.
	GetDefault(ctx context.Context, stockItemID string) (*entity.Presentation, error)
	Create(ctx context.Context, p *entity.Presentation) error
}
