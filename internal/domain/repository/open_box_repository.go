package repository

import (
	"context"

	"github.com/distrisur/almacen-api/internal/domain/entity"
)

// OpenBoxRepository define el puerto de persistencia para la caja abierta.
// La clave primaria por producto garantiza a lo sumo una caja viva a la vez.
type OpenBoxRepository interface {
	// Get devuelve la caja abierta del producto; nil si está cerrada.
	Get(ctx context.Context, stockItemID string) (*entity.OpenBox, error)
	Upsert(ctx context.Context, box *entity.OpenBox) error
	// Delete cierra la caja (remanente en cero).
	Delete(ctx context.Context, stockItemID string) error
}
