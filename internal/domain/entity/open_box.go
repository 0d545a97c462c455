package entity

import (
	"time"

	"github.com/distrisur/almacen-api/internal/domain"
)

// OpenBox es el estado de la única caja parcialmente consumida de un producto.
// Invariante: 0 <= UnitsRemaining <= UnitsOriginal; a lo sumo una caja con
// remanente > 0 por producto. Al llegar el remanente a cero la caja se cierra
// (la fila se elimina).
type OpenBox struct {
	StockItemID    string
	PresentationID string
	UnitsOriginal  int64
	UnitsRemaining int64
	OpenedAt       time.Time
}

// Consume descuenta n unidades del remanente. Devuelve ErrOverdraw si n excede
// el remanente; un overdraw dentro de un commit es señal de serialización rota.
func (b *OpenBox) Consume(n int64) error {
	if n < 0 {
		return domain.ErrInvalidInput
	}
	if n > b.UnitsRemaining {
		return domain.ErrOverdraw
	}
	b.UnitsRemaining -= n
	return nil
}

// Exhausted indica que la caja quedó vacía y debe cerrarse.
func (b *OpenBox) Exhausted() bool {
	return b.UnitsRemaining == 0
}
