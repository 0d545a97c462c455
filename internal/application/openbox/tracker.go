// Package openbox implementa la máquina de estados de la caja abierta por
// producto: Cerrada → Abierta → Exhausta (auto-cierre al llegar a cero).
package openbox

import (
	"context"
	"time"

	"github.com/distrisur/almacen-api/internal/domain"
	"github.com/distrisur/almacen-api/internal/domain/entity"
	"github.com/distrisur/almacen-api/internal/domain/repository"
)

// Tracker opera sobre el repositorio de cajas abiertas que recibe en cada
// llamada: las mutaciones corren con los repos atados a la transacción del
// commit de venta, nunca en una transacción aparte.
type Tracker struct{}

// NewTracker construye el tracker.
func NewTracker() *Tracker { return &Tracker{} }

// Open abre una caja nueva a partir de una presentación: remanente = original
// = factor de conversión. Falla con ErrAlreadyOpen si hay una caja viva.
func (t *Tracker) Open(ctx context.Context, boxRepo repository.OpenBoxRepository, pres *entity.Presentation) (*entity.OpenBox, error) {
	existing, err := boxRepo.Get(ctx, pres.StockItemID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.UnitsRemaining > 0 {
		return nil, domain.ErrAlreadyOpen
	}
	box := &entity.OpenBox{
		StockItemID:    pres.StockItemID,
		PresentationID: pres.ID,
		UnitsOriginal:  pres.ConversionFactor,
		UnitsRemaining: pres.ConversionFactor,
		OpenedAt:       time.Now(),
	}
	if err := boxRepo.Upsert(ctx, box); err != nil {
		return nil, err
	}
	return box, nil
}

// Consume descuenta n unidades de la caja abierta del producto. Si el
// remanente llega a cero la caja se cierra (se elimina la fila). Devuelve el
// remanente resultante.
func (t *Tracker) Consume(ctx context.Context, boxRepo repository.OpenBoxRepository, stockItemID string, n int64) (int64, error) {
	box, err := boxRepo.Get(ctx, stockItemID)
	if err != nil {
		return 0, err
	}
	if box == nil {
		return 0, domain.ErrOverdraw
	}
	if err := box.Consume(n); err != nil {
		return box.UnitsRemaining, err
	}
	if box.Exhausted() {
		if err := boxRepo.Delete(ctx, stockItemID); err != nil {
			return 0, err
		}
		return 0, nil
	}
	if err := boxRepo.Upsert(ctx, box); err != nil {
		return 0, err
	}
	return box.UnitsRemaining, nil
}

// CurrentRemainder devuelve el remanente de la caja abierta; 0 si está cerrada.
func (t *Tracker) CurrentRemainder(ctx context.Context, boxRepo repository.OpenBoxRepository, stockItemID string) (int64, error) {
	box, err := boxRepo.Get(ctx, stockItemID)
	if err != nil {
		return 0, err
	}
	if box == nil {
		return 0, nil
	}
	return box.UnitsRemaining, nil
}
