package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/distrisur/almacen-api/internal/domain/entity"
	"github.com/distrisur/almacen-api/internal/domain/repository"
)

var _ repository.OpenBoxRepository = (*OpenBoxRepo)(nil)

// OpenBoxRepo implementación del puerto OpenBoxRepository sobre PostgreSQL
// (usable con pool o tx). La PK por producto asegura a lo sumo una caja viva.
type OpenBoxRepo struct {
	q Querier
}

// NewOpenBoxRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOpenBoxRepository(q Querier) *OpenBoxRepo {
	return &OpenBoxRepo{q: q}
}

// Get obtiene la caja abierta del producto; nil si está cerrada.
func (r *OpenBoxRepo) Get(ctx context.Context, stockItemID string) (*entity.OpenBox, error) {
	query := `
		SELECT stock_item_id, presentation_id, units_original, units_remaining, opened_at
		FROM open_boxes WHERE stock_item_id = $1`
	var b entity.OpenBox
	err := r.q.QueryRow(ctx, query, stockItemID).Scan(
		&b.StockItemID, &b.PresentationID, &b.UnitsOriginal, &b.UnitsRemaining, &b.OpenedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open box: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza la caja abierta del producto.
func (r *OpenBoxRepo) Upsert(ctx context.Context, box *entity.OpenBox) error {
	query := `
		INSERT INTO open_boxes (stock_item_id, presentation_id, units_original, units_remaining, opened_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (stock_item_id)
		DO UPDATE SET presentation_id = EXCLUDED.presentation_id,
			units_original = EXCLUDED.units_original,
			units_remaining = EXCLUDED.units_remaining,
			opened_at = EXCLUDED.opened_at`
	_, err := r.q.Exec(ctx, query,
		box.StockItemID, box.PresentationID, box.UnitsOriginal, box.UnitsRemaining, box.OpenedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert open box: %w", err)
	}
	return nil
}

// Delete cierra la caja del producto (remanente en cero).
func (r *OpenBoxRepo) Delete(ctx context.Context, stockItemID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM open_boxes WHERE stock_item_id = $1`, stockItemID)
	if err != nil {
		return fmt.Errorf("delete open box: %w", err)
	}
	return nil
}
