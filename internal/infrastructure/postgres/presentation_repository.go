package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/distrisur/almacen-api/internal/domain"
	"github.com/distrisur/almacen-api/internal/domain/entity"
	"github.com/distrisur/almacen-api/internal/domain/repository"
)

var _ repository.PresentationRepository = (*PresentationRepo)(nil)

// PresentationRepo implementación del puerto PresentationRepository sobre
// PostgreSQL (usable con pool o tx).
type PresentationRepo struct {
	q Querier
}

// NewPresentationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPresentationRepository(q Querier) *PresentationRepo {
	return &PresentationRepo{q: q}
}

const presentationColumns = `id, stock_item_id, name, conversion_factor, price, currency, is_default, created_at`

func scanPresentation(row pgx.Row) (*entity.Presentation, error) {
	var p entity.Presentation
	err := row.Scan(&p.ID, &p.StockItemID, &p.Name, &p.ConversionFactor,
		&p.Price, &p.Currency, &p.IsDefault, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListByStockItem lista las presentaciones del producto en orden estable.
func (r *PresentationRepo) ListByStockItem(ctx context.Context, stockItemID string) ([]*entity.Presentation, error) {
	query := `SELECT ` + presentationColumns + ` FROM presentations
		WHERE stock_item_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, stockItemID)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Presentation
	for rows.Next() {
		var p entity.Presentation
		if err := rows.Scan(&p.ID, &p.StockItemID, &p.Name, &p.ConversionFactor,
			&p.Price, &p.Currency, &p.IsDefault, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan presentation: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// GetByID obtiene una presentación por ID; nil si no existe.
func (r *PresentationRepo) GetByID(ctx context.Context, id string) (*entity.Presentation, error) {
	query := `SELECT ` + presentationColumns + ` FROM presentations WHERE id = $1`
	p, err := scanPresentation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get presentation: %w", err)
	}
	return p, nil
}

// GetAtomic obtiene la presentación unitaria (factor 1) del producto.
func (r *PresentationRepo) GetAtomic(ctx context.Context, stockItemID string) (*entity.Presentation, error) {
	query := `SELECT ` + presentationColumns + ` FROM presentations
		WHERE stock_item_id = $1 AND conversion_factor = 1`
	p, err := scanPresentation(r.q.QueryRow(ctx, query, stockItemID))
	if err != nil {
		return nil, fmt.Errorf("get atomic presentation: %w", err)
	}
	return p, nil
}

// GetDefault obtiene la presentación marcada como predeterminada; nil si ninguna.
func (r *PresentationRepo) GetDefault(ctx context.Context, stockItemID string) (*entity.Presentation, error) {
	query := `SELECT ` + presentationColumns + ` FROM presentations
		WHERE stock_item_id = $1 AND is_default ORDER BY created_at LIMIT 1`
	p, err := scanPresentation(r.q.QueryRow(ctx, query, stockItemID))
	if err != nil {
		return nil, fmt.Errorf("get default presentation: %w", err)
	}
	return p, nil
}

// Create persiste una presentación. El índice único parcial sobre factor 1
// convierte una carrera por la unidad atómica en ErrDuplicateAtomicPresentation.
func (r *PresentationRepo) Create(ctx context.Context, p *entity.Presentation) error {
	query := `
		INSERT INTO presentations (id, stock_item_id, name, conversion_factor, price, currency, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.StockItemID, p.Name, p.ConversionFactor,
		p.Price, p.Currency, p.IsDefault, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAtomicPresentation
		}
		return fmt.Errorf("insert presentation: %w", err)
	}
	return nil
}
