package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/distrisur/almacen-api/internal/domain/entity"
	"github.com/distrisur/almacen-api/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación del puerto StockItemRepository sobre PostgreSQL
// (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

const stockItemColumns = `id, name, brand, model, total_units, base_price, currency, created_at, updated_at`

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var it entity.StockItem
	err := row.Scan(&it.ID, &it.Name, &it.Brand, &it.Model, &it.TotalUnits,
		&it.BasePrice, &it.Currency, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1`
	it, err := scanStockItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return it, nil
}

// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE).
// Todo commit contra el mismo producto queda serializado detrás de este lock.
func (r *StockItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1 FOR UPDATE`
	it, err := scanStockItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get stock item for update: %w", err)
	}
	return it, nil
}

// Create persiste un producto nuevo.
func (r *StockItemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, name, brand, model, total_units, base_price, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Brand, item.Model, item.TotalUnits,
		item.BasePrice, item.Currency, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

// UpdateBalance fija el saldo materializado del producto. Solo se invoca
// dentro de la transacción que anexa el movimiento correspondiente.
func (r *StockItemRepo) UpdateBalance(ctx context.Context, id string, totalUnits int64) error {
	query := `UPDATE stock_items SET total_units = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, totalUnits)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update balance: producto %s no existe", id)
	}
	return nil
}

// ListBalances devuelve id, nombre y saldo de todos los productos.
func (r *StockItemRepo) ListBalances(ctx context.Context) ([]repository.StockBalance, error) {
	query := `SELECT id, name, total_units FROM stock_items ORDER BY name, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()

	var list []repository.StockBalance
	for rows.Next() {
		var b repository.StockBalance
		if err := rows.Scan(&b.StockItemID, &b.Name, &b.TotalUnits); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
