package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/distrisur/almacen-api/internal/domain/entity"
	"github.com/distrisur/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL
// (usable con pool o tx). El libro es de solo-anexado: no hay UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

var movementColumns = []string{
	"id", "type", "stock_item_id", "quantity_delta", "balance_before", "balance_after",
	"actor", "origin_location", "dest_location", "external_reference",
	"client_or_destination", "invoice_number", "load_code", "date", "created_at",
}

// nullIfEmpty mapea cadena vacía a NULL para las columnas opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create anexa un movimiento al libro.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, type, stock_item_id, quantity_delta, balance_before, balance_after,
			actor, origin_location, dest_location, external_reference,
			client_or_destination, invoice_number, load_code, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Type, m.StockItemID, m.QuantityDelta, m.BalanceBefore, m.BalanceAfter,
		m.Actor, nullIfEmpty(m.OriginLocation), nullIfEmpty(m.DestLocation),
		nullIfEmpty(m.ExternalReference), nullIfEmpty(m.ClientOrDestination),
		nullIfEmpty(m.InvoiceNumber), nullIfEmpty(m.LoadCode), m.Date, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List devuelve los movimientos filtrados, del más reciente al más antiguo.
// Los filtros opcionales se arman con squirrel; Limit en cero trae todo
// (exportación).
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	b := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(movementColumns...).
		From("movements").
		OrderBy("date DESC", "created_at DESC", "id DESC")

	if f.From != nil {
		b = b.Where(squirrel.GtOrEq{"date": *f.From})
	}
	if f.To != nil {
		b = b.Where(squirrel.LtOrEq{"date": *f.To})
	}
	if f.Type != "" {
		b = b.Where(squirrel.Eq{"type": f.Type})
	}
	if f.StockItemID != "" {
		b = b.Where(squirrel.Eq{"stock_item_id": f.StockItemID})
	}
	if f.SearchText != "" {
		pattern := "%" + f.SearchText + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{"actor": pattern},
			squirrel.ILike{"client_or_destination": pattern},
			squirrel.ILike{"invoice_number": pattern},
			squirrel.ILike{"external_reference": pattern},
			squirrel.ILike{"load_code": pattern},
		})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// LatestBalance devuelve el balance_after del último movimiento del producto.
func (r *MovementRepo) LatestBalance(ctx context.Context, stockItemID string) (int64, bool, error) {
	query := `
		SELECT balance_after FROM movements
		WHERE stock_item_id = $1
		ORDER BY date DESC, created_at DESC, id DESC LIMIT 1`
	var balance int64
	err := r.q.QueryRow(ctx, query, stockItemID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("latest balance: %w", err)
	}
	return balance, true, nil
}

func scanMovement(rows pgx.Rows) (*entity.Movement, error) {
	var m entity.Movement
	var origin, dest, extRef, client, invoice, loadCode *string
	if err := rows.Scan(&m.ID, &m.Type, &m.StockItemID, &m.QuantityDelta,
		&m.BalanceBefore, &m.BalanceAfter, &m.Actor,
		&origin, &dest, &extRef, &client, &invoice, &loadCode,
		&m.Date, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.OriginLocation = deref(origin)
	m.DestLocation = deref(dest)
	m.ExternalReference = deref(extRef)
	m.ClientOrDestination = deref(client)
	m.InvoiceNumber = deref(invoice)
	m.LoadCode = deref(loadCode)
	return &m, nil
}
