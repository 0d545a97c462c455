package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/distrisur/almacen-api/internal/application/ledger"
	"github.com/distrisur/almacen-api/internal/application/sale"
	"github.com/distrisur/almacen-api/internal/domain/repository"
)

// Ensure TxRunner implements sale.TxRunner and ledger.TxRunner.
var _ sale.TxRunner = (*TxRunner)(nil)
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del commit de venta y hace Commit
// o Rollback. El bloqueo de fila del producto dentro de fn serializa los
// commits concurrentes por producto.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.StockItemRepository,
	presRepo repository.PresentationRepository,
	boxRepo repository.OpenBoxRepository,
	movRepo repository.MovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewStockItemRepository(tx),
		NewPresentationRepository(tx),
		NewOpenBoxRepository(tx),
		NewMovementRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunLedger inicia una transacción con los repos del anexo al libro
// (entradas, asignaciones y ajustes de los colaboradores externos).
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	itemRepo repository.StockItemRepository,
	presRepo repository.PresentationRepository,
	movRepo repository.MovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewStockItemRepository(tx),
		NewPresentationRepository(tx),
		NewMovementRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
