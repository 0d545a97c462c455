package sale

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/distrisur/almacen-api/internal/application/dto"
	"github.com/distrisur/almacen-api/internal/application/openbox"
	"github.com/distrisur/almacen-api/internal/domain"
	"github.com/distrisur/almacen-api/internal/domain/alloc"
	"github.com/distrisur/almacen-api/internal/domain/entity"
	"github.com/distrisur/almacen-api/internal/domain/repository"
	"github.com/distrisur/almacen-api/pkg/logger"
)

// UseCase es el motor de ventas: Simulate evalúa factibilidad sin mutar nada;
// Commit re-valida contra el estado más reciente bajo bloqueo de fila y aplica
// caja abierta + movimiento + saldo como una unidad atómica.
type UseCase struct {
	txRunner TxRunner
	itemRepo repository.StockItemRepository
	presRepo repository.PresentationRepository
	boxRepo  repository.OpenBoxRepository
	tracker  *openbox.Tracker
	log      *logger.Logger
}

// NewUseCase construye el motor de ventas.
func NewUseCase(
	txRunner TxRunner,
	itemRepo repository.StockItemRepository,
	presRepo repository.PresentationRepository,
	boxRepo repository.OpenBoxRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		presRepo: presRepo,
		boxRepo:  boxRepo,
		tracker:  openbox.NewTracker(),
		log:      log,
	}
}

// Simulate evalúa la venta contra una foto puntual del stock. Lectura pura:
// puede correr con concurrencia ilimitada y su resultado puede quedar viejo
// para cuando el caller confirme.
func (uc *UseCase) Simulate(ctx context.Context, in dto.SaleRequest) (*dto.SaleSimulationResult, error) {
	if !alloc.ValidSaleType(in.SaleType) || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(ctx, in.StockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	box, err := uc.boxRepo.Get(ctx, in.StockItemID)
	if err != nil {
		return nil, err
	}
	casePres, err := uc.casePresentation(ctx, uc.presRepo, in, box)
	if err != nil {
		return nil, err
	}

	plan, err := uc.plan(item, box, casePres, in)
	if err != nil {
		return nil, err
	}
	res := &dto.SaleSimulationResult{
		Feasible:                  plan.Feasible,
		UnitsFromOpenBox:          plan.UnitsFromOpenBox,
		UnitsFromNewCase:          plan.UnitsFromNewCase,
		BreaksNewCase:             plan.BreaksNewCase,
		ResultingOpenBoxRemainder: plan.ResultingOpenBoxRemainder,
		ProjectedBalance:          plan.ProjectedBalance,
		CurrentBalance:            item.TotalUnits,
	}
	if plan.Reason != nil {
		res.Reason = plan.Reason.Error()
	}
	if plan.Feasible && (plan.BreaksNewCase || in.SaleType == alloc.SaleTypeCaseComplete) {
		res.CasePresentationID = casePres.ID
	}
	return res, nil
}

// Commit confirma la venta. Nunca confía en una simulación previa: re-planifica
// con la fila del producto bloqueada (FOR UPDATE) y, si el caller envió
// expected_balance, verifica además que el saldo no haya cambiado desde su
// simulación (ErrConcurrentModification, recuperable re-simulando).
func (uc *UseCase) Commit(ctx context.Context, in dto.SaleRequest) (*dto.SaleCommitResult, error) {
	if !alloc.ValidSaleType(in.SaleType) || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var result dto.SaleCommitResult
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.StockItemRepository,
		presRepo repository.PresentationRepository,
		boxRepo repository.OpenBoxRepository,
		movRepo repository.MovementRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, in.StockItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if in.ExpectedBalance != nil && *in.ExpectedBalance != item.TotalUnits {
			return domain.ErrConcurrentModification
		}
		box, err := boxRepo.Get(ctx, in.StockItemID)
		if err != nil {
			return err
		}
		casePres, err := uc.casePresentation(ctx, presRepo, in, box)
		if err != nil {
			return err
		}
		plan, err := uc.plan(item, box, casePres, in)
		if err != nil {
			return err
		}
		if !plan.Feasible {
			return plan.Reason
		}

		if err := uc.applyOpenBox(ctx, boxRepo, casePres, in.StockItemID, plan); err != nil {
			return err
		}

		now := time.Now()
		mov := &entity.Movement{
			ID:                  uuid.New().String(),
			Type:                entity.MovementTypeSalida,
			StockItemID:         in.StockItemID,
			QuantityDelta:       plan.QuantityDelta,
			BalanceBefore:       item.TotalUnits,
			BalanceAfter:        plan.ProjectedBalance,
			Actor:               in.Actor,
			ClientOrDestination: in.ClientOrDestination,
			InvoiceNumber:       in.InvoiceNumber,
			Date:                now,
			CreatedAt:           now,
		}
		if err := mov.Validate(); err != nil {
			// Alarma de consistencia interna: nada debe persistirse.
			uc.log.Error().Err(err).Str("stock_item_id", in.StockItemID).
				Msg("integridad del libro violada en commit de venta")
			return err
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		if err := itemRepo.UpdateBalance(ctx, in.StockItemID, plan.ProjectedBalance); err != nil {
			return err
		}

		result = dto.SaleCommitResult{
			MovementID:                mov.ID,
			QuantityDelta:             mov.QuantityDelta,
			BalanceBefore:             mov.BalanceBefore,
			BalanceAfter:              mov.BalanceAfter,
			UnitsFromOpenBox:          plan.UnitsFromOpenBox,
			UnitsFromNewCase:          plan.UnitsFromNewCase,
			ResultingOpenBoxRemainder: plan.ResultingOpenBoxRemainder,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// plan traduce la foto del stock a un plan de asignación según el tipo de venta.
func (uc *UseCase) plan(item *entity.StockItem, box *entity.OpenBox, casePres *entity.Presentation, in dto.SaleRequest) (alloc.Plan, error) {
	var remaining int64
	if box != nil {
		remaining = box.UnitsRemaining
	}
	state := alloc.State{
		TotalUnits:       item.TotalUnits,
		OpenBoxRemaining: remaining,
		CaseFactor:       casePres.ConversionFactor,
	}
	if in.SaleType == alloc.SaleTypeCaseComplete {
		return alloc.PlanCaseComplete(state, in.Quantity)
	}
	return alloc.PlanLooseUnits(state, in.Quantity)
}

// casePresentation resuelve qué presentación de caja participa en la venta.
// Para caja completa es la solicitada; para sueltas, la de la caja ya abierta
// si existe, luego la predeterminada (si es caja) y por último la caja de
// menor factor.
func (uc *UseCase) casePresentation(ctx context.Context, presRepo repository.PresentationRepository, in dto.SaleRequest, box *entity.OpenBox) (*entity.Presentation, error) {
	if in.SaleType == alloc.SaleTypeCaseComplete {
		if in.PresentationID == "" {
			return nil, domain.ErrInvalidPresentation
		}
		p, err := presRepo.GetByID(ctx, in.PresentationID)
		if err != nil {
			return nil, err
		}
		if p == nil || p.StockItemID != in.StockItemID {
			return nil, domain.ErrInvalidPresentation
		}
		return p, nil
	}

	if box != nil {
		p, err := presRepo.GetByID(ctx, box.PresentationID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrInvalidPresentation
		}
		return p, nil
	}
	if def, err := presRepo.GetDefault(ctx, in.StockItemID); err != nil {
		return nil, err
	} else if def != nil && def.ConversionFactor > 1 {
		return def, nil
	}
	list, err := presRepo.ListByStockItem(ctx, in.StockItemID)
	if err != nil {
		return nil, err
	}
	var smallest *entity.Presentation
	var atomic *entity.Presentation
	for _, p := range list {
		if p.IsAtomic() {
			atomic = p
			continue
		}
		if smallest == nil || p.ConversionFactor < smallest.ConversionFactor {
			smallest = p
		}
	}
	if smallest != nil {
		return smallest, nil
	}
	if atomic != nil {
		return atomic, nil
	}
	return nil, domain.ErrInvalidPresentation
}

// applyOpenBox ejecuta las mutaciones de caja abierta que el plan exige.
// AlreadyOpen u Overdraw aquí delatan un commit mal serializado: se registran
// y abortan la transacción completa.
func (uc *UseCase) applyOpenBox(ctx context.Context, boxRepo repository.OpenBoxRepository, casePres *entity.Presentation, stockItemID string, plan alloc.Plan) error {
	if plan.UnitsFromOpenBox > 0 {
		if _, err := uc.tracker.Consume(ctx, boxRepo, stockItemID, plan.UnitsFromOpenBox); err != nil {
			return uc.boxInvariantError(err, stockItemID)
		}
	}
	if plan.BreaksNewCase {
		if _, err := uc.tracker.Open(ctx, boxRepo, casePres); err != nil {
			return uc.boxInvariantError(err, stockItemID)
		}
		if _, err := uc.tracker.Consume(ctx, boxRepo, stockItemID, plan.UnitsFromNewCase); err != nil {
			return uc.boxInvariantError(err, stockItemID)
		}
	}
	return nil
}

func (uc *UseCase) boxInvariantError(err error, stockItemID string) error {
	if errors.Is(err, domain.ErrAlreadyOpen) || errors.Is(err, domain.ErrOverdraw) {
		uc.log.Error().Err(err).Str("stock_item_id", stockItemID).
			Msg("invariante de caja abierta violado dentro de un commit")
	}
	return err
}
