// Package ledger expone el libro de movimientos: anexo validado para los
// colaboradores externos (recepción, asignación de equipos, ajustes),
// consulta filtrada y exportación. Los movimientos jamás se editan; toda
// corrección es un movimiento nuevo.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/distrisur/almacen-api/internal/application/dto"
	"github.com/distrisur/almacen-api/internal/domain"
	"github.com/distrisur/almacen-api/internal/domain/entity"
	"github.com/distrisur/almacen-api/internal/domain/repository"
)

// UseCase administra el libro de movimientos.
type UseCase struct {
	txRunner TxRunner
	itemRepo repository.StockItemRepository
	movRepo  repository.MovementRepository
	boxRepo  repository.OpenBoxRepository
	pdfGen   MovementPDFGenerator
}

// NewUseCase construye el caso de uso del libro.
func NewUseCase(
	txRunner TxRunner,
	itemRepo repository.StockItemRepository,
	movRepo repository.MovementRepository,
	boxRepo repository.OpenBoxRepository,
	pdfGen MovementPDFGenerator,
) *UseCase {
	return &UseCase{txRunner: txRunner, itemRepo: itemRepo, movRepo: movRepo, boxRepo: boxRepo, pdfGen: pdfGen}
}

// RegisterEntrada registra una recepción de mercancía. Si el producto no
// existe se crea en la misma transacción, junto con sus presentaciones; el
// producto siempre garantiza una presentación atómica (factor 1).
func (uc *UseCase) RegisterEntrada(ctx context.Context, in dto.EntradaRequest) (*dto.MovementAppendResult, error) {
	if in.Quantity <= 0 || in.Actor == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.StockItemID == "" && in.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	var result dto.MovementAppendResult
	err := uc.txRunner.RunLedger(ctx, func(
		itemRepo repository.StockItemRepository,
		presRepo repository.PresentationRepository,
		movRepo repository.MovementRepository,
	) error {
		now := time.Now()

		var item *entity.StockItem
		var err error
		if in.StockItemID != "" {
			item, err = itemRepo.GetForUpdate(ctx, in.StockItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
		} else {
			currency := in.Currency
			if currency == "" {
				currency = "COP"
			}
			item = &entity.StockItem{
				ID:         uuid.New().String(),
				Name:       in.Name,
				Brand:      in.Brand,
				Model:      in.Model,
				TotalUnits: 0,
				BasePrice:  in.BasePrice,
				Currency:   currency,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := itemRepo.Create(ctx, item); err != nil {
				return err
			}
		}

		if err := uc.registerPresentations(ctx, presRepo, item, in.Presentations, now); err != nil {
			return err
		}

		mov := &entity.Movement{
			ID:                uuid.New().String(),
			Type:              entity.MovementTypeEntrada,
			StockItemID:       item.ID,
			QuantityDelta:     in.Quantity,
			BalanceBefore:     item.TotalUnits,
			BalanceAfter:      item.TotalUnits + in.Quantity,
			Actor:             in.Actor,
			OriginLocation:    in.OriginLocation,
			DestLocation:      in.DestLocation,
			ExternalReference: in.ExternalRef,
			LoadCode:          in.LoadCode,
			Date:              now,
			CreatedAt:         now,
		}
		if err := mov.Validate(); err != nil {
			return err
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		if err := itemRepo.UpdateBalance(ctx, item.ID, mov.BalanceAfter); err != nil {
			return err
		}
		result = dto.MovementAppendResult{
			MovementID:    mov.ID,
			StockItemID:   item.ID,
			BalanceBefore: mov.BalanceBefore,
			BalanceAfter:  mov.BalanceAfter,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// registerPresentations crea las presentaciones recibidas y, para productos
// nuevos, garantiza la unidad atómica implícita si no vino en la lista.
func (uc *UseCase) registerPresentations(ctx context.Context, presRepo repository.PresentationRepository, item *entity.StockItem, inputs []dto.PresentationInput, now time.Time) error {
	for _, p := range inputs {
		if p.ConversionFactor < 1 {
			return domain.ErrInvalidConversionFactor
		}
		if p.ConversionFactor == 1 {
			atomic, err := presRepo.GetAtomic(ctx, item.ID)
			if err != nil {
				return err
			}
			if atomic != nil {
				return domain.ErrDuplicateAtomicPresentation
			}
		}
		currency := p.Currency
		if currency == "" {
			currency = item.Currency
		}
		pres := &entity.Presentation{
			ID:               uuid.New().String(),
			StockItemID:      item.ID,
			Name:             p.Name,
			ConversionFactor: p.ConversionFactor,
			Price:            p.Price,
			Currency:         currency,
			IsDefault:        p.IsDefault,
			CreatedAt:        now,
		}
		if err := presRepo.Create(ctx, pres); err != nil {
			return err
		}
	}

	atomic, err := presRepo.GetAtomic(ctx, item.ID)
	if err != nil {
		return err
	}
	if atomic == nil {
		implicit := &entity.Presentation{
			ID:               uuid.New().String(),
			StockItemID:      item.ID,
			Name:             "Unidad",
			ConversionFactor: 1,
			Price:            item.BasePrice,
			Currency:         item.Currency,
			CreatedAt:        now,
		}
		if err := presRepo.Create(ctx, implicit); err != nil {
			return err
		}
	}
	return nil
}

// RegisterAsignacion registra la asignación de componentes a un equipo.
// Reusa el contrato de anexo con tipo ASIGNACION para que todos los eventos
// compartan un solo rastro de auditoría; el equipo destino llega explícito.
// Solo consume stock sellado: el remanente de la caja abierta no participa.
func (uc *UseCase) RegisterAsignacion(ctx context.Context, in dto.AsignacionRequest) (*dto.MovementAppendResult, error) {
	if in.Quantity <= 0 || in.Actor == "" || in.DestEquipment == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.appendNegative(ctx, in.StockItemID, in.Quantity, func(item *entity.StockItem, now time.Time) *entity.Movement {
		return &entity.Movement{
			ID:                  uuid.New().String(),
			Type:                entity.MovementTypeAsignacion,
			StockItemID:         item.ID,
			QuantityDelta:       -in.Quantity,
			BalanceBefore:       item.TotalUnits,
			BalanceAfter:        item.TotalUnits - in.Quantity,
			Actor:               in.Actor,
			ClientOrDestination: in.DestEquipment,
			ExternalReference:   in.ExternalRef,
			LoadCode:            in.LoadCode,
			Date:                now,
			CreatedAt:           now,
		}
	})
}

// RegisterAjuste registra una corrección con signo. Los ajustes negativos
// también se limitan al stock sellado para no invalidar la caja abierta.
func (uc *UseCase) RegisterAjuste(ctx context.Context, in dto.AjusteRequest) (*dto.MovementAppendResult, error) {
	if in.Delta == 0 || in.Actor == "" {
		return nil, domain.ErrInvalidInput
	}
	build := func(item *entity.StockItem, now time.Time) *entity.Movement {
		return &entity.Movement{
			ID:                uuid.New().String(),
			Type:              entity.MovementTypeAjuste,
			StockItemID:       item.ID,
			QuantityDelta:     in.Delta,
			BalanceBefore:     item.TotalUnits,
			BalanceAfter:      item.TotalUnits + in.Delta,
			Actor:             in.Actor,
			ExternalReference: in.Reason,
			Date:              now,
			CreatedAt:         now,
		}
	}
	if in.Delta < 0 {
		return uc.appendNegative(ctx, in.StockItemID, -in.Delta, build)
	}
	return uc.appendPositive(ctx, in.StockItemID, build)
}

func (uc *UseCase) appendPositive(ctx context.Context, stockItemID string, build func(*entity.StockItem, time.Time) *entity.Movement) (*dto.MovementAppendResult, error) {
	var result dto.MovementAppendResult
	err := uc.txRunner.RunLedger(ctx, func(
		itemRepo repository.StockItemRepository,
		_ repository.PresentationRepository,
		movRepo repository.MovementRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, stockItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		return uc.appendAndUpdate(ctx, itemRepo, movRepo, item, build, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (uc *UseCase) appendNegative(ctx context.Context, stockItemID string, qty int64, build func(*entity.StockItem, time.Time) *entity.Movement) (*dto.MovementAppendResult, error) {
	var result dto.MovementAppendResult
	err := uc.txRunner.RunLedger(ctx, func(
		itemRepo repository.StockItemRepository,
		_ repository.PresentationRepository,
		movRepo repository.MovementRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, stockItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		sealed := item.TotalUnits
		if box, err := uc.boxRepo.Get(ctx, stockItemID); err != nil {
			return err
		} else if box != nil {
			sealed -= box.UnitsRemaining
		}
		if qty > sealed {
			return domain.ErrInsufficientStock
		}
		return uc.appendAndUpdate(ctx, itemRepo, movRepo, item, build, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (uc *UseCase) appendAndUpdate(ctx context.Context, itemRepo repository.StockItemRepository, movRepo repository.MovementRepository, item *entity.StockItem, build func(*entity.StockItem, time.Time) *entity.Movement, result *dto.MovementAppendResult) error {
	now := time.Now()
	mov := build(item, now)
	if err := mov.Validate(); err != nil {
		return err
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return err
	}
	if err := itemRepo.UpdateBalance(ctx, item.ID, mov.BalanceAfter); err != nil {
		return err
	}
	*result = dto.MovementAppendResult{
		MovementID:    mov.ID,
		StockItemID:   item.ID,
		BalanceBefore: mov.BalanceBefore,
		BalanceAfter:  mov.BalanceAfter,
	}
	return nil
}

// Query devuelve una página del libro, del movimiento más reciente al más
// antiguo. Cada llamada se re-evalúa contra el estado vigente: el resultado es
// finito y reiniciable, no una suscripción.
func (uc *UseCase) Query(ctx context.Context, in dto.MovementQueryRequest) ([]dto.MovementDTO, error) {
	filter, err := toFilter(in)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	filter.Limit = in.Limit
	filter.Offset = in.Offset

	movements, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementDTO(m))
	}
	return out, nil
}

// CurrentBalance devuelve el saldo según el libro (balance_after del último
// movimiento; 0 sin movimientos), junto con el saldo materializado y el
// remanente de caja abierta.
func (uc *UseCase) CurrentBalance(ctx context.Context, stockItemID string) (*dto.BalanceDTO, error) {
	item, err := uc.itemRepo.GetByID(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	ledgerBalance, _, err := uc.movRepo.LatestBalance(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	var boxUnits int64
	if box, err := uc.boxRepo.Get(ctx, stockItemID); err != nil {
		return nil, err
	} else if box != nil {
		boxUnits = box.UnitsRemaining
	}
	return &dto.BalanceDTO{
		StockItemID:   stockItemID,
		TotalUnits:    item.TotalUnits,
		LedgerBalance: ledgerBalance,
		OpenBoxUnits:  boxUnits,
	}, nil
}

func toFilter(in dto.MovementQueryRequest) (repository.MovementFilter, error) {
	var f repository.MovementFilter
	if in.From != "" {
		t, err := time.Parse("2006-01-02", in.From)
		if err != nil {
			return f, domain.ErrInvalidInput
		}
		f.From = &t
	}
	if in.To != "" {
		t, err := time.Parse("2006-01-02", in.To)
		if err != nil {
			return f, domain.ErrInvalidInput
		}
		// Inclusivo hasta el fin del día.
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	f.Type = in.Type
	f.StockItemID = in.StockItemID
	f.SearchText = in.Search
	return f, nil
}

func toMovementDTO(m *entity.Movement) dto.MovementDTO {
	return dto.MovementDTO{
		ID:                  m.ID,
		Type:                m.Type,
		StockItemID:         m.StockItemID,
		QuantityDelta:       m.QuantityDelta,
		BalanceBefore:       m.BalanceBefore,
		BalanceAfter:        m.BalanceAfter,
		Actor:               m.Actor,
		OriginLocation:      m.OriginLocation,
		DestLocation:        m.DestLocation,
		ExternalReference:   m.ExternalReference,
		ClientOrDestination: m.ClientOrDestination,
		InvoiceNumber:       m.InvoiceNumber,
		LoadCode:            m.LoadCode,
		Date:                m.Date,
	}
}
