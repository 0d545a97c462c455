package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/distrisur/almacen-api/internal/application/dto"
	"github.com/distrisur/almacen-api/internal/domain"
	"github.com/distrisur/almacen-api/internal/domain/entity"
	"github.com/distrisur/almacen-api/internal/domain/repository"
)

// UseCase administra el catálogo de presentaciones por producto: la unidad
// atómica (factor 1, única) y sus múltiplos (cajas).
type UseCase struct {
	itemRepo repository.StockItemRepository
	presRepo repository.PresentationRepository
}

// NewUseCase construye el caso de uso del catálogo.
func NewUseCase(itemRepo repository.StockItemRepository, presRepo repository.PresentationRepository) *UseCase {
	return &UseCase{itemRepo: itemRepo, presRepo: presRepo}
}

// List devuelve las presentaciones del producto en orden estable.
func (uc *UseCase) List(ctx context.Context, stockItemID string) ([]dto.PresentationDTO, error) {
	item, err := uc.itemRepo.GetByID(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.presRepo.ListByStockItem(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PresentationDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toDTO(p))
	}
	return out, nil
}

// GetDefault devuelve la presentación predeterminada del producto, o la
// unidad atómica si ninguna está marcada.
func (uc *UseCase) GetDefault(ctx context.Context, stockItemID string) (*entity.Presentation, error) {
	p, err := uc.presRepo.GetDefault(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	p, err = uc.presRepo.GetAtomic(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Add registra una presentación nueva. Rechaza factores menores a 1 y un
// segundo factor 1 para el mismo producto.
func (uc *UseCase) Add(ctx context.Context, stockItemID string, in dto.AddPresentationRequest) (*dto.PresentationDTO, error) {
	if in.ConversionFactor < 1 {
		return nil, domain.ErrInvalidConversionFactor
	}
	item, err := uc.itemRepo.GetByID(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.ConversionFactor == 1 {
		atomic, err := uc.presRepo.GetAtomic(ctx, stockItemID)
		if err != nil {
			return nil, err
		}
		if atomic != nil {
			return nil, domain.ErrDuplicateAtomicPresentation
		}
	}

	currency := in.Currency
	if currency == "" {
		currency = item.Currency
	}
	p := &entity.Presentation{
		ID:               uuid.New().String(),
		StockItemID:      stockItemID,
		Name:             in.Name,
		ConversionFactor: in.ConversionFactor,
		Price:            in.Price,
		Currency:         currency,
		IsDefault:        in.IsDefault,
		CreatedAt:        time.Now(),
	}
	// El índice único parcial respalda la verificación anterior ante carreras.
	if err := uc.presRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := toDTO(p)
	return &out, nil
}

func toDTO(p *entity.Presentation) dto.PresentationDTO {
	return dto.PresentationDTO{
		ID:               p.ID,
		StockItemID:      p.StockItemID,
		Name:             p.Name,
		ConversionFactor: p.ConversionFactor,
		Price:            p.Price,
		Currency:         p.Currency,
		IsDefault:        p.IsDefault,
	}
}
