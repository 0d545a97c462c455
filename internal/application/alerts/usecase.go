// Package alerts deriva la clasificación de criticidad del stock. Es una
// vista pura sobre los saldos vigentes: recalcular no tiene efectos y puede
// hacerse a demanda o por sondeo periódico.
package alerts

import (
	"context"

	"github.com/distrisur/almacen-api/internal/application/dto"
	"github.com/distrisur/almacen-api/internal/domain/entity"
	"github.com/distrisur/almacen-api/internal/domain/repository"
)

// UseCase clasifica los productos contra los umbrales configurados.
type UseCase struct {
	itemRepo   repository.StockItemRepository
	thresholds entity.CriticalityThresholds
}

// NewUseCase construye el monitor; los umbrales vienen de configuración,
// nunca de constantes.
func NewUseCase(itemRepo repository.StockItemRepository, thresholds entity.CriticalityThresholds) *UseCase {
	return &UseCase{itemRepo: itemRepo, thresholds: thresholds}
}

// Snapshot clasifica todos los productos. No muta estado del libro.
func (uc *UseCase) Snapshot(ctx context.Context) ([]dto.StockAlertDTO, error) {
	balances, err := uc.itemRepo.ListBalances(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockAlertDTO, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.StockAlertDTO{
			StockItemID: b.StockItemID,
			Name:        b.Name,
			TotalUnits:  b.TotalUnits,
			Level:       string(entity.ClassifyStock(b.TotalUnits, uc.thresholds)),
		})
	}
	return out, nil
}

// CriticalOnly devuelve solo los productos en SIN_STOCK o CRITICO; lo usa el
// sondeo periódico para loguear alertas.
func (uc *UseCase) CriticalOnly(ctx context.Context) ([]dto.StockAlertDTO, error) {
	all, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	critical := make([]dto.StockAlertDTO, 0, len(all))
	for _, a := range all {
		if a.Level == string(entity.CriticalitySinStock) || a.Level == string(entity.CriticalityCritico) {
			critical = append(critical, a)
		}
	}
	return critical, nil
}
