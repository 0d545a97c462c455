// Package alloc contiene la lógica pura de asignación de ventas sobre stock
// multi-unidad: primero se agota la caja abierta y, de hacer falta, se rompe
// a lo sumo una caja sellada adicional por venta.
package alloc

import (
	"github.com/distrisur/almacen-api/internal/domain"
)

// Tipos de venta soportados por el motor.
const (
	SaleTypeCaseComplete = "CASE_COMPLETE" // cajas selladas completas
	SaleTypeLooseUnits   = "LOOSE_UNITS"   // unidades sueltas
)

// ValidSaleType verifica que el tipo de venta pertenezca al catálogo.
func ValidSaleType(t string) bool {
	return t == SaleTypeCaseComplete || t == SaleTypeLooseUnits
}

// State es la foto puntual del stock de un producto sobre la que se planifica.
type State struct {
	TotalUnits       int64 // saldo total en unidades atómicas
	OpenBoxRemaining int64 // remanente de la caja abierta; 0 si no hay
	CaseFactor       int64 // unidades por caja de la presentación en juego
}

// SealedUnits devuelve las unidades que siguen en cajas selladas.
func (s State) SealedUnits() int64 {
	return s.TotalUnits - s.OpenBoxRemaining
}

// Plan es el resultado estructurado de una simulación de venta.
// Si Feasible es false, Reason explica el rechazo y ningún campo de asignación
// aplica. Un plan factible describe exactamente qué consumir de dónde.
type Plan struct {
	Feasible                  bool
	Reason                    error
	UnitsFromOpenBox          int64
	UnitsFromNewCase          int64
	BreaksNewCase             bool
	ResultingOpenBoxRemainder int64
	ProjectedBalance          int64
	QuantityDelta             int64 // unidades atómicas, negativo
}

func validate(s State, qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	if s.CaseFactor < 1 {
		return domain.ErrInvalidConversionFactor
	}
	if s.OpenBoxRemaining < 0 || s.OpenBoxRemaining > s.TotalUnits {
		return domain.ErrInvalidInput
	}
	return nil
}

func infeasible(s State, reason error) Plan {
	return Plan{
		Feasible:                  false,
		Reason:                    reason,
		ResultingOpenBoxRemainder: s.OpenBoxRemaining,
		ProjectedBalance:          s.TotalUnits,
	}
}

// PlanLooseUnits planifica una venta de qty unidades sueltas. Consume primero
// el remanente de la caja abierta; si no alcanza, el faltante debe caber en
// exactamente una caja sellada nueva. Si el faltante excede la capacidad de
// una caja la venta es infactible aunque el stock agregado alcance: es la
// política de una-sola-caja-rota por venta.
func PlanLooseUnits(s State, qty int64) (Plan, error) {
	if err := validate(s, qty); err != nil {
		return Plan{}, err
	}

	r := s.OpenBoxRemaining
	if qty <= r {
		return Plan{
			Feasible:                  true,
			UnitsFromOpenBox:          qty,
			ResultingOpenBoxRemainder: r - qty,
			ProjectedBalance:          s.TotalUnits - qty,
			QuantityDelta:             -qty,
		}, nil
	}

	shortfall := qty - r
	if shortfall > s.CaseFactor {
		return infeasible(s, domain.ErrInsufficientStock), nil
	}
	if s.SealedUnits() < s.CaseFactor {
		// No queda ninguna caja sellada completa que romper.
		return infeasible(s, domain.ErrInsufficientStock), nil
	}
	return Plan{
		Feasible:                  true,
		UnitsFromOpenBox:          r,
		UnitsFromNewCase:          shortfall,
		BreaksNewCase:             true,
		ResultingOpenBoxRemainder: s.CaseFactor - shortfall,
		ProjectedBalance:          s.TotalUnits - qty,
		QuantityDelta:             -qty,
	}, nil
}

// PlanCaseComplete planifica una venta de qty cajas selladas completas.
// Solo cuenta el stock en cajas selladas: el remanente de la caja abierta
// queda excluido y no se toca.
func PlanCaseComplete(s State, qty int64) (Plan, error) {
	if err := validate(s, qty); err != nil {
		return Plan{}, err
	}

	sealedCases := s.SealedUnits() / s.CaseFactor
	if qty > sealedCases {
		return infeasible(s, domain.ErrInsufficientStock), nil
	}
	units := qty * s.CaseFactor
	return Plan{
		Feasible:                  true,
		ResultingOpenBoxRemainder: s.OpenBoxRemaining,
		ProjectedBalance:          s.TotalUnits - units,
		QuantityDelta:             -units,
	}, nil
}
