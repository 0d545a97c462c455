package alloc_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distrisur/almacen-api/internal/domain"
	"github.com/distrisur/almacen-api/internal/domain/alloc"
)

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de venta de unidades sueltas
// ──────────────────────────────────────────────────────────────────────────────

// Saldo 30, caja x12, sin caja abierta: vender 5 sueltas abre una caja nueva
// y deja remanente 7; el saldo proyectado queda en 25.
func TestPlanLooseUnits_AbreCajaNueva(t *testing.T) {
	plan, err := alloc.PlanLooseUnits(alloc.State{TotalUnits: 30, OpenBoxRemaining: 0, CaseFactor: 12}, 5)
	require.NoError(t, err)

	require.True(t, plan.Feasible)
	assert.True(t, plan.BreaksNewCase, "sin caja abierta debe romperse una sellada")
	assert.Equal(t, int64(0), plan.UnitsFromOpenBox)
	assert.Equal(t, int64(5), plan.UnitsFromNewCase)
	assert.Equal(t, int64(7), plan.ResultingOpenBoxRemainder)
	assert.Equal(t, int64(25), plan.ProjectedBalance)
	assert.Equal(t, int64(-5), plan.QuantityDelta)
}

// Continuando el escenario anterior (remanente 7, saldo 25): vender 10 sueltas
// consume las 7 de la caja abierta y rompe otra caja para las 3 restantes.
func TestPlanLooseUnits_CombinaCajaAbiertaYNueva(t *testing.T) {
	plan, err := alloc.PlanLooseUnits(alloc.State{TotalUnits: 25, OpenBoxRemaining: 7, CaseFactor: 12}, 10)
	require.NoError(t, err)

	require.True(t, plan.Feasible)
	assert.True(t, plan.BreaksNewCase)
	assert.Equal(t, int64(7), plan.UnitsFromOpenBox)
	assert.Equal(t, int64(3), plan.UnitsFromNewCase)
	assert.Equal(t, int64(9), plan.ResultingOpenBoxRemainder, "12 - 3 = 9")
	assert.Equal(t, int64(15), plan.ProjectedBalance)
}

// La venta cabe completa en la caja abierta: no se rompe ninguna sellada.
func TestPlanLooseUnits_SoloCajaAbierta(t *testing.T) {
	plan, err := alloc.PlanLooseUnits(alloc.State{TotalUnits: 25, OpenBoxRemaining: 7, CaseFactor: 12}, 7)
	require.NoError(t, err)

	require.True(t, plan.Feasible)
	assert.False(t, plan.BreaksNewCase)
	assert.Equal(t, int64(7), plan.UnitsFromOpenBox)
	assert.Equal(t, int64(0), plan.ResultingOpenBoxRemainder, "la caja queda exhausta y se cierra")
	assert.Equal(t, int64(18), plan.ProjectedBalance)
}

// Política de una sola caja por venta: con remanente 2 y cajas x12, pedir 15
// sueltas (faltante 13 > 12) es infactible aunque el stock total alcance.
func TestPlanLooseUnits_FaltanteExcedeUnaCaja(t *testing.T) {
	plan, err := alloc.PlanLooseUnits(alloc.State{TotalUnits: 50, OpenBoxRemaining: 2, CaseFactor: 12}, 15)
	require.NoError(t, err)

	assert.False(t, plan.Feasible)
	assert.ErrorIs(t, plan.Reason, domain.ErrInsufficientStock)
	assert.Equal(t, int64(50), plan.ProjectedBalance, "un plan infactible no proyecta cambios")
}

// Borde de la política: faltante exactamente igual a la capacidad de la caja.
func TestPlanLooseUnits_FaltanteIgualACapacidad(t *testing.T) {
	plan, err := alloc.PlanLooseUnits(alloc.State{TotalUnits: 50, OpenBoxRemaining: 2, CaseFactor: 12}, 14)
	require.NoError(t, err)

	require.True(t, plan.Feasible)
	assert.Equal(t, int64(12), plan.UnitsFromNewCase)
	assert.Equal(t, int64(0), plan.ResultingOpenBoxRemainder, "la caja nueva se consume entera")
}

// Sin caja sellada completa disponible no hay nada que romper.
func TestPlanLooseUnits_SinCajaSelladaDisponible(t *testing.T) {
	// 10 unidades totales: 7 en caja abierta, 3 sueltas selladas (< 12).
	plan, err := alloc.PlanLooseUnits(alloc.State{TotalUnits: 10, OpenBoxRemaining: 7, CaseFactor: 12}, 9)
	require.NoError(t, err)

	assert.False(t, plan.Feasible)
	assert.ErrorIs(t, plan.Reason, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de venta de cajas completas
// ──────────────────────────────────────────────────────────────────────────────

// La venta de cajas completas solo cuenta stock sellado: con 25 unidades pero
// 7 en la caja abierta quedan 18 selladas = 1 caja x12; pedir 2 falla.
func TestPlanCaseComplete_ExcluyeCajaAbierta(t *testing.T) {
	plan, err := alloc.PlanCaseComplete(alloc.State{TotalUnits: 25, OpenBoxRemaining: 7, CaseFactor: 12}, 2)
	require.NoError(t, err)

	assert.False(t, plan.Feasible)
	assert.ErrorIs(t, plan.Reason, domain.ErrInsufficientStock)
}

func TestPlanCaseComplete_VentaFactible(t *testing.T) {
	plan, err := alloc.PlanCaseComplete(alloc.State{TotalUnits: 30, OpenBoxRemaining: 6, CaseFactor: 12}, 2)
	require.NoError(t, err)

	require.True(t, plan.Feasible)
	assert.Equal(t, int64(-24), plan.QuantityDelta, "el delta del libro va en unidades atómicas")
	assert.Equal(t, int64(6), plan.ProjectedBalance)
	assert.Equal(t, int64(6), plan.ResultingOpenBoxRemainder, "la caja abierta no se toca")
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas inválidas
// ──────────────────────────────────────────────────────────────────────────────

func TestPlan_EntradasInvalidas(t *testing.T) {
	_, err := alloc.PlanLooseUnits(alloc.State{TotalUnits: 10, CaseFactor: 12}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = alloc.PlanLooseUnits(alloc.State{TotalUnits: 10, CaseFactor: 0}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidConversionFactor, "factor cero")

	_, err = alloc.PlanCaseComplete(alloc.State{TotalUnits: 10, OpenBoxRemaining: 11, CaseFactor: 12}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "remanente mayor al saldo")
}

// Idempotencia de la simulación: misma entrada, mismo resultado.
func TestPlan_SimulacionIdempotente(t *testing.T) {
	s := alloc.State{TotalUnits: 30, OpenBoxRemaining: 4, CaseFactor: 12}
	a, err := alloc.PlanLooseUnits(s, 10)
	require.NoError(t, err)
	b, err := alloc.PlanLooseUnits(s, 10)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad de conservación: reproducir N ventas factibles aleatorias y
// verificar en cada paso que el saldo coincide con la suma de los deltas.
// ──────────────────────────────────────────────────────────────────────────────

func TestPlan_ConservacionEnReplayAleatorio(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for caso := 0; caso < 50; caso++ {
		factor := int64(2 + rng.Intn(23))
		total := factor * int64(5+rng.Intn(20))
		s := alloc.State{TotalUnits: total, OpenBoxRemaining: 0, CaseFactor: factor}
		running := total

		for paso := 0; paso < 200 && s.TotalUnits > 0; paso++ {
			var plan alloc.Plan
			var err error
			if rng.Intn(3) == 0 {
				plan, err = alloc.PlanCaseComplete(s, 1+int64(rng.Intn(3)))
			} else {
				plan, err = alloc.PlanLooseUnits(s, 1+int64(rng.Intn(int(factor)+3)))
			}
			require.NoError(t, err)
			if !plan.Feasible {
				continue
			}

			running += plan.QuantityDelta
			require.Equal(t, plan.ProjectedBalance, running,
				"caso %d paso %d: el saldo proyectado debe igualar la suma de deltas", caso, paso)
			require.GreaterOrEqual(t, plan.ResultingOpenBoxRemainder, int64(0))
			require.Less(t, plan.ResultingOpenBoxRemainder, factor,
				"el remanente siempre es menor a una caja completa")

			s = alloc.State{
				TotalUnits:       plan.ProjectedBalance,
				OpenBoxRemaining: plan.ResultingOpenBoxRemainder,
				CaseFactor:       factor,
			}
		}
	}
}
