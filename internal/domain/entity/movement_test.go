package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distrisur/almacen-api/internal/domain"
	"github.com/distrisur/almacen-api/internal/domain/entity"
)

func validMovement(typ string, delta, before int64) *entity.Movement {
	return &entity.Movement{
		ID:            uuid.NewString(),
		Type:          typ,
		StockItemID:   uuid.NewString(),
		QuantityDelta: delta,
		BalanceBefore: before,
		BalanceAfter:  before + delta,
		Actor:         "bodeguero",
		Date:          time.Now(),
		CreatedAt:     time.Now(),
	}
}

func TestMovement_Validate_MovimientosCoherentes(t *testing.T) {
	casos := []struct {
		nombre string
		mov    *entity.Movement
	}{
		{"entrada positiva", validMovement(entity.MovementTypeEntrada, 24, 0)},
		{"salida negativa", validMovement(entity.MovementTypeSalida, -5, 30)},
		{"asignación negativa", validMovement(entity.MovementTypeAsignacion, -2, 10)},
		{"ajuste positivo", validMovement(entity.MovementTypeAjuste, 3, 7)},
		{"ajuste negativo", validMovement(entity.MovementTypeAjuste, -3, 7)},
		{"transferencia", validMovement(entity.MovementTypeTransferencia, -4, 12)},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			assert.NoError(t, c.mov.Validate())
		})
	}
}

func TestMovement_Validate_SignoInvalidoPorTipo(t *testing.T) {
	casos := []struct {
		nombre string
		mov    *entity.Movement
	}{
		{"entrada negativa", validMovement(entity.MovementTypeEntrada, -10, 50)},
		{"salida positiva", validMovement(entity.MovementTypeSalida, 10, 50)},
		{"asignación positiva", validMovement(entity.MovementTypeAsignacion, 10, 50)},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			err := c.mov.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrLedgerIntegrity))
		})
	}
}

func TestMovement_Validate_AritmeticaDeSaldos(t *testing.T) {
	m := validMovement(entity.MovementTypeSalida, -5, 30)
	m.BalanceAfter = 24 // debería ser 25
	err := m.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLedgerIntegrity))
}

func TestMovement_Validate_SaldoNegativoProhibido(t *testing.T) {
	m := validMovement(entity.MovementTypeSalida, -10, 5)
	err := m.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLedgerIntegrity))
}

func TestMovement_Validate_EntradaInvalida(t *testing.T) {
	m := validMovement("REGALO", 5, 0)
	assert.True(t, errors.Is(m.Validate(), domain.ErrInvalidInput))

	m = validMovement(entity.MovementTypeEntrada, 5, 0)
	m.StockItemID = ""
	assert.True(t, errors.Is(m.Validate(), domain.ErrInvalidInput))

	m = validMovement(entity.MovementTypeAjuste, 0, 10)
	assert.True(t, errors.Is(m.Validate(), domain.ErrInvalidInput))
}
