package entity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distrisur/almacen-api/internal/domain"
	"github.com/distrisur/almacen-api/internal/domain/entity"
)

func TestOpenBox_Consume(t *testing.T) {
	box := &entity.OpenBox{UnitsOriginal: 12, UnitsRemaining: 7}

	require.NoError(t, box.Consume(5))
	assert.Equal(t, int64(2), box.UnitsRemaining)
	assert.False(t, box.Exhausted())

	require.NoError(t, box.Consume(2))
	assert.True(t, box.Exhausted(), "remanente cero = caja cerrada")
}

func TestOpenBox_Consume_Overdraw(t *testing.T) {
	box := &entity.OpenBox{UnitsOriginal: 12, UnitsRemaining: 3}
	err := box.Consume(4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOverdraw))
	assert.Equal(t, int64(3), box.UnitsRemaining, "el remanente no cambia ante overdraw")
}

func TestOpenBox_Consume_NegativoInvalido(t *testing.T) {
	box := &entity.OpenBox{UnitsOriginal: 12, UnitsRemaining: 3}
	assert.True(t, errors.Is(box.Consume(-1), domain.ErrInvalidInput))
}
