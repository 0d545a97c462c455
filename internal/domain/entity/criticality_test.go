package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/distrisur/almacen-api/internal/domain/entity"
)

func TestClassifyStock(t *testing.T) {
	umbrales := entity.CriticalityThresholds{SinStockAt: 0, CriticoAt: 5, BajoAt: 20}

	casos := []struct {
		saldo    int64
		esperado entity.CriticalityLevel
	}{
		{0, entity.CriticalitySinStock},
		{1, entity.CriticalityCritico},
		{5, entity.CriticalityCritico},
		{6, entity.CriticalityBajo},
		{20, entity.CriticalityBajo},
		{21, entity.CriticalityNormal},
		{1000, entity.CriticalityNormal},
	}
	for _, c := range casos {
		assert.Equal(t, c.esperado, entity.ClassifyStock(c.saldo, umbrales), "saldo %d", c.saldo)
	}
}

func TestClassifyStock_UmbralSinStockConfigurable(t *testing.T) {
	// Un producto puede considerarse "sin stock" aun con remanentes residuales.
	umbrales := entity.CriticalityThresholds{SinStockAt: 2, CriticoAt: 5, BajoAt: 20}
	assert.Equal(t, entity.CriticalitySinStock, entity.ClassifyStock(2, umbrales))
	assert.Equal(t, entity.CriticalityCritico, entity.ClassifyStock(3, umbrales))
}
