package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Presentation es una unidad de venta de un producto (unidad suelta, caja x12, etc.).
// ConversionFactor indica cuántas unidades atómicas contiene; exactamente una
// presentación por producto tiene factor 1 (la unidad atómica).
type Presentation struct {
	ID               string
	StockItemID      string
	Name             string
	ConversionFactor int64
	Price            decimal.Decimal
	Currency         string
	IsDefault        bool
	CreatedAt        time.Time
}

// IsAtomic indica si la presentación es la unidad atómica del producto.
func (p *Presentation) IsAtomic() bool {
	return p.ConversionFactor == 1
}
