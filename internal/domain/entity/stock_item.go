package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem representa un producto rastreable de la distribuidora.
// TotalUnits es el saldo actual en unidades atómicas; solo cambia dentro de la
// transacción que registra el movimiento correspondiente, nunca directamente.
type StockItem struct {
	ID         string
	Name       string
	Brand      string
	Model      string
	TotalUnits int64           // unidades atómicas disponibles
	BasePrice  decimal.Decimal // precio base de la unidad atómica
	Currency   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
