package dto

import "github.com/shopspring/decimal"

// AddPresentationRequest body para POST /api/stock-items/:id/presentations.
type AddPresentationRequest struct {
	Name             string          `json:"name" validate:"required"`
	ConversionFactor int64           `json:"conversion_factor" validate:"required"`
	Price            decimal.Decimal `json:"price"`
	Currency         string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	IsDefault        bool            `json:"is_default"`
}

// PresentationDTO representación de una presentación en respuestas.
type PresentationDTO struct {
	ID               string          `json:"id"`
	StockItemID      string          `json:"stock_item_id"`
	Name             string          `json:"name"`
	ConversionFactor int64           `json:"conversion_factor"`
	Price            decimal.Decimal `json:"price"`
	Currency         string          `json:"currency"`
	IsDefault        bool            `json:"is_default"`
}

// BalanceDTO respuesta de GET /api/stock-items/:id/balance.
type BalanceDTO struct {
	StockItemID   string `json:"stock_item_id"`
	TotalUnits    int64  `json:"total_units"`
	LedgerBalance int64  `json:"ledger_balance"`
	OpenBoxUnits  int64  `json:"open_box_units"`
}
