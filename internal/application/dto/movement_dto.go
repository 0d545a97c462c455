package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PresentationInput define una presentación a registrar junto con una entrada.
type PresentationInput struct {
	Name             string          `json:"name" validate:"required"`
	ConversionFactor int64           `json:"conversion_factor" validate:"required,gte=1"`
	Price            decimal.Decimal `json:"price"`
	Currency         string          `json:"currency" validate:"omitempty,len=3"`
	IsDefault        bool            `json:"is_default"`
}

// EntradaRequest body para POST /api/movements/entrada (colaborador de recepción).
// Si el producto no existe se crea en la misma transacción; Presentations
// permite registrar el catálogo de presentaciones junto con la primera entrada.
type EntradaRequest struct {
	StockItemID    string              `json:"stock_item_id,omitempty" validate:"omitempty,uuid4"`
	Name           string              `json:"name,omitempty"`
	Brand          string              `json:"brand,omitempty"`
	Model          string              `json:"model,omitempty"`
	BasePrice      decimal.Decimal     `json:"base_price"`
	Currency       string              `json:"currency,omitempty" validate:"omitempty,len=3"`
	Quantity       int64               `json:"quantity" validate:"required,gt=0"`
	Actor          string              `json:"actor" validate:"required"`
	LoadCode       string              `json:"load_code,omitempty"`
	OriginLocation string              `json:"origin_location,omitempty"`
	DestLocation   string              `json:"dest_location,omitempty"`
	ExternalRef    string              `json:"external_reference,omitempty"`
	Presentations  []PresentationInput `json:"presentations,omitempty" validate:"dive"`
}

// AsignacionRequest body para POST /api/movements/asignacion (colaborador de
// asignación de componentes). La relación componente-equipo llega explícita en
// DestEquipment; nunca se deriva por heurísticas de texto.
type AsignacionRequest struct {
	StockItemID   string `json:"stock_item_id" validate:"required,uuid4"`
	Quantity      int64  `json:"quantity" validate:"required,gt=0"`
	Actor         string `json:"actor" validate:"required"`
	DestEquipment string `json:"dest_equipment" validate:"required"`
	LoadCode      string `json:"load_code,omitempty"`
	ExternalRef   string `json:"external_reference,omitempty"`
}

// AjusteRequest body para POST /api/movements/ajuste. Delta con signo: las
// correcciones son movimientos nuevos, jamás ediciones.
type AjusteRequest struct {
	StockItemID string `json:"stock_item_id" validate:"required,uuid4"`
	Delta       int64  `json:"delta" validate:"required"`
	Actor       string `json:"actor" validate:"required"`
	Reason      string `json:"reason,omitempty"`
}

// MovementQueryRequest filtros de GET /api/movements.
type MovementQueryRequest struct {
	From        string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Type        string `query:"type" validate:"omitempty,oneof=ENTRADA SALIDA TRANSFERENCIA AJUSTE ASIGNACION"`
	StockItemID string `query:"stock_item_id" validate:"omitempty,uuid4"`
	Search      string `query:"search"`
	PageRequest
}

// MovementDTO representación de un movimiento del libro.
type MovementDTO struct {
	ID                  string    `json:"id"`
	Type                string    `json:"type"`
	StockItemID         string    `json:"stock_item_id"`
	QuantityDelta       int64     `json:"quantity_delta"`
	BalanceBefore       int64     `json:"balance_before"`
	BalanceAfter        int64     `json:"balance_after"`
	Actor               string    `json:"actor"`
	OriginLocation      string    `json:"origin_location,omitempty"`
	DestLocation        string    `json:"dest_location,omitempty"`
	ExternalReference   string    `json:"external_reference,omitempty"`
	ClientOrDestination string    `json:"client_or_destination,omitempty"`
	InvoiceNumber       string    `json:"invoice_number,omitempty"`
	LoadCode            string    `json:"load_code,omitempty"`
	Date                time.Time `json:"date"`
}

// MovementAppendResult respuesta al registrar un movimiento externo.
type MovementAppendResult struct {
	MovementID    string `json:"movement_id"`
	StockItemID   string `json:"stock_item_id"`
	BalanceBefore int64  `json:"balance_before"`
	BalanceAfter  int64  `json:"balance_after"`
}
