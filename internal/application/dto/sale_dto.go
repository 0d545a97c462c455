package dto

// SaleRequest body para POST /api/sales/simulate y POST /api/sales.
// PresentationID es obligatorio para ventas de caja completa. ExpectedBalance
// (opcional) es el saldo que vio la simulación previa: si al confirmar ya no
// coincide, el commit responde CONCURRENT_MODIFICATION y el caller re-simula.
type SaleRequest struct {
	StockItemID         string `json:"stock_item_id" validate:"required,uuid4"`
	SaleType            string `json:"sale_type" validate:"required,oneof=CASE_COMPLETE LOOSE_UNITS"`
	PresentationID      string `json:"presentation_id,omitempty" validate:"omitempty,uuid4"`
	Quantity            int64  `json:"quantity" validate:"required,gt=0"`
	Actor               string `json:"actor" validate:"required"`
	ClientOrDestination string `json:"client_or_destination,omitempty"`
	InvoiceNumber       string `json:"invoice_number,omitempty"`
	ExpectedBalance     *int64 `json:"expected_balance,omitempty"`
}

// SaleSimulationResult resultado estructurado de una simulación de venta.
type SaleSimulationResult struct {
	Feasible                  bool   `json:"feasible"`
	Reason                    string `json:"reason,omitempty"`
	UnitsFromOpenBox          int64  `json:"units_from_open_box"`
	UnitsFromNewCase          int64  `json:"units_from_new_case"`
	BreaksNewCase             bool   `json:"breaks_new_case"`
	ResultingOpenBoxRemainder int64  `json:"resulting_open_box_remainder"`
	ProjectedBalance          int64  `json:"projected_balance"`
	CasePresentationID        string `json:"case_presentation_id,omitempty"`
	CurrentBalance            int64  `json:"current_balance"`
}

// SaleCommitResult respuesta de una venta confirmada.
type SaleCommitResult struct {
	MovementID                string `json:"movement_id"`
	QuantityDelta             int64  `json:"quantity_delta"`
	BalanceBefore             int64  `json:"balance_before"`
	BalanceAfter              int64  `json:"balance_after"`
	UnitsFromOpenBox          int64  `json:"units_from_open_box"`
	UnitsFromNewCase          int64  `json:"units_from_new_case"`
	ResultingOpenBoxRemainder int64  `json:"resulting_open_box_remainder"`
}
