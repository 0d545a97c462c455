package dto

// StockAlertDTO clasificación de criticidad de un producto.
type StockAlertDTO struct {
	StockItemID string `json:"stock_item_id"`
	Name        string `json:"name"`
	TotalUnits  int64  `json:"total_units"`
	Level       string `json:"level"` // SIN_STOCK | CRITICO | BAJO | NORMAL
}
