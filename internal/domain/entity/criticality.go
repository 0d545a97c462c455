package entity

// CriticalityLevel clasifica la suficiencia del stock de un producto.
// Es un valor derivado: se recalcula a demanda desde el saldo, nunca se persiste.
type CriticalityLevel string

const (
	CriticalitySinStock CriticalityLevel = "SIN_STOCK"
	CriticalityCritico  CriticalityLevel = "CRITICO"
	CriticalityBajo     CriticalityLevel = "BAJO"
	CriticalityNormal   CriticalityLevel = "NORMAL"
)

// CriticalityThresholds son los umbrales configurables de clasificación.
// SinStockAt es 0 salvo configuración explícita; CriticoAt < BajoAt.
type CriticalityThresholds struct {
	SinStockAt int64
	CriticoAt  int64
	BajoAt     int64
}

// ClassifyStock clasifica un saldo en unidades atómicas contra los umbrales.
// Función pura: idempotente y segura de calcular con cualquier frecuencia.
func ClassifyStock(balance int64, t CriticalityThresholds) CriticalityLevel {
	switch {
	case balance <= t.SinStockAt:
		return CriticalitySinStock
	case balance <= t.CriticoAt:
		return CriticalityCritico
	case balance <= t.BajoAt:
		return CriticalityBajo
	default:
		return CriticalityNormal
	}
}
