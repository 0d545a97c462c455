package entity

import (
	"time"

	"github.com/distrisur/almacen-api/internal/domain"
)

// Tipos de movimiento del libro de stock.
const (
	MovementTypeEntrada       = "ENTRADA"       // recepción de mercancía
	MovementTypeSalida        = "SALIDA"        // venta
	MovementTypeTransferencia = "TRANSFERENCIA" // traslado entre ubicaciones
	MovementTypeAjuste        = "AJUSTE"        // corrección; nunca se edita un movimiento, se agrega un ajuste
	MovementTypeAsignacion    = "ASIGNACION"    // componente asignado a un equipo
)

// ValidMovementType verifica que el tipo pertenezca al catálogo.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSalida, MovementTypeTransferencia,
		MovementTypeAjuste, MovementTypeAsignacion:
		return true
	}
	return false
}

// Movement es un registro inmutable del libro de movimientos. Todo campo de
// negocio (cliente, factura, código de carga, ubicaciones) es una columna
// estructurada propia; los movimientos jamás se mutan ni se eliminan.
type Movement struct {
	ID            string
	Type          string
	StockItemID   string
	QuantityDelta int64 // unidades atómicas, con signo
	BalanceBefore int64
	BalanceAfter  int64
	Actor         string
	// Campos opcionales: cadena vacía = ausente (NULL en la capa de persistencia).
	OriginLocation      string
	DestLocation        string
	ExternalReference   string
	ClientOrDestination string
	InvoiceNumber       string
	LoadCode            string
	Date                time.Time
	CreatedAt           time.Time
}

// Validate verifica la coherencia del movimiento antes de anexarlo al libro:
// tipo conocido, signo del delta acorde al tipo y aritmética de saldos exacta.
// Un fallo aquí es ErrLedgerIntegrity: aborta la transacción completa.
func (m *Movement) Validate() error {
	if !ValidMovementType(m.Type) {
		return domain.ErrInvalidInput
	}
	if m.StockItemID == "" || m.QuantityDelta == 0 {
		return domain.ErrInvalidInput
	}
	switch m.Type {
	case MovementTypeEntrada:
		if m.QuantityDelta <= 0 {
			return domain.ErrLedgerIntegrity
		}
	case MovementTypeSalida, MovementTypeAsignacion:
		if m.QuantityDelta >= 0 {
			return domain.ErrLedgerIntegrity
		}
	}
	if m.BalanceAfter != m.BalanceBefore+m.QuantityDelta {
		return domain.ErrLedgerIntegrity
	}
	if m.BalanceAfter < 0 {
		return domain.ErrLedgerIntegrity
	}
	return nil
}
