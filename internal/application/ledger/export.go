package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"github.com/distrisur/almacen-api/internal/application/dto"
	"github.com/distrisur/almacen-api/internal/domain"
	"github.com/distrisur/almacen-api/internal/domain/entity"
)

// Formatos de exportación del historial de movimientos.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// Export materializa el resultado completo, ordenado y filtrado, del libro de
// movimientos en el formato pedido. Lectura pura: reintentable sin riesgo.
func (uc *UseCase) Export(ctx context.Context, in dto.MovementQueryRequest, format string) ([]byte, string, error) {
	filter, err := toFilter(in)
	if err != nil {
		return nil, "", err
	}
	// Sin límite: la exportación lleva el conjunto completo.
	filter.Limit = 0
	filter.Offset = 0

	movements, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case "", ExportFormatCSV:
		out, err := writeCSV(movements)
		return out, "text/csv", err
	case ExportFormatPDF:
		out, err := uc.pdfGen.Generate(ctx, movements)
		return out, "application/pdf", err
	default:
		return nil, "", domain.ErrInvalidInput
	}
}

var csvHeader = []string{
	"id", "fecha", "tipo", "producto_id", "delta", "saldo_anterior", "saldo_posterior",
	"actor", "origen", "destino", "referencia", "cliente_o_destino", "factura", "codigo_carga",
}

func writeCSV(movements []*entity.Movement) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, m := range movements {
		record := []string{
			m.ID,
			m.Date.Format("2006-01-02 15:04:05"),
			m.Type,
			m.StockItemID,
			strconv.FormatInt(m.QuantityDelta, 10),
			strconv.FormatInt(m.BalanceBefore, 10),
			strconv.FormatInt(m.BalanceAfter, 10),
			m.Actor,
			m.OriginLocation,
			m.DestLocation,
			m.ExternalReference,
			m.ClientOrDestination,
			m.InvoiceNumber,
			m.LoadCode,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
