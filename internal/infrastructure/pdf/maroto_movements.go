// Package pdf genera el reporte de historial de movimientos en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Historial de movimientos + fecha de generación      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Producto | Delta | Saldo | Detalle    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: total de movimientos, entradas y salidas           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appledger "github.com/distrisur/almacen-api/internal/application/ledger"
	"github.com/distrisur/almacen-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 16, Green: 78, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoMovementGenerator implementa ledger.MovementPDFGenerator usando Maroto v2.
type MarotoMovementGenerator struct {
	printer *message.Printer
}

var _ appledger.MovementPDFGenerator = (*MarotoMovementGenerator)(nil)

// NewMarotoMovementGenerator construye el generador. Los números se formatean
// con separador de miles en español.
func NewMarotoMovementGenerator() *MarotoMovementGenerator {
	return &MarotoMovementGenerator{printer: message.NewPrinter(language.Spanish)}
}

// Generate genera el PDF del historial y devuelve sus bytes.
func (g *MarotoMovementGenerator) Generate(_ context.Context, movements []*entity.Movement) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Historial de movimientos", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.tableHeaderRow())
	for _, mov := range movements {
		m.AddRows(g.movementRow(mov))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.summaryRow(movements))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generar PDF de movimientos: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoMovementGenerator) headerRow() core.Row {
	return row.New(12).Add(
		col.New(8).Add(
			text.New("Historial de movimientos", props.Text{
				Size: 14, Style: fontstyle.Bold, Color: colorPrimary,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+time.Now().Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoMovementGenerator) tableHeaderRow() core.Row {
	header := func(size int, label string) core.Col {
		return col.New(size).Add(text.New(label, props.Text{Size: 8, Style: fontstyle.Bold}))
	}
	return row.New(6).Add(
		header(2, "Fecha"),
		header(2, "Tipo"),
		header(2, "Producto"),
		header(1, "Delta"),
		header(1, "Saldo"),
		header(2, "Actor"),
		header(2, "Detalle"),
	)
}

func (g *MarotoMovementGenerator) movementRow(mov *entity.Movement) core.Row {
	detail := mov.ClientOrDestination
	if detail == "" {
		detail = mov.ExternalReference
	}
	if mov.InvoiceNumber != "" {
		detail = detail + " " + mov.InvoiceNumber
	}
	cell := func(size int, value string, alignment align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 7, Align: alignment}))
	}
	return row.New(5).Add(
		cell(2, mov.Date.Format("2006-01-02 15:04"), align.Left),
		cell(2, mov.Type, align.Left),
		cell(2, shortID(mov.StockItemID), align.Left),
		cell(1, g.printer.Sprintf("%d", mov.QuantityDelta), align.Right),
		cell(1, g.printer.Sprintf("%d", mov.BalanceAfter), align.Right),
		cell(2, mov.Actor, align.Left),
		cell(2, detail, align.Left),
	)
}

func (g *MarotoMovementGenerator) summaryRow(movements []*entity.Movement) core.Row {
	var in, out int64
	for _, mov := range movements {
		if mov.QuantityDelta > 0 {
			in += mov.QuantityDelta
		} else {
			out -= mov.QuantityDelta
		}
	}
	summary := g.printer.Sprintf("Movimientos: %d | Unidades entradas: %d | Unidades salidas: %d",
		len(movements), in, out)
	return row.New(8).Add(
		col.New(12).Add(text.New(summary, props.Text{Size: 8, Style: fontstyle.Bold})),
	)
}

// shortID recorta un UUID para la celda de producto.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
