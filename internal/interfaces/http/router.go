package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/distrisur/almacen-api/internal/application/alerts"
	"github.com/distrisur/almacen-api/internal/application/catalog"
	"github.com/distrisur/almacen-api/internal/application/ledger"
	"github.com/distrisur/almacen-api/internal/application/sale"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC *catalog.UseCase
	SaleUC    *sale.UseCase
	LedgerUC  *ledger.UseCase
	AlertsUC  *alerts.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo de presentaciones y saldos
	items := api.Group("/stock-items")
	catalogHandler := NewCatalogHandler(deps.CatalogUC, deps.LedgerUC)
	items.Get("/:id/presentations", catalogHandler.ListPresentations)
	items.Post("/:id/presentations", catalogHandler.AddPresentation)
	items.Get("/:id/balance", catalogHandler.Balance)

	// Ventas: simulación (solo lectura) y confirmación (transaccional)
	sales := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/simulate", saleHandler.Simulate)
	sales.Post("/", saleHandler.Commit)

	// Libro de movimientos
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.LedgerUC)
	movements.Get("/", movementHandler.Query)
	movements.Get("/export", movementHandler.Export)
	movements.Post("/entrada", movementHandler.Entrada)
	movements.Post("/asignacion", movementHandler.Asignacion)
	movements.Post("/ajuste", movementHandler.Ajuste)

	// Alertas de criticidad
	alertGroup := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertsUC)
	alertGroup.Get("/stock", alertHandler.Snapshot)
}
