package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/distrisur/almacen-api/internal/application/alerts"
	"github.com/distrisur/almacen-api/internal/application/catalog"
	appledger "github.com/distrisur/almacen-api/internal/application/ledger"
	"github.com/distrisur/almacen-api/internal/application/sale"
	"github.com/distrisur/almacen-api/internal/domain/entity"
	infrapdf "github.com/distrisur/almacen-api/internal/infrastructure/pdf"
	"github.com/distrisur/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/distrisur/almacen-api/internal/interfaces/http"
	"github.com/distrisur/almacen-api/pkg/config"
	"github.com/distrisur/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewStockItemRepository(pool)
	presRepo := postgres.NewPresentationRepository(pool)
	boxRepo := postgres.NewOpenBoxRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	pdfGen := infrapdf.NewMarotoMovementGenerator()

	catalogUC := catalog.NewUseCase(itemRepo, presRepo)
	saleUC := sale.NewUseCase(txRunner, itemRepo, presRepo, boxRepo, log)
	ledgerUC := appledger.NewUseCase(txRunner, itemRepo, movRepo, boxRepo, pdfGen)
	alertsUC := alerts.NewUseCase(itemRepo, entity.CriticalityThresholds{
		SinStockAt: cfg.Alerts.SinStockAt,
		CriticoAt:  cfg.Alerts.CriticoAt,
		BajoAt:     cfg.Alerts.BajoAt,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC: catalogUC,
		SaleUC:    saleUC,
		LedgerUC:  ledgerUC,
		AlertsUC:  alertsUC,
	})

	// Sondeo periódico de criticidad: registra en el log los productos
	// SIN_STOCK/CRITICO para los tableros de operación.
	pollCtx, stopPoll := context.WithCancel(ctx)
	defer stopPoll()
	if cfg.Alerts.PollInterval > 0 {
		go pollCriticalStock(pollCtx, alertsUC, log, cfg.Alerts.PollInterval)
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopPoll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func pollCriticalStock(ctx context.Context, uc *alerts.UseCase, log *logger.Logger, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		critical, err := uc.CriticalOnly(ctx)
		if err != nil {
			log.Error().Err(err).Msg("sondeo de stock crítico")
			continue
		}
		for _, a := range critical {
			log.Warn().
				Str("stock_item_id", a.StockItemID).
				Str("name", a.Name).
				Int64("total_units", a.TotalUnits).
				Str("level", a.Level).
				Msg("stock en nivel crítico")
		}
	}
}
