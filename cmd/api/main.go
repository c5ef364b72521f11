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

	appbilling "github.com/krlogis/wms-backoffice/internal/application/billing"
	"github.com/krlogis/wms-backoffice/internal/application/usecase"
	infraexport "github.com/krlogis/wms-backoffice/internal/infrastructure/export"
	infrapdf "github.com/krlogis/wms-backoffice/internal/infrastructure/pdf"
	"github.com/krlogis/wms-backoffice/internal/infrastructure/postgres"
	httpRouter "github.com/krlogis/wms-backoffice/internal/interfaces/http"
	"github.com/krlogis/wms-backoffice/pkg/config"
	"github.com/krlogis/wms-backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	rateRepo := postgres.NewExchangeRateRepository(pool)
	eventRepo := postgres.NewBillingEventRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	generateUC := appbilling.NewGenerateInvoiceUseCase(txRunner, clientRepo)
	lifecycleUC := appbilling.NewLifecycleUseCase(txRunner, clientRepo)
	queryUC := appbilling.NewInvoiceQueryUseCase(invoiceRepo, clientRepo)
	eventUC := appbilling.NewEventUseCase(txRunner, eventRepo, clientRepo)
	rateUC := appbilling.NewRateUseCase(txRunner, rateRepo)
	exportUC := appbilling.NewExportUseCase(queryUC, eventRepo,
		infrapdf.NewMarotoPDFGenerator(), infraexport.NewExcelExporter())
	orderUC := usecase.NewOrderUseCase(txRunner, orderRepo, clientRepo)
	clientUC := usecase.NewClientUseCase(clientRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "WMS Back Office API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		GenerateInvoice: generateUC,
		Lifecycle:       lifecycleUC,
		InvoiceQuery:    queryUC,
		Events:          eventUC,
		Rates:           rateUC,
		Export:          exportUC,
		Orders:          orderUC,
		Clients:         clientUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
