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

	"github.com/tu-usuario/factura-pro/internal/application/billing"
	"github.com/tu-usuario/factura-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/factura-pro/internal/interfaces/http"
	"github.com/tu-usuario/factura-pro/pkg/config"
	"github.com/tu-usuario/factura-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	franchiseRepo := postgres.NewFranchiseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	sequenceRepo := postgres.NewSequenceRepository(pool)

	lifecycleUC := billing.NewLifecycleUseCase(txRunner, invoiceRepo, customerRepo, franchiseRepo, log.Zerolog())
	paymentsUC := billing.NewPaymentsUseCase(txRunner, invoiceRepo, paymentRepo, log.Zerolog())
	rectifyUC := billing.NewRectifyUseCase(txRunner, lifecycleUC, log.Zerolog())
	directoryUC := billing.NewDirectoryUseCase(customerRepo, paymentRepo, sequenceRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Factura Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Lifecycle: lifecycleUC,
		Payments:  paymentsUC,
		Rectify:   rectifyUC,
		Directory: directoryUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor HTTP")
	}
}
