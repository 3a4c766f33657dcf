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
	"github.com/jhoicas/Solicitudes-api/internal/application/auth"
	"github.com/jhoicas/Solicitudes-api/internal/application/b2b"
	"github.com/jhoicas/Solicitudes-api/internal/application/pettycash"
	"github.com/jhoicas/Solicitudes-api/internal/application/request"
	"github.com/jhoicas/Solicitudes-api/internal/application/usecase"
	"github.com/jhoicas/Solicitudes-api/internal/infrastructure/mail"
	"github.com/jhoicas/Solicitudes-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Solicitudes-api/internal/interfaces/http"
	"github.com/jhoicas/Solicitudes-api/pkg/config"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
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

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	opTypeRepo := postgres.NewOperationTypeRepository(pool)
	requestRepo := postgres.NewPurchaseRequestRepository(pool)
	lineRepo := postgres.NewRequestLineRepository(pool)
	allocationRepo := postgres.NewAllocationRepository(pool)
	pickingRepo := postgres.NewPickingRepository(pool)
	moveRepo := postgres.NewStockMoveRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	purchaseLineRepo := postgres.NewPurchaseLineRepository(pool)
	noteRepo := postgres.NewRequestNoteRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	categoryRepo := postgres.NewB2BCategoryRepository(pool)
	notifyLogRepo := postgres.NewB2BNotificationLogRepository(pool)
	spendRepo := postgres.NewCustomerSpendRepository(pool)
	pettyCashRepo := postgres.NewPettyCashRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	mailer := mail.NewSender(cfg.SMTP, log)

	requestUC := request.NewUseCase(request.Deps{
		Tx:            txRunner,
		Requests:      requestRepo,
		Lines:         lineRepo,
		Allocations:   allocationRepo,
		Users:         userRepo,
		Products:      productRepo,
		Locations:     locationRepo,
		OpTypes:       opTypeRepo,
		Warehouses:    warehouseRepo,
		Stocks:        stockRepo,
		Pickings:      pickingRepo,
		Moves:         moveRepo,
		PurchaseLines: purchaseLineRepo,
		Notes:         noteRepo,
		Settings:      settingsRepo,
		Mailer:        mailer,
		Log:           log,
	})

	categoryUC := b2b.NewCategoryUseCase(categoryRepo)
	b2bJob := b2b.NewCategorizeUseCase(
		customerRepo, categoryRepo, spendRepo, notifyLogRepo,
		settingsRepo, mailer, log,
	)
	pettyCashUC := pettycash.NewUseCase(pettyCashRepo, userRepo, log)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, userRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Job de categorización B2B en segundo plano. El endpoint /api/b2b/run
	// permite forzar una corrida aunque el job esté deshabilitado.
	jobCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	if cfg.Jobs.B2BEnabled {
		dispatcher := b2b.NewDispatcher(b2bJob, companyRepo, log, cfg.Jobs.B2BInterval)
		go dispatcher.Run(jobCtx)
	}

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
		Title:    "Solicitudes API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   companyUC,
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		CustomerUC:  customerUC,
		UserUC:      userUC,
		RequestUC:   requestUC,
		CategoryUC:  categoryUC,
		B2BJob:      b2bJob,
		PettyCashUC: pettyCashUC,
		Settings:    settingsRepo,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
