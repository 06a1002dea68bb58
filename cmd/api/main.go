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

	appaudit "github.com/arrublas1208/logitrack-api/internal/application/audit"
	"github.com/arrublas1208/logitrack-api/internal/application/auth"
	"github.com/arrublas1208/logitrack-api/internal/application/inventory"
	"github.com/arrublas1208/logitrack-api/internal/application/usecase"
	"github.com/arrublas1208/logitrack-api/internal/infrastructure/postgres"
	httpRouter "github.com/arrublas1208/logitrack-api/internal/interfaces/http"
	"github.com/arrublas1208/logitrack-api/pkg/config"
	"github.com/arrublas1208/logitrack-api/pkg/logger"
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

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	stockRepo := postgres.NewWarehouseStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	returnRepo := postgres.NewReturnRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	auditSink := appaudit.NewRecorder(auditRepo, log)

	movementUC := inventory.NewMovementUseCase(txRunner, movementRepo, warehouseRepo, productRepo, userRepo, auditSink, log)
	stockUC := inventory.NewStockUseCase(txRunner, stockRepo, warehouseRepo, productRepo, auditSink)
	returnUC := inventory.NewReturnUseCase(txRunner, returnRepo, warehouseRepo, productRepo, supplierRepo, batchRepo, userRepo, auditSink, log)
	orderUC := inventory.NewPurchaseOrderUseCase(txRunner, orderRepo, warehouseRepo, productRepo, supplierRepo, userRepo, auditSink, log)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	batchUC := usecase.NewBatchUseCase(batchRepo, productRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	reportUC := usecase.NewReportUseCase(reportRepo)
	auditUC := appaudit.NewQueryUseCase(auditRepo)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "LogiTrack API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		CompanyUC:       companyUC,
		WarehouseUC:     warehouseUC,
		ProductUC:       productUC,
		SupplierUC:      supplierUC,
		BatchUC:         batchUC,
		UserUC:          userUC,
		ReportUC:        reportUC,
		StockUC:         stockUC,
		MovementUC:      movementUC,
		ReturnUC:        returnUC,
		PurchaseOrderUC: orderUC,
		AuditUC:         auditUC,
		JWTSecret:       cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
