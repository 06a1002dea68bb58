package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arrublas1208/logitrack-api/internal/application/audit"
	"github.com/arrublas1208/logitrack-api/internal/application/auth"
	"github.com/arrublas1208/logitrack-api/internal/application/inventory"
	"github.com/arrublas1208/logitrack-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	CompanyUC       *usecase.CompanyUseCase
	WarehouseUC     *usecase.WarehouseUseCase
	ProductUC       *usecase.ProductUseCase
	SupplierUC      *usecase.SupplierUseCase
	BatchUC         *usecase.BatchUseCase
	UserUC          *usecase.UserUseCase
	ReportUC        *usecase.ReportUseCase
	StockUC         *inventory.StockUseCase
	MovementUC      *inventory.MovementUseCase
	ReturnUC        *inventory.ReturnUseCase
	PurchaseOrderUC *inventory.PurchaseOrderUseCase
	AuditUC         *audit.QueryUseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies: el alta es pública (onboarding); el resto requiere token.
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	companies := protected.Group("/companies")
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)
	warehouses.Delete("/:id", warehouseHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/sku/:sku", productHandler.GetBySKU)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Batches (protegido)
	batches := protected.Group("/batches")
	batchHandler := NewBatchHandler(deps.BatchUC)
	batches.Post("/", batchHandler.Create)
	batches.Get("/", batchHandler.List)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Put("/:id", batchHandler.Update)
	batches.Delete("/:id", batchHandler.Delete)

	// Stock por bodega (protegido)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Post("/", stockHandler.Create)
	stock.Post("/adjust", stockHandler.Adjust)
	stock.Get("/", stockHandler.List)
	stock.Get("/low", stockHandler.ListLow)
	stock.Get("/product/:productId/total", stockHandler.TotalByProduct)
	stock.Get("/:warehouseId/:productId", stockHandler.Get)
	stock.Put("/:warehouseId/:productId/bounds", stockHandler.UpdateBounds)
	stock.Delete("/:warehouseId/:productId", RequireRole("admin"), stockHandler.Delete)

	// Movements (protegido)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Post("/", movementHandler.Create)
	movements.Get("/", movementHandler.List)
	movements.Get("/latest", movementHandler.Latest)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Delete("/:id", RequireRole("admin"), movementHandler.Delete)

	// Returns (protegido)
	returns := protected.Group("/returns")
	returnHandler := NewReturnHandler(deps.ReturnUC)
	returns.Post("/", returnHandler.Create)
	returns.Get("/", returnHandler.List)
	returns.Get("/number/:number", returnHandler.GetByNumber)
	returns.Get("/:id", returnHandler.GetByID)
	returns.Post("/:id/approve", returnHandler.Approve)
	returns.Post("/:id/complete", returnHandler.Complete)
	returns.Post("/:id/reject", returnHandler.Reject)
	returns.Put("/:id", returnHandler.Update)
	returns.Delete("/:id", RequireRole("admin"), returnHandler.Delete)

	// Purchase orders (protegido)
	orders := protected.Group("/purchase-orders")
	orderHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/number/:number", orderHandler.GetByNumber)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id/state", orderHandler.ChangeState)
	orders.Post("/:id/receive", orderHandler.Receive)
	orders.Delete("/:id", RequireRole("admin"), orderHandler.Delete)

	// Audit (protegido, solo admin)
	auditGroup := protected.Group("/audit", RequireRole("admin"))
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/", auditHandler.Latest)
	auditGroup.Get("/entity/:entity", auditHandler.ListByEntity)

	// Reports (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/summary", reportHandler.Summary)

	// Users (protegido; cambio de estado solo admin)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id/status", RequireRole("admin"), userHandler.SetStatus)
}
