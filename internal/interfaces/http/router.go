package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/auth"
	"github.com/jhoicas/Solicitudes-api/internal/application/b2b"
	"github.com/jhoicas/Solicitudes-api/internal/application/pettycash"
	"github.com/jhoicas/Solicitudes-api/internal/application/request"
	"github.com/jhoicas/Solicitudes-api/internal/application/usecase"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CompanyUC   *usecase.CompanyUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	CustomerUC  *usecase.CustomerUseCase
	UserUC      *usecase.UserUseCase
	RequestUC   *request.UseCase
	CategoryUC  *b2b.CategoryUseCase
	B2BJob      *b2b.CategorizeUseCase
	PettyCashUC *pettycash.UseCase
	Settings    repository.SettingsRepository
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; el alta de empresa precede al primer usuario)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Users (protegido, solo lectura)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)

	// Solicitudes de compra y su flujo (protegido). El control fino por rol
	// vive en los casos de uso; el router solo exige un token válido.
	requests := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.RequestUC)
	transferHandler := NewTransferHandler(deps.RequestUC)
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.Get)
	requests.Delete("/:id", requestHandler.Delete)
	requests.Post("/:id/duplicate", requestHandler.Duplicate)
	requests.Post("/:id/submit", requestHandler.Submit)
	requests.Post("/:id/approve", requestHandler.Approve)
	requests.Post("/:id/reject", requestHandler.Reject)
	requests.Post("/:id/start", requestHandler.Start)
	requests.Post("/:id/done", requestHandler.Done)
	requests.Post("/:id/confirm-done", requestHandler.ConfirmDone)
	requests.Post("/:id/hold", requestHandler.Hold)
	requests.Post("/:id/resume", requestHandler.Resume)
	requests.Post("/:id/reset", requestHandler.ResetToDraft)
	requests.Get("/:id/notes", requestHandler.Notes)
	requests.Get("/:id/availability", transferHandler.Availability)
	requests.Post("/:id/transfers", transferHandler.Create)

	// Líneas de solicitud y de compra (protegido)
	purchaseHandler := NewPurchaseHandler(deps.RequestUC)
	lines := protected.Group("/request-lines")
	lines.Post("/:lineId/cancel", requestHandler.CancelLine)
	lines.Post("/:lineId/uncancel", requestHandler.UncancelLine)
	lines.Post("/:lineId/allocate", purchaseHandler.Allocate)
	purchaseLines := protected.Group("/purchase-lines")
	purchaseLines.Post("/:id/receive", purchaseHandler.Receive)
	purchaseLines.Put("/:id/state", purchaseHandler.SetState)

	// Transferencias internas (protegido)
	transfers := protected.Group("/transfers")
	transfers.Post("/:id/validate", transferHandler.Validate)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Categorización B2B (protegido)
	b2bGroup := protected.Group("/b2b")
	b2bHandler := NewB2BHandler(deps.CategoryUC, deps.B2BJob)
	b2bGroup.Post("/categories", b2bHandler.CreateCategory)
	b2bGroup.Get("/categories", b2bHandler.ListCategories)
	b2bGroup.Put("/categories/:id", b2bHandler.UpdateCategory)
	b2bGroup.Delete("/categories/:id", b2bHandler.DeleteCategory)
	b2bGroup.Post("/run", b2bHandler.Run)

	// Caja menor (protegido)
	petty := protected.Group("/petty-cash")
	pettyHandler := NewPettyCashHandler(deps.PettyCashUC)
	petty.Post("/", pettyHandler.Create)
	petty.Get("/", pettyHandler.List)
	petty.Get("/report", pettyHandler.Report)
	petty.Get("/:id", pettyHandler.Get)
	petty.Post("/:id/open", pettyHandler.Open)
	petty.Post("/:id/close", pettyHandler.Close)
	petty.Post("/:id/allocate", pettyHandler.Allocate)
	petty.Post("/:id/expense", pettyHandler.Expense)

	// Parámetros de negocio (protegido, solo admin)
	settings := protected.Group("/settings", RequireRole(string(role.Admin)))
	settingsHandler := NewSettingsHandler(deps.Settings)
	settings.Get("/:key", settingsHandler.Get)
	settings.Put("/:key", settingsHandler.Set)
}
