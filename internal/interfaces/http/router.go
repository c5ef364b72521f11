package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/krlogis/wms-backoffice/internal/application/billing"
	"github.com/krlogis/wms-backoffice/internal/application/usecase"
)

// RouterDeps carries the use cases wired into the router.
type RouterDeps struct {
	GenerateInvoice *billing.GenerateInvoiceUseCase
	Lifecycle       *billing.LifecycleUseCase
	InvoiceQuery    *billing.InvoiceQueryUseCase
	Events          *billing.EventUseCase
	Rates           *billing.RateUseCase
	Export          *billing.ExportUseCase
	Orders          *usecase.OrderUseCase
	Clients         *usecase.ClientUseCase
	JWTSecret       string
}

// Router registers the API routes. Everything under /api requires a Bearer
// token; mutations on rates and invoice lifecycle are role-restricted.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Clients
	clients := api.Group("/clients")
	clientHandler := NewClientHandler(deps.Clients)
	clients.Post("/", RequireRole("admin", "ops"), clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)

	// Exchange rates (finance enters, admin can correct)
	rates := api.Group("/exchange-rates")
	rateHandler := NewExchangeRateHandler(deps.Rates)
	rates.Post("/", RequireRole("admin", "finance"), rateHandler.Create)
	rates.Get("/", rateHandler.List)
	rates.Put("/:id", RequireRole("admin", "finance"), rateHandler.Update)
	rates.Delete("/:id", RequireRole("admin", "finance"), rateHandler.Delete)

	// Billing events
	events := api.Group("/billing-events")
	eventHandler := NewBillingEventHandler(deps.Events)
	exportHandler := NewExportHandler(deps.Export)
	events.Post("/", RequireRole("admin", "ops"), eventHandler.Create)
	events.Get("/", eventHandler.List)
	events.Get("/export", exportHandler.EventsCSV)
	events.Post("/mark-pending", RequireRole("admin", "finance"), eventHandler.MarkPending)

	// Invoices
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.GenerateInvoice, deps.Lifecycle, deps.InvoiceQuery)
	invoices.Post("/generate", RequireRole("admin", "finance"), invoiceHandler.Generate)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", exportHandler.InvoicePDF)
	invoices.Get("/:id/excel", exportHandler.InvoiceExcel)
	invoices.Post("/:id/issue", RequireRole("admin", "finance"), invoiceHandler.Issue)
	invoices.Post("/:id/pay", RequireRole("admin", "finance"), invoiceHandler.MarkPaid)
	invoices.Post("/:id/duplicate", RequireRole("admin"), invoiceHandler.Duplicate)

	// Shipment orders
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.Orders)
	orders.Post("/", RequireRole("admin", "ops"), orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Patch("/:id/status", RequireRole("admin", "ops"), orderHandler.ChangeStatus)
}
