package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/factura-pro/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Lifecycle *billing.LifecycleUseCase
	Payments  *billing.PaymentsUseCase
	Rectify   *billing.RectifyUseCase
	Directory *billing.DirectoryUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Validación fiscal (público, sin estado)
	fiscalHandler := NewFiscalHandler()
	api.Get("/fiscal/validate", fiscalHandler.Validate)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	invoiceHandler := NewInvoiceHandler(deps.Lifecycle, deps.Rectify)
	paymentHandler := NewPaymentHandler(deps.Payments)
	directoryHandler := NewDirectoryHandler(deps.Directory)

	invoices := protected.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/bulk-issue", invoiceHandler.BulkIssue)
	invoices.Post("/bulk-delete", invoiceHandler.BulkDelete)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/issue", invoiceHandler.Issue)
	invoices.Post("/:id/rectify", invoiceHandler.Rectify)
	invoices.Post("/:id/payments", paymentHandler.Add)
	invoices.Get("/:id/payments", paymentHandler.List)

	protected.Get("/debt", paymentHandler.DebtSummary)

	customers := protected.Group("/customers")
	customers.Get("/", directoryHandler.ListCustomers)
	customers.Get("/:id", directoryHandler.GetCustomer)
	customers.Get("/:id/stats", paymentHandler.CustomerStats)

	payments := protected.Group("/payments")
	payments.Get("/", directoryHandler.ListPayments)
	payments.Get("/:id", directoryHandler.GetPayment)

	protected.Get("/series/status", directoryHandler.SeriesStatus)
}
