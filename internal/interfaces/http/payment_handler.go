package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/factura-pro/internal/application/billing"
	"github.com/tu-usuario/factura-pro/internal/application/dto"
)

// PaymentHandler maneja el libro de cobros y las vistas de deuda (protegido).
type PaymentHandler struct {
	payments *billing.PaymentsUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(payments *billing.PaymentsUseCase) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Add registra un cobro sobre una factura emitida.
// POST /api/invoices/:id/payments
func (h *PaymentHandler) Add(c *fiber.Ctx) error {
	var in dto.AddPaymentRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	payment, err := h.payments.AddPayment(c.Context(), GetFranchiseID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// List devuelve el libro de cobros de una factura.
// GET /api/invoices/:id/payments
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	payments, err := h.payments.ListPayments(c.Context(), GetFranchiseID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payments)
}

// DebtSummary devuelve el panel de deuda agregado por cliente.
// GET /api/debt
func (h *PaymentHandler) DebtSummary(c *fiber.Ctx) error {
	summary, err := h.payments.DebtSummary(c.Context(), GetFranchiseID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// CustomerStats devuelve las estadísticas de facturación de un cliente.
// GET /api/customers/:id/stats
func (h *PaymentHandler) CustomerStats(c *fiber.Ctx) error {
	stats, err := h.payments.CustomerStats(c.Context(), GetFranchiseID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
