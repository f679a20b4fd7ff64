package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/factura-pro/internal/application/billing"
	"github.com/tu-usuario/factura-pro/internal/application/dto"
)

// DirectoryHandler vistas de solo lectura: clientes, libro de cobros de la
// franquicia y contadores legales (protegido).
type DirectoryHandler struct {
	directory *billing.DirectoryUseCase
}

// NewDirectoryHandler construye el handler.
func NewDirectoryHandler(directory *billing.DirectoryUseCase) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// ListCustomers lista el directorio; con tax_id busca un cliente concreto.
// GET /api/customers
func (h *DirectoryHandler) ListCustomers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondError(c, err)
	}
	customers, err := h.directory.ListCustomers(c.Context(), GetFranchiseID(c), c.Query("tax_id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customers)
}

// GetCustomer obtiene un cliente del directorio.
// GET /api/customers/:id
func (h *DirectoryHandler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.directory.GetCustomer(c.Context(), GetFranchiseID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customer)
}

// ListPayments lista los apuntes del libro de toda la franquicia.
// GET /api/payments
func (h *DirectoryHandler) ListPayments(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondError(c, err)
	}
	payments, err := h.directory.ListFranchisePayments(c.Context(), GetFranchiseID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payments)
}

// GetPayment obtiene un apunte del libro.
// GET /api/payments/:id
func (h *DirectoryHandler) GetPayment(c *fiber.Ctx) error {
	payment, err := h.directory.GetPayment(c.Context(), GetFranchiseID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payment)
}

// SeriesStatus devuelve el último número asignado de una serie.
// GET /api/series/status?series=F&year=2026
func (h *DirectoryHandler) SeriesStatus(c *fiber.Ctx) error {
	status, err := h.directory.SeriesStatus(c.Context(), GetFranchiseID(c), c.Query("series"), c.QueryInt("year"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}
