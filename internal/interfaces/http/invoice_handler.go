package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/factura-pro/internal/application/billing"
	"github.com/tu-usuario/factura-pro/internal/application/dto"
	"github.com/tu-usuario/factura-pro/internal/domain/repository"
)

// InvoiceHandler maneja las peticiones HTTP del ciclo de vida de facturas (protegido).
type InvoiceHandler struct {
	lifecycle *billing.LifecycleUseCase
	rectify   *billing.RectifyUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(lifecycle *billing.LifecycleUseCase, rectify *billing.RectifyUseCase) *InvoiceHandler {
	return &InvoiceHandler{lifecycle: lifecycle, rectify: rectify}
}

// Create crea un borrador de factura.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	invoice, err := h.lifecycle.CreateDraft(c.Context(), GetFranchiseID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByID obtiene la factura completa.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.lifecycle.GetInvoice(c.Context(), GetFranchiseID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// List lista facturas con filtros (status, type, customer_id, payment_status, year).
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondError(c, err)
	}
	filter := repository.InvoiceFilter{
		Status:        c.Query("status"),
		Type:          c.Query("type"),
		CustomerID:    c.Query("customer_id"),
		PaymentStatus: c.Query("payment_status"),
		Year:          c.QueryInt("year"),
	}
	list, err := h.lifecycle.ListInvoices(c.Context(), GetFranchiseID(c), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Update edita un borrador.
// PUT /api/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDraftRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	invoice, err := h.lifecycle.UpdateDraft(c.Context(), GetFranchiseID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Delete elimina un borrador.
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.lifecycle.DeleteDraft(c.Context(), GetFranchiseID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Issue emite un borrador asignándole número legal.
// POST /api/invoices/:id/issue
func (h *InvoiceHandler) Issue(c *fiber.Ctx) error {
	invoice, err := h.lifecycle.IssueInvoice(c.Context(), GetFranchiseID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Rectify rectifica una factura emitida y devuelve la rectificativa.
// POST /api/invoices/:id/rectify
func (h *InvoiceHandler) Rectify(c *fiber.Ctx) error {
	var in dto.RectifyInvoiceRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	invoice, err := h.rectify.Rectify(c.Context(), GetFranchiseID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// BulkIssue emite varios borradores; devuelve procesados y fallos.
// POST /api/invoices/bulk-issue
func (h *InvoiceHandler) BulkIssue(c *fiber.Ctx) error {
	var in dto.BulkInvoiceRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.lifecycle.BulkIssue(c.Context(), GetFranchiseID(c), GetUserID(c), in))
}

// BulkDelete borra varios borradores; devuelve procesados y fallos.
// POST /api/invoices/bulk-delete
func (h *InvoiceHandler) BulkDelete(c *fiber.Ctx) error {
	var in dto.BulkInvoiceRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.lifecycle.BulkDeleteDrafts(c.Context(), GetFranchiseID(c), in))
}
