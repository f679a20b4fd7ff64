package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/factura-pro/internal/application/dto"
	"github.com/tu-usuario/factura-pro/internal/domain"
	"github.com/tu-usuario/factura-pro/pkg/fiscal"
)

// FiscalHandler valida identificadores fiscales (NIF/NIE/CIF) sin tocar la DB.
type FiscalHandler struct{}

// NewFiscalHandler construye el handler.
func NewFiscalHandler() *FiscalHandler {
	return &FiscalHandler{}
}

// Validate clasifica y valida un identificador fiscal.
// GET /api/fiscal/validate?tax_id=B12345674
func (h *FiscalHandler) Validate(c *fiber.Ctx) error {
	taxID := c.Query("tax_id")
	if taxID == "" {
		return respondError(c, domain.NewValidationError("tax_id", "requerido"))
	}
	id := fiscal.Validate(taxID)
	return c.JSON(dto.FiscalIDResponse{
		Raw:        id.Raw,
		Normalized: id.Normalized,
		Kind:       id.Kind,
		Valid:      id.Valid,
		Reason:     id.Reason,
	})
}
