package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/factura-pro/internal/application/dto"
	"github.com/tu-usuario/factura-pro/internal/domain"
)

var validate = validator.New()

// statusFor traduce un ErrorKind de dominio al status HTTP.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindInvalidPayment:
		return fiber.StatusBadRequest
	case domain.KindInvoiceNotFound, domain.KindCustomerNotFound, domain.KindPaymentNotFound:
		return fiber.StatusNotFound
	case domain.KindPermissionDenied:
		return fiber.StatusForbidden
	case domain.KindInvoiceNotDraft, domain.KindAlreadyRectified, domain.KindInvalidRectify,
		domain.KindDuplicateInvoice, domain.KindPaymentExceeds, domain.KindCompanyDataMissing:
		return fiber.StatusConflict
	case domain.KindNumberingDown:
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// respondError serializa cualquier error como ErrorResponse con el status
// que corresponda a su kind.
func respondError(c *fiber.Ctx, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return c.Status(statusFor(de.Kind)).JSON(dto.ErrorResponse{
			Code:    string(de.Kind),
			Field:   de.Field,
			Message: de.Message,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    string(domain.KindUnknown),
		Message: err.Error(),
	})
}

// parseAndValidate decodifica el body y aplica las reglas declaradas en los
// tags validate del DTO.
func parseAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewValidationError("body", "cuerpo inválido")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.NewValidationError(verrs[0].Field(), "no cumple la regla "+verrs[0].Tag())
		}
		return domain.NewValidationError("body", err.Error())
	}
	return nil
}
