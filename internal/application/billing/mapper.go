package billing

import (
	"github.com/tu-usuario/factura-pro/internal/application/dto"
	"github.com/tu-usuario/factura-pro/internal/domain/entity"
)

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	lines := make([]dto.InvoiceLineResponse, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = dto.InvoiceLineResponse{
			ID:          l.ID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			Amount:      l.Amount,
			TaxAmount:   l.TaxAmount,
			Total:       l.Total,
		}
	}

	breakdown := make([]dto.TaxBreakdownResponse, len(inv.TaxBreakdown))
	for i, e := range inv.TaxBreakdown {
		breakdown[i] = dto.TaxBreakdownResponse{
			TaxRate:     e.TaxRate,
			TaxableBase: e.TaxableBase,
			TaxAmount:   e.TaxAmount,
		}
	}

	return &dto.InvoiceResponse{
		ID:          inv.ID,
		FranchiseID: inv.FranchiseID,
		Series:      inv.Series,
		Number:      inv.Number,
		FullNumber:  inv.FullNumber,
		Type:        inv.Type,
		Status:      inv.Status,

		CustomerID:       inv.CustomerID,
		CustomerType:     inv.CustomerType,
		CustomerSnapshot: inv.CustomerSnapshot,
		IssuerSnapshot:   inv.IssuerSnapshot,

		IssueDate:   inv.IssueDate,
		DueDate:     inv.DueDate,
		IssuedAt:    inv.IssuedAt,
		RectifiedAt: inv.RectifiedAt,

		Lines:        lines,
		Subtotal:     inv.Subtotal,
		TaxBreakdown: breakdown,
		Total:        inv.Total,

		PaymentStatus:     inv.PaymentStatus,
		TotalPaid:         inv.TotalPaid,
		RemainingAmount:   inv.RemainingAmount(),
		PaymentReceiptIDs: inv.PaymentReceiptIDs,

		OriginalInvoiceID:    inv.OriginalInvoiceID,
		RectifyingInvoiceIDs: inv.RectifyingInvoiceIDs,
		RectificationReason:  inv.RectificationReason,

		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

func toPaymentResponse(p *entity.PaymentRecord) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Method:    p.Method,
		Date:      p.Date,
		Reference: p.Reference,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		CreatedBy: p.CreatedBy,
	}
}
