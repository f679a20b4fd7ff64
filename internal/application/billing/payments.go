package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/factura-pro/internal/application/dto"
	"github.com/tu-usuario/factura-pro/internal/domain"
	domainbilling "github.com/tu-usuario/factura-pro/internal/domain/billing"
	"github.com/tu-usuario/factura-pro/internal/domain/entity"
	"github.com/tu-usuario/factura-pro/internal/domain/repository"
)

// PaymentsUseCase gestiona el libro de cobros y las vistas de deuda.
type PaymentsUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	log         zerolog.Logger
}

// NewPaymentsUseCase construye el caso de uso.
func NewPaymentsUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	log zerolog.Logger,
) *PaymentsUseCase {
	return &PaymentsUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		log:         log,
	}
}

// AddPayment registra un cobro sobre una factura emitida. El apunte y la
// actualización de la factura van en la misma transacción, con la fila de
// la factura bloqueada para que dos cobros simultáneos no se pisen.
// Sobre una rectificativa el importe debe ser negativo (devolución).
func (uc *PaymentsUseCase) AddPayment(ctx context.Context, franchiseID, userID, invoiceID string, in dto.AddPaymentRequest) (*dto.PaymentResponse, error) {
	if in.Amount.IsZero() {
		return nil, domain.NewError(domain.KindInvalidPayment, "amount", "no puede ser cero")
	}
	if !entity.ValidPaymentMethod(in.Method) {
		return nil, domain.NewError(domain.KindInvalidPayment, "method", "método desconocido")
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	var payment *entity.PaymentRecord
	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
		_ repository.SequenceRepository,
	) error {
		inv, err := invoiceRepo.GetByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		if inv.FranchiseID != franchiseID {
			return domain.ErrPermissionDenied
		}
		switch inv.Status {
		case entity.StatusDraft:
			return domain.NewError(domain.KindInvalidPayment, "", "un borrador no admite cobros")
		case entity.StatusRectified:
			return domain.NewError(domain.KindInvalidPayment, "",
				"la factura fue rectificada; los movimientos van sobre la rectificativa")
		}

		// El apunte nunca supera el saldo pendiente: totalPaid jamás rebasa
		// el total, ni siquiera por un céntimo.
		remaining := inv.RemainingAmount()
		if inv.Type == entity.TypeRectificative {
			if in.Amount.IsPositive() {
				return domain.NewError(domain.KindInvalidPayment, "amount",
					"sobre una rectificativa solo se registran devoluciones (importe negativo)")
			}
			if in.Amount.LessThan(remaining) {
				return domain.NewError(domain.KindPaymentExceeds, "amount",
					"la devolución supera el saldo pendiente de la rectificativa")
			}
		} else {
			if in.Amount.IsNegative() {
				return domain.NewError(domain.KindInvalidPayment, "amount", "debe ser mayor que cero")
			}
			if in.Amount.GreaterThan(remaining) {
				return domain.NewError(domain.KindPaymentExceeds, "amount",
					"el cobro supera el saldo pendiente de la factura")
			}
		}
		newTotalPaid := inv.TotalPaid.Add(in.Amount)

		now := time.Now()
		payment = &entity.PaymentRecord{
			ID:          uuid.New().String(),
			FranchiseID: franchiseID,
			InvoiceID:   inv.ID,
			Amount:      in.Amount,
			Method:      in.Method,
			Date:        date,
			Reference:   in.Reference,
			Notes:       in.Notes,
			CreatedAt:   now,
			CreatedBy:   userID,
		}
		if err := paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		inv.TotalPaid = newTotalPaid
		inv.PaymentReceiptIDs = append(inv.PaymentReceiptIDs, payment.ID)
		inv.PaymentStatus = inv.DerivePaymentStatus(domainbilling.Tolerance)
		inv.UpdatedAt = now
		return invoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", invoiceID).
		Str("payment_id", payment.ID).
		Str("amount", payment.Amount.StringFixed(2)).
		Msg("cobro registrado")
	return toPaymentResponse(payment), nil
}

// ListPayments devuelve el libro de cobros de una factura, en orden de registro.
func (uc *PaymentsUseCase) ListPayments(ctx context.Context, franchiseID, invoiceID string) ([]dto.PaymentResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	if inv.FranchiseID != franchiseID {
		return nil, domain.ErrPermissionDenied
	}

	payments, err := uc.paymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = *toPaymentResponse(p)
	}
	return out, nil
}

// DebtSummary construye el panel de deuda: facturas emitidas con saldo
// pendiente agregadas por cliente, ordenadas por deuda descendente.
func (uc *PaymentsUseCase) DebtSummary(ctx context.Context, franchiseID string) (*dto.DebtSummaryResponse, error) {
	invoices, err := uc.invoiceRepo.ListIssuedWithDebt(ctx, franchiseID)
	if err != nil {
		return nil, err
	}

	summary := &dto.DebtSummaryResponse{TotalOutstanding: decimal.Zero}
	index := make(map[string]int)
	for _, inv := range invoices {
		remaining := inv.RemainingAmount()
		summary.TotalOutstanding = summary.TotalOutstanding.Add(remaining)
		summary.InvoiceCount++

		pos, ok := index[inv.CustomerID]
		if !ok {
			pos = len(summary.Customers)
			index[inv.CustomerID] = pos
			summary.Customers = append(summary.Customers, dto.CustomerDebtResponse{
				CustomerID:  inv.CustomerID,
				FiscalName:  inv.CustomerSnapshot.FiscalName,
				Outstanding: decimal.Zero,
			})
		}
		c := &summary.Customers[pos]
		c.Outstanding = c.Outstanding.Add(remaining)
		c.InvoiceCount++
		due := inv.DueDate
		if c.OldestDueAt == nil || due.Before(*c.OldestDueAt) {
			c.OldestDueAt = &due
		}
	}

	// Orden por deuda descendente, estable para clientes empatados.
	for i := 1; i < len(summary.Customers); i++ {
		for j := i; j > 0 && summary.Customers[j].Outstanding.GreaterThan(summary.Customers[j-1].Outstanding); j-- {
			summary.Customers[j], summary.Customers[j-1] = summary.Customers[j-1], summary.Customers[j]
		}
	}
	return summary, nil
}

// CustomerStats agrega la facturación histórica de un cliente.
func (uc *PaymentsUseCase) CustomerStats(ctx context.Context, franchiseID, customerID string) (*dto.CustomerStatsResponse, error) {
	invoices, err := uc.invoiceRepo.ListByCustomer(ctx, franchiseID, customerID)
	if err != nil {
		return nil, err
	}

	stats := &dto.CustomerStatsResponse{
		CustomerID:    customerID,
		TotalInvoiced: decimal.Zero,
		TotalPaid:     decimal.Zero,
		Outstanding:   decimal.Zero,
	}
	for _, inv := range invoices {
		if inv.IsDraft() {
			continue
		}
		stats.InvoiceCount++
		stats.TotalInvoiced = stats.TotalInvoiced.Add(inv.Total)
		stats.TotalPaid = stats.TotalPaid.Add(inv.TotalPaid)
		if inv.Status == entity.StatusIssued {
			stats.Outstanding = stats.Outstanding.Add(inv.RemainingAmount())
		}
		if inv.IssuedAt != nil && (stats.LastInvoiceAt == nil || inv.IssuedAt.After(*stats.LastInvoiceAt)) {
			t := *inv.IssuedAt
			stats.LastInvoiceAt = &t
		}
	}
	return stats, nil
}
