package billing

import (
	"context"
	"strings"
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

// RectifyUseCase anula fiscalmente una factura emitida mediante una
// rectificativa: una factura de la serie R con las líneas en espejo
// negativo, numerada y emitida en el mismo acto.
type RectifyUseCase struct {
	txRunner  BillingTxRunner
	lifecycle *LifecycleUseCase
	log       zerolog.Logger
}

// NewRectifyUseCase construye el caso de uso.
func NewRectifyUseCase(txRunner BillingTxRunner, lifecycle *LifecycleUseCase, log zerolog.Logger) *RectifyUseCase {
	return &RectifyUseCase{txRunner: txRunner, lifecycle: lifecycle, log: log}
}

// Rectify rectifica una factura emitida. La original pasa a RECTIFIED y la
// rectificativa nace ya emitida con su propio número de la serie R; ambas
// quedan enlazadas. Todo en una transacción con la original bloqueada.
func (uc *RectifyUseCase) Rectify(ctx context.Context, franchiseID, userID, invoiceID string, in dto.RectifyInvoiceRequest) (*dto.InvoiceResponse, error) {
	reason := strings.TrimSpace(in.Reason)
	if len(reason) < 20 {
		return nil, domain.NewError(domain.KindInvalidRectify, "reason",
			"el motivo debe tener al menos 20 caracteres")
	}

	issuer, err := uc.lifecycle.issuerSnapshot(ctx, franchiseID)
	if err != nil {
		return nil, err
	}

	var rectifying *entity.Invoice
	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.PaymentRepository,
		sequenceRepo repository.SequenceRepository,
	) error {
		original, err := invoiceRepo.GetByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if original == nil {
			return domain.ErrInvoiceNotFound
		}
		if original.FranchiseID != franchiseID {
			return domain.ErrPermissionDenied
		}
		if original.Status == entity.StatusRectified {
			return domain.ErrAlreadyRectified
		}
		if original.Status != entity.StatusIssued {
			return domain.NewError(domain.KindInvalidRectify, "",
				"solo una factura emitida puede rectificarse")
		}
		if original.Type != entity.TypeStandard {
			return domain.NewError(domain.KindInvalidRectify, "",
				"una rectificativa no puede rectificarse")
		}

		now := time.Now()
		year := now.Year()

		// Espejo negativo de cada línea de la original.
		lines := make([]entity.InvoiceLine, len(original.Lines))
		for i, l := range original.Lines {
			lines[i] = l.Negated(uuid.New().String())
		}
		totals := domainbilling.SumTotals(lines)

		number, err := sequenceRepo.NextNumber(ctx, franchiseID, entity.SeriesRectificative, year)
		if err != nil {
			return domain.NewError(domain.KindNumberingDown, "", err.Error())
		}

		rectifying = &entity.Invoice{
			ID:          uuid.New().String(),
			FranchiseID: franchiseID,
			Series:      entity.SeriesRectificative,
			Number:      number,
			FullNumber:  FormatFullNumber(entity.SeriesRectificative, year, number),
			Type:        entity.TypeRectificative,
			Status:      entity.StatusIssued,

			CustomerID:       original.CustomerID,
			CustomerType:     original.CustomerType,
			CustomerSnapshot: original.CustomerSnapshot,
			IssuerSnapshot:   issuer,

			IssueDate: now,
			DueDate:   now,
			IssuedAt:  &now,

			Lines:        lines,
			Subtotal:     totals.Subtotal,
			TaxBreakdown: totals.TaxBreakdown,
			Total:        totals.Total,

			PaymentStatus: entity.PaymentPending,
			TotalPaid:     decimal.Zero,

			OriginalInvoiceID:   original.ID,
			RectificationReason: reason,

			CreatedAt: now,
			UpdatedAt: now,
			CreatedBy: userID,
			IssuedBy:  userID,
		}
		if err := invoiceRepo.Create(ctx, rectifying); err != nil {
			return err
		}

		original.Status = entity.StatusRectified
		original.RectifiedAt = &now
		original.RectifyingInvoiceIDs = append(original.RectifyingInvoiceIDs, rectifying.ID)
		original.UpdatedAt = now
		return invoiceRepo.Update(ctx, original)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("original_id", invoiceID).
		Str("rectifying_id", rectifying.ID).
		Str("full_number", rectifying.FullNumber).
		Msg("factura rectificada")
	return toInvoiceResponse(rectifying), nil
}
