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
	"github.com/tu-usuario/factura-pro/pkg/fiscal"
)

var decimalOne = decimal.NewFromInt(1)

// LifecycleUseCase gobierna el ciclo de vida de la factura: borrador,
// edición, emisión con número legal y borrado.
type LifecycleUseCase struct {
	txRunner      BillingTxRunner
	invoiceRepo   repository.InvoiceRepository
	customerRepo  repository.CustomerRepository
	franchiseRepo repository.FranchiseRepository
	log           zerolog.Logger
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	franchiseRepo repository.FranchiseRepository,
	log zerolog.Logger,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		txRunner:      txRunner,
		invoiceRepo:   invoiceRepo,
		customerRepo:  customerRepo,
		franchiseRepo: franchiseRepo,
		log:           log,
	}
}

// CreateDraft crea un borrador de factura estándar para un cliente del
// directorio. El borrador no tiene número legal; los importes se recomputan
// siempre a partir de las líneas recibidas.
func (uc *LifecycleUseCase) CreateDraft(ctx context.Context, franchiseID, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	lines, err := buildLines(in.Lines)
	if err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}
	if customer.FranchiseID != franchiseID {
		return nil, domain.ErrPermissionDenied
	}

	now := time.Now()
	issueDate := in.IssueDate
	if issueDate.IsZero() {
		issueDate = now
	}
	dueDate := in.DueDate
	if dueDate.IsZero() {
		dueDate = issueDate.AddDate(0, 1, 0)
	}
	if dueDate.Before(issueDate) {
		return nil, domain.NewValidationError("due_date", "anterior a la fecha de emisión")
	}

	// Una factura estándar viva (borrador o emitida) por cliente y mes
	// natural: evita duplicar la facturación mensual del mismo restaurante.
	exists, err := uc.invoiceRepo.ExistsActiveForCustomerInMonth(ctx, franchiseID, customer.ID, issueDate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewError(domain.KindDuplicateInvoice, "",
			"ya existe una factura para este cliente en el mismo mes")
	}

	inv := &entity.Invoice{
		ID:               uuid.New().String(),
		FranchiseID:      franchiseID,
		Series:           entity.SeriesStandard,
		Type:             entity.TypeStandard,
		Status:           entity.StatusDraft,
		CustomerID:       customer.ID,
		CustomerType:     customer.Type,
		CustomerSnapshot: customer.Snapshot(),
		IssueDate:        issueDate,
		DueDate:          dueDate,
		Lines:            lines,
		PaymentStatus:    entity.PaymentPending,
		TotalPaid:        decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedBy:        userID,
	}
	domainbilling.Apply(inv)

	if err := uc.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// UpdateDraft edita un borrador: cliente, fechas o líneas. Cualquier cambio
// de líneas recomputa importes y desglose completos.
func (uc *LifecycleUseCase) UpdateDraft(ctx context.Context, franchiseID, invoiceID string, in dto.UpdateDraftRequest) (*dto.InvoiceResponse, error) {
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
	if !inv.IsDraft() {
		return nil, domain.ErrInvoiceNotDraft
	}

	if in.CustomerID != "" && in.CustomerID != inv.CustomerID {
		customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrCustomerNotFound
		}
		if customer.FranchiseID != franchiseID {
			return nil, domain.ErrPermissionDenied
		}
		inv.CustomerID = customer.ID
		inv.CustomerType = customer.Type
		inv.CustomerSnapshot = customer.Snapshot()
	}
	if in.IssueDate != nil {
		inv.IssueDate = *in.IssueDate
	}
	if in.DueDate != nil {
		inv.DueDate = *in.DueDate
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return nil, domain.NewValidationError("due_date", "anterior a la fecha de emisión")
	}
	if in.Lines != nil {
		lines, err := buildLines(in.Lines)
		if err != nil {
			return nil, err
		}
		inv.Lines = lines
	}

	domainbilling.Apply(inv)
	inv.UpdatedAt = time.Now()

	if err := uc.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// IssueInvoice emite un borrador: congela snapshots, reserva el siguiente
// número legal de la serie y deja la factura inmutable. Todo ocurre en una
// transacción con la fila bloqueada; si algo falla, el número reservado se
// revierte y no queda hueco.
func (uc *LifecycleUseCase) IssueInvoice(ctx context.Context, franchiseID, userID, invoiceID string) (*dto.InvoiceResponse, error) {
	issuer, err := uc.issuerSnapshot(ctx, franchiseID)
	if err != nil {
		return nil, err
	}

	var issued *entity.Invoice
	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.PaymentRepository,
		sequenceRepo repository.SequenceRepository,
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
		if !inv.IsDraft() {
			return domain.ErrInvoiceNotDraft
		}
		if len(inv.Lines) == 0 {
			return domain.NewValidationError("lines", "un borrador sin líneas no puede emitirse")
		}

		// El snapshot del cliente se refresca desde el directorio justo
		// antes de congelarlo.
		customer, err := uc.customerRepo.GetByID(ctx, inv.CustomerID)
		if err != nil {
			return err
		}
		if customer != nil {
			inv.CustomerSnapshot = customer.Snapshot()
			inv.CustomerType = customer.Type
		}
		if !inv.CustomerSnapshot.Complete() {
			return domain.NewValidationError("customer", "datos fiscales del cliente incompletos")
		}
		if !fiscal.IsValid(inv.CustomerSnapshot.TaxID) {
			return domain.NewValidationError("customer.tax_id",
				fiscal.Validate(inv.CustomerSnapshot.TaxID).Reason)
		}
		inv.IssuerSnapshot = issuer

		domainbilling.Apply(inv)

		now := time.Now()
		year := inv.IssueDate.Year()
		number, err := sequenceRepo.NextNumber(ctx, franchiseID, inv.Series, year)
		if err != nil {
			return domain.NewError(domain.KindNumberingDown, "", err.Error())
		}

		inv.Number = number
		inv.FullNumber = FormatFullNumber(inv.Series, year, number)
		inv.Status = entity.StatusIssued
		inv.IssuedAt = &now
		inv.IssuedBy = userID
		inv.UpdatedAt = now

		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		issued = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", issued.ID).
		Str("full_number", issued.FullNumber).
		Str("franchise_id", franchiseID).
		Msg("factura emitida")
	return toInvoiceResponse(issued), nil
}

// DeleteDraft elimina un borrador. Las facturas emitidas no se borran jamás
// por esta vía.
func (uc *LifecycleUseCase) DeleteDraft(ctx context.Context, franchiseID, invoiceID string) error {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrInvoiceNotFound
	}
	if inv.FranchiseID != franchiseID {
		return domain.ErrPermissionDenied
	}
	if !inv.IsDraft() {
		return domain.ErrInvoiceNotDraft
	}
	return uc.invoiceRepo.Delete(ctx, invoiceID)
}

// ForceDelete elimina una factura en cualquier estado. Es una herramienta
// administrativa sin ruta HTTP: rompe la numeración sin huecos, así que
// exige una justificación y deja rastro en el log.
func (uc *LifecycleUseCase) ForceDelete(ctx context.Context, franchiseID, userID, invoiceID, reason string) error {
	if len(strings.TrimSpace(reason)) < 20 {
		return domain.NewValidationError("reason", "la justificación debe tener al menos 20 caracteres")
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrInvoiceNotFound
	}
	if inv.FranchiseID != franchiseID {
		return domain.ErrPermissionDenied
	}

	if err := uc.invoiceRepo.Delete(ctx, invoiceID); err != nil {
		return err
	}
	uc.log.Warn().
		Str("invoice_id", invoiceID).
		Str("full_number", inv.FullNumber).
		Str("status", inv.Status).
		Str("franchise_id", franchiseID).
		Str("user_id", userID).
		Str("reason", reason).
		Msg("borrado forzoso de factura")
	return nil
}

// GetInvoice devuelve la factura completa.
func (uc *LifecycleUseCase) GetInvoice(ctx context.Context, franchiseID, invoiceID string) (*dto.InvoiceResponse, error) {
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
	return toInvoiceResponse(inv), nil
}

// ListInvoices lista las facturas de la franquicia con filtros y paginación.
func (uc *LifecycleUseCase) ListInvoices(ctx context.Context, franchiseID string, filter repository.InvoiceFilter, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	invoices, err := uc.invoiceRepo.ListByFranchise(ctx, franchiseID, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.invoiceRepo.CountByFranchise(ctx, franchiseID, filter)
	if err != nil {
		return nil, err
	}

	out := make([]dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = *toInvoiceResponse(inv)
	}
	return &dto.InvoiceListResponse{
		Invoices: out,
		Page:     dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// BulkIssue emite varios borradores. Cada factura se emite en su propia
// transacción: un fallo no frena el resto, se recoge en el resultado.
func (uc *LifecycleUseCase) BulkIssue(ctx context.Context, franchiseID, userID string, in dto.BulkInvoiceRequest) *dto.BulkResultResponse {
	result := &dto.BulkResultResponse{}
	for _, id := range in.InvoiceIDs {
		if _, err := uc.IssueInvoice(ctx, franchiseID, userID, id); err != nil {
			result.Failed = append(result.Failed, dto.BulkFailureDetail{
				InvoiceID: id,
				Code:      string(domain.KindOf(err)),
				Message:   err.Error(),
			})
			continue
		}
		result.Processed++
	}
	return result
}

// BulkDeleteDrafts borra varios borradores con la misma semántica por
// elemento que BulkIssue.
func (uc *LifecycleUseCase) BulkDeleteDrafts(ctx context.Context, franchiseID string, in dto.BulkInvoiceRequest) *dto.BulkResultResponse {
	result := &dto.BulkResultResponse{}
	for _, id := range in.InvoiceIDs {
		if err := uc.DeleteDraft(ctx, franchiseID, id); err != nil {
			result.Failed = append(result.Failed, dto.BulkFailureDetail{
				InvoiceID: id,
				Code:      string(domain.KindOf(err)),
				Message:   err.Error(),
			})
			continue
		}
		result.Processed++
	}
	return result
}

// issuerSnapshot carga el perfil fiscal del emisor y verifica que está
// completo y con identificador fiscal válido.
func (uc *LifecycleUseCase) issuerSnapshot(ctx context.Context, franchiseID string) (entity.FiscalSnapshot, error) {
	franchise, err := uc.franchiseRepo.GetByID(ctx, franchiseID)
	if err != nil {
		return entity.FiscalSnapshot{}, err
	}
	if franchise == nil {
		return entity.FiscalSnapshot{}, domain.ErrCompanyDataMissing
	}
	snap := franchise.Snapshot()
	if !snap.Complete() {
		return entity.FiscalSnapshot{}, domain.NewError(domain.KindCompanyDataMissing, "",
			"perfil fiscal del emisor incompleto")
	}
	if !fiscal.IsValid(snap.TaxID) {
		return entity.FiscalSnapshot{}, domain.NewError(domain.KindCompanyDataMissing, "tax_id",
			fiscal.Validate(snap.TaxID).Reason)
	}
	return snap, nil
}

// buildLines valida las líneas de entrada y construye las del dominio con
// los importes derivados recién calculados.
func buildLines(in []dto.InvoiceLineRequest) ([]entity.InvoiceLine, error) {
	if len(in) == 0 {
		return nil, domain.NewValidationError("lines", "la factura necesita al menos una línea")
	}
	lines := make([]entity.InvoiceLine, len(in))
	for i, req := range in {
		if strings.TrimSpace(req.Description) == "" {
			return nil, domain.NewValidationError("lines.description", "requerido")
		}
		if req.Quantity.IsNegative() {
			return nil, domain.NewValidationError("lines.quantity", "no puede ser negativa")
		}
		if req.UnitPrice.IsNegative() {
			return nil, domain.NewValidationError("lines.unit_price", "no puede ser negativo")
		}
		if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(decimalOne) {
			return nil, domain.NewValidationError("lines.tax_rate", "debe ser una fracción entre 0 y 1")
		}
		lines[i] = domainbilling.ComputeLine(entity.InvoiceLine{
			ID:          uuid.New().String(),
			Description: strings.TrimSpace(req.Description),
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
			TaxRate:     req.TaxRate,
		})
	}
	return lines, nil
}
