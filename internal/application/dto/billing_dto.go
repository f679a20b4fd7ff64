package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/factura-pro/internal/domain/entity"
)

// InvoiceLineRequest línea de factura en peticiones de creación/edición.
// Los importes no se aceptan del cliente: siempre se recomputan.
type InvoiceLineRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id" validate:"required"`
	IssueDate  time.Time            `json:"issue_date"`
	DueDate    time.Time            `json:"due_date"`
	Lines      []InvoiceLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdateDraftRequest body para PUT /api/invoices/:id. Solo borradores.
type UpdateDraftRequest struct {
	CustomerID string               `json:"customer_id,omitempty"`
	IssueDate  *time.Time           `json:"issue_date,omitempty"`
	DueDate    *time.Time           `json:"due_date,omitempty"`
	Lines      []InvoiceLineRequest `json:"lines,omitempty" validate:"omitempty,min=1,dive"`
}

// AddPaymentRequest body para POST /api/invoices/:id/payments.
type AddPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" validate:"required,oneof=TRANSFER CASH CARD DIRECT_DEBIT OTHER"`
	Date      time.Time       `json:"date"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// RectifyInvoiceRequest body para POST /api/invoices/:id/rectify.
type RectifyInvoiceRequest struct {
	Reason string `json:"reason" validate:"required,min=20"`
}

// BulkInvoiceRequest body de las operaciones masivas sobre borradores.
type BulkInvoiceRequest struct {
	InvoiceIDs []string `json:"invoice_ids" validate:"required,min=1,dive,required"`
}

// TaxBreakdownResponse entrada del desglose de impuestos en respuestas.
type TaxBreakdownResponse struct {
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxableBase decimal.Decimal `json:"taxable_base"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}

// InvoiceLineResponse línea en respuestas, con los importes derivados.
type InvoiceLineResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Amount      decimal.Decimal `json:"amount"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceResponse factura completa para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID          string `json:"id"`
	FranchiseID string `json:"franchise_id"`
	Series      string `json:"series"`
	Number      int64  `json:"number,omitempty"`
	FullNumber  string `json:"full_number,omitempty"`
	Type        string `json:"type"`
	Status      string `json:"status"`

	CustomerID       string                `json:"customer_id"`
	CustomerType     string                `json:"customer_type"`
	CustomerSnapshot entity.FiscalSnapshot `json:"customer_snapshot"`
	IssuerSnapshot   entity.FiscalSnapshot `json:"issuer_snapshot"`

	IssueDate   time.Time  `json:"issue_date"`
	DueDate     time.Time  `json:"due_date"`
	IssuedAt    *time.Time `json:"issued_at,omitempty"`
	RectifiedAt *time.Time `json:"rectified_at,omitempty"`

	Lines        []InvoiceLineResponse  `json:"lines"`
	Subtotal     decimal.Decimal        `json:"subtotal"`
	TaxBreakdown []TaxBreakdownResponse `json:"tax_breakdown"`
	Total        decimal.Decimal        `json:"total"`

	PaymentStatus     string          `json:"payment_status"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	RemainingAmount   decimal.Decimal `json:"remaining_amount"`
	PaymentReceiptIDs []string        `json:"payment_receipt_ids,omitempty"`

	OriginalInvoiceID    string   `json:"original_invoice_id,omitempty"`
	RectifyingInvoiceIDs []string `json:"rectifying_invoice_ids,omitempty"`
	RectificationReason  string   `json:"rectification_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaymentResponse apunte de cobro en respuestas.
type PaymentResponse struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Date      time.Time       `json:"date"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by,omitempty"`
}

// InvoiceListResponse listado paginado de facturas.
type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Page     PageResponse      `json:"page"`
}

// BulkResultResponse resultado de una operación masiva: cuántos borradores
// se procesaron y cuáles fallaron con su motivo.
type BulkResultResponse struct {
	Processed int                 `json:"processed"`
	Failed    []BulkFailureDetail `json:"failed,omitempty"`
}

// BulkFailureDetail fallo individual dentro de una operación masiva.
type BulkFailureDetail struct {
	InvoiceID string `json:"invoice_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// DebtSummaryResponse panel de deuda de la franquicia.
type DebtSummaryResponse struct {
	TotalOutstanding decimal.Decimal        `json:"total_outstanding"`
	InvoiceCount     int                    `json:"invoice_count"`
	Customers        []CustomerDebtResponse `json:"customers"`
}

// CustomerDebtResponse deuda agregada de un cliente dentro del panel.
type CustomerDebtResponse struct {
	CustomerID   string          `json:"customer_id"`
	FiscalName   string          `json:"fiscal_name"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	InvoiceCount int             `json:"invoice_count"`
	OldestDueAt  *time.Time      `json:"oldest_due_at,omitempty"`
}

// CustomerStatsResponse estadísticas de facturación de un cliente.
type CustomerStatsResponse struct {
	CustomerID    string          `json:"customer_id"`
	InvoiceCount  int             `json:"invoice_count"`
	TotalInvoiced decimal.Decimal `json:"total_invoiced"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	LastInvoiceAt *time.Time      `json:"last_invoice_at,omitempty"`
}

// CustomerResponse cliente del directorio en respuestas.
type CustomerResponse struct {
	ID          string         `json:"id"`
	FranchiseID string         `json:"franchise_id"`
	Type        string         `json:"type"`
	FiscalName  string         `json:"fiscal_name"`
	TaxID       string         `json:"tax_id"`
	Address     entity.Address `json:"address"`
	Email       string         `json:"email,omitempty"`
	Phone       string         `json:"phone,omitempty"`
}

// SeriesStatusResponse estado del contador legal de una serie en un año.
type SeriesStatusResponse struct {
	Series         string `json:"series"`
	Year           int    `json:"year"`
	LastNumber     int64  `json:"last_number"`
	LastFullNumber string `json:"last_full_number,omitempty"`
}

// FiscalIDResponse resultado de validar un identificador fiscal.
type FiscalIDResponse struct {
	Raw        string `json:"raw"`
	Normalized string `json:"normalized"`
	Kind       string `json:"kind"`
	Valid      bool   `json:"valid"`
	Reason     string `json:"reason,omitempty"`
}
