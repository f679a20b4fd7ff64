package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una factura.
// DRAFT es editable; ISSUED es inmutable salvo el registro de cobros;
// RECTIFIED es terminal absoluto (solo se llega desde ISSUED al emitir
// la factura rectificativa enlazada).
const (
	StatusDraft     = "DRAFT"
	StatusIssued    = "ISSUED"
	StatusRectified = "RECTIFIED"
)

// Tipos de factura.
const (
	TypeStandard      = "STANDARD"
	TypeRectificative = "RECTIFICATIVE"
)

// Estado de cobro, siempre derivado de totalPaid frente a total.
const (
	PaymentPending = "PENDING"
	PaymentPartial = "PARTIAL"
	PaymentPaid    = "PAID"
)

// Tipo de cliente dentro de la red de franquicias.
const (
	CustomerFranchise  = "FRANCHISE"
	CustomerRestaurant = "RESTAURANT"
)

// Series legales de numeración.
const (
	SeriesStandard      = "F"
	SeriesRectificative = "R"
)

// Address dirección postal dentro de un snapshot fiscal.
type Address struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	ZipCode  string `json:"zip_code"`
	Province string `json:"province,omitempty"`
	Country  string `json:"country"`
}

// FiscalSnapshot copia congelada de la identidad fiscal de una parte
// (emisor o cliente) en el momento de emitir. Una vez emitida la factura
// el snapshot no cambia aunque el directorio cambie.
type FiscalSnapshot struct {
	ID         string  `json:"id"`
	FiscalName string  `json:"fiscal_name"`
	TaxID      string  `json:"tax_id"`
	Address    Address `json:"address"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
}

// Complete indica si el snapshot tiene los campos mínimos para emitir.
func (s FiscalSnapshot) Complete() bool {
	return s.FiscalName != "" && s.TaxID != ""
}

// TaxBreakdownEntry desglose de impuestos por tipo: una entrada por cada
// tasa distinta presente entre las líneas de la factura.
type TaxBreakdownEntry struct {
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxableBase decimal.Decimal `json:"taxable_base"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}

// Invoice representa la factura completa: cabecera, líneas embebidas y
// desglose de impuestos. La factura es dueña exclusiva de sus líneas y
// de su desglose; los cobros se referencian solo por ID.
type Invoice struct {
	ID          string
	FranchiseID string
	Series      string
	Number      int64  // asignado solo al emitir
	FullNumber  string // derivado: "SERIE-AÑO-NNNN"
	Type        string // STANDARD | RECTIFICATIVE
	Status      string // DRAFT | ISSUED | RECTIFIED

	CustomerID       string
	CustomerType     string // FRANCHISE | RESTAURANT
	CustomerSnapshot FiscalSnapshot
	IssuerSnapshot   FiscalSnapshot

	IssueDate   time.Time
	DueDate     time.Time
	IssuedAt    *time.Time
	RectifiedAt *time.Time

	Lines        []InvoiceLine
	Subtotal     decimal.Decimal
	TaxBreakdown []TaxBreakdownEntry
	Total        decimal.Decimal

	PaymentStatus     string // PENDING | PARTIAL | PAID — derivado, nunca asignado a mano
	TotalPaid         decimal.Decimal
	PaymentReceiptIDs []string

	OriginalInvoiceID    string   // en la rectificativa: ID de la original
	RectifyingInvoiceIDs []string // en la original: IDs de las rectificativas
	RectificationReason  string

	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	IssuedBy  string
}

// RemainingAmount saldo pendiente, siempre derivado de total y totalPaid.
func (i *Invoice) RemainingAmount() decimal.Decimal {
	return i.Total.Sub(i.TotalPaid)
}

// IsDraft indica si la factura sigue siendo editable.
func (i *Invoice) IsDraft() bool { return i.Status == StatusDraft }

// DerivePaymentStatus recalcula el estado de cobro a partir de los importes.
// tolerance absorbe residuos de céntimos (0.01 en la práctica).
func (i *Invoice) DerivePaymentStatus(tolerance decimal.Decimal) string {
	if i.TotalPaid.IsZero() {
		return PaymentPending
	}
	if i.Total.Sub(i.TotalPaid).Abs().LessThanOrEqual(tolerance) || i.TotalPaid.GreaterThanOrEqual(i.Total) {
		return PaymentPaid
	}
	return PaymentPartial
}
