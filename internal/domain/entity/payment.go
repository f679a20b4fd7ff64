package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de cobro aceptados.
const (
	MethodTransfer    = "TRANSFER"
	MethodCash        = "CASH"
	MethodCard        = "CARD"
	MethodDirectDebit = "DIRECT_DEBIT"
	MethodOther       = "OTHER"
)

// ValidPaymentMethod indica si el método pertenece al catálogo.
func ValidPaymentMethod(method string) bool {
	switch method {
	case MethodTransfer, MethodCash, MethodCard, MethodDirectDebit, MethodOther:
		return true
	}
	return false
}

// PaymentRecord es un apunte del libro de cobros: se crea una vez y no se
// modifica ni se borra (libro append-only). La factura lo referencia solo
// por ID en PaymentReceiptIDs. Sobre una factura rectificativa el mismo
// mecanismo registra devoluciones al cliente (importes negativos), no
// ingresos.
type PaymentRecord struct {
	ID          string
	FranchiseID string
	InvoiceID   string
	Amount      decimal.Decimal // > 0 en facturas estándar, < 0 en rectificativas
	Method      string
	Date        time.Time
	Reference   string
	Notes       string
	CreatedAt   time.Time
	CreatedBy   string
}
