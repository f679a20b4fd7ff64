package domain

import (
	"errors"
	"fmt"
)

// ErrorKind clasifica los errores de negocio que las operaciones públicas
// devuelven al caller. La capa HTTP traduce cada kind a un status code;
// el motor nunca formatea texto de cara al usuario final.
type ErrorKind string

const (
	KindValidation         ErrorKind = "VALIDATION_ERROR"
	KindInvoiceNotFound    ErrorKind = "INVOICE_NOT_FOUND"
	KindInvoiceNotDraft    ErrorKind = "INVOICE_NOT_DRAFT"
	KindCustomerNotFound   ErrorKind = "CUSTOMER_NOT_FOUND"
	KindPaymentNotFound    ErrorKind = "PAYMENT_NOT_FOUND"
	KindPaymentExceeds     ErrorKind = "PAYMENT_EXCEEDS_TOTAL"
	KindInvalidPayment     ErrorKind = "INVALID_PAYMENT"
	KindAlreadyRectified   ErrorKind = "INVOICE_ALREADY_RECTIFIED"
	KindInvalidRectify     ErrorKind = "INVALID_RECTIFICATION"
	KindCompanyDataMissing ErrorKind = "COMPANY_DATA_MISSING"
	KindNumberingDown      ErrorKind = "NUMBERING_UNAVAILABLE"
	KindDuplicateInvoice   ErrorKind = "DUPLICATE_INVOICE"
	KindPermissionDenied   ErrorKind = "PERMISSION_DENIED"
	KindUnknown            ErrorKind = "UNKNOWN_ERROR"
)

// Error es el error de dominio: kind obligatorio, campo y mensaje opcionales.
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Field)
	}
	return string(e.Kind)
}

// Is compara por Kind, de modo que errors.Is(err, domain.ErrInvoiceNotDraft)
// funciona también con errores enriquecidos con Field/Message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Centinelas de dominio (sin dependencias externas).
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrInvoiceNotFound    = &Error{Kind: KindInvoiceNotFound}
	ErrInvoiceNotDraft    = &Error{Kind: KindInvoiceNotDraft}
	ErrCustomerNotFound   = &Error{Kind: KindCustomerNotFound}
	ErrPaymentNotFound    = &Error{Kind: KindPaymentNotFound}
	ErrPaymentExceeds     = &Error{Kind: KindPaymentExceeds}
	ErrInvalidPayment     = &Error{Kind: KindInvalidPayment}
	ErrAlreadyRectified   = &Error{Kind: KindAlreadyRectified}
	ErrInvalidRectify     = &Error{Kind: KindInvalidRectify}
	ErrCompanyDataMissing = &Error{Kind: KindCompanyDataMissing}
	ErrNumberingDown      = &Error{Kind: KindNumberingDown}
	ErrDuplicateInvoice   = &Error{Kind: KindDuplicateInvoice}
	ErrPermissionDenied   = &Error{Kind: KindPermissionDenied}
	ErrUnknown            = &Error{Kind: KindUnknown}
)

// NewValidationError construye un VALIDATION_ERROR con campo y mensaje.
func NewValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NewError construye un error de dominio de cualquier kind.
func NewError(kind ErrorKind, field, message string) *Error {
	return &Error{Kind: kind, Field: field, Message: message}
}

// KindOf devuelve el ErrorKind de un error, o UNKNOWN_ERROR si no es de dominio.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
