package entity

import "github.com/shopspring/decimal"

// InvoiceLine representa una línea de la factura. Amount, TaxAmount y Total
// son siempre derivados de Quantity, UnitPrice y TaxRate; cualquier edición
// de los campos de entrada debe pasar por Recalculate. Nunca se asignan de
// forma independiente (evita totales obsoletos).
type InvoiceLine struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`   // >= 0
	UnitPrice   decimal.Decimal `json:"unit_price"` // >= 0
	TaxRate     decimal.Decimal `json:"tax_rate"`   // fracción en [0,1], ej. 0.21
	Amount      decimal.Decimal `json:"amount"`     // round2(quantity * unitPrice)
	TaxAmount   decimal.Decimal `json:"tax_amount"` // round2(amount * taxRate)
	Total       decimal.Decimal `json:"total"`      // amount + taxAmount
}

// Recalculate recomputa los tres importes derivados a partir de las entradas.
func (l *InvoiceLine) Recalculate() {
	l.Amount = l.Quantity.Mul(l.UnitPrice).Round(2)
	l.TaxAmount = l.Amount.Mul(l.TaxRate).Round(2)
	l.Total = l.Amount.Add(l.TaxAmount)
}

// Negated devuelve la línea espejo con importes en negativo, tal como se
// copia en una factura rectificativa. Las entradas se conservan para que
// el documento siga siendo legible; solo los importes cambian de signo.
func (l InvoiceLine) Negated(id string) InvoiceLine {
	return InvoiceLine{
		ID:          id,
		Description: l.Description,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		TaxRate:     l.TaxRate,
		Amount:      l.Amount.Neg(),
		TaxAmount:   l.TaxAmount.Neg(),
		Total:       l.Total.Neg(),
	}
}
