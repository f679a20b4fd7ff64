// Package billing contiene el cálculo de importes de factura: totales por
// línea, desglose de impuestos por tasa y conciliación de totales
// almacenados frente a recomputados.
package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/factura-pro/internal/domain/entity"
)

// Tolerance residuo máximo de céntimos admitido al conciliar totales.
var Tolerance = decimal.NewFromFloat(0.01)

// Totals resultado del cálculo sobre el conjunto de líneas.
type Totals struct {
	Subtotal     decimal.Decimal
	TaxBreakdown []entity.TaxBreakdownEntry
	Total        decimal.Decimal
}

// ComputeLine devuelve la línea con sus tres importes derivados recalculados.
// No muta la línea recibida.
func ComputeLine(line entity.InvoiceLine) entity.InvoiceLine {
	line.Recalculate()
	return line
}

// ComputeTotals recalcula cada línea y agrega subtotal, desglose por tasa y
// total. El desglose conserva el orden de primera aparición de cada tasa
// entre las líneas, de forma que el documento es reproducible.
func ComputeTotals(lines []entity.InvoiceLine) ([]entity.InvoiceLine, Totals) {
	out := make([]entity.InvoiceLine, len(lines))
	subtotal := decimal.Zero
	total := decimal.Zero

	breakdown := make([]entity.TaxBreakdownEntry, 0, 2)
	index := make(map[string]int, 2)

	for i, line := range lines {
		line.Recalculate()
		out[i] = line

		subtotal = subtotal.Add(line.Amount)
		total = total.Add(line.Total)

		key := line.TaxRate.String()
		pos, ok := index[key]
		if !ok {
			pos = len(breakdown)
			index[key] = pos
			breakdown = append(breakdown, entity.TaxBreakdownEntry{TaxRate: line.TaxRate})
		}
		breakdown[pos].TaxableBase = breakdown[pos].TaxableBase.Add(line.Amount)
		breakdown[pos].TaxAmount = breakdown[pos].TaxAmount.Add(line.TaxAmount)
	}

	return out, Totals{Subtotal: subtotal, TaxBreakdown: breakdown, Total: total}
}

// SumTotals agrega subtotal, desglose y total a partir de los importes ya
// almacenados en las líneas, sin recomputarlos. Es el camino para líneas
// espejo de una rectificativa, cuyos importes negativos no salen de
// cantidad por precio.
func SumTotals(lines []entity.InvoiceLine) Totals {
	subtotal := decimal.Zero
	total := decimal.Zero

	breakdown := make([]entity.TaxBreakdownEntry, 0, 2)
	index := make(map[string]int, 2)

	for _, line := range lines {
		subtotal = subtotal.Add(line.Amount)
		total = total.Add(line.Total)

		key := line.TaxRate.String()
		pos, ok := index[key]
		if !ok {
			pos = len(breakdown)
			index[key] = pos
			breakdown = append(breakdown, entity.TaxBreakdownEntry{TaxRate: line.TaxRate})
		}
		breakdown[pos].TaxableBase = breakdown[pos].TaxableBase.Add(line.Amount)
		breakdown[pos].TaxAmount = breakdown[pos].TaxAmount.Add(line.TaxAmount)
	}

	return Totals{Subtotal: subtotal, TaxBreakdown: breakdown, Total: total}
}

// Apply recalcula líneas y totales de la factura y los escribe en ella.
func Apply(inv *entity.Invoice) {
	lines, totals := ComputeTotals(inv.Lines)
	inv.Lines = lines
	inv.Subtotal = totals.Subtotal
	inv.TaxBreakdown = totals.TaxBreakdown
	inv.Total = totals.Total
}

// ValidateInvoiceTotals concilia los totales almacenados de la factura con
// los recomputados desde sus líneas. Devuelve un error por cada importe que
// se desvíe más de Tolerance, unidos con errors.Join. Es un chequeo
// consultivo de integridad: un desajuste señala datos corruptos, no un
// fallo del motor.
func ValidateInvoiceTotals(inv *entity.Invoice) error {
	_, totals := ComputeTotals(inv.Lines)

	var errs []error
	if inv.Subtotal.Sub(totals.Subtotal).Abs().GreaterThan(Tolerance) {
		errs = append(errs, fmt.Errorf(
			"subtotal almacenado %s no cuadra con el recomputado %s",
			inv.Subtotal.StringFixed(2), totals.Subtotal.StringFixed(2)))
	}
	if inv.Total.Sub(totals.Total).Abs().GreaterThan(Tolerance) {
		errs = append(errs, fmt.Errorf(
			"total almacenado %s no cuadra con el recomputado %s",
			inv.Total.StringFixed(2), totals.Total.StringFixed(2)))
	}

	stored := sumTaxBreakdown(inv.TaxBreakdown)
	computed := sumTaxBreakdown(totals.TaxBreakdown)
	if stored.Sub(computed).Abs().GreaterThan(Tolerance) {
		errs = append(errs, fmt.Errorf(
			"impuestos almacenados %s no cuadran con los recomputados %s",
			stored.StringFixed(2), computed.StringFixed(2)))
	}

	return errors.Join(errs...)
}

func sumTaxBreakdown(entries []entity.TaxBreakdownEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.TaxAmount)
	}
	return sum
}
