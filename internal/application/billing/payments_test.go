package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/factura-pro/internal/application/dto"
	"github.com/tu-usuario/factura-pro/internal/domain"
	"github.com/tu-usuario/factura-pro/internal/domain/entity"
)

func payment(amount string) dto.AddPaymentRequest {
	return dto.AddPaymentRequest{
		Amount: decimal.RequireFromString(amount),
		Method: entity.MethodTransfer,
	}
}

// ────────────────────────────────────────────────────────────
// Registro de cobros
// ────────────────────────────────────────────────────────────

func TestAddPayment_CobroParcialYTotal(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f) // total 121.00

	_, err := f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("50"))
	require.NoError(t, err)

	stored, _ := f.invoices.GetByID(context.Background(), issued.ID)
	assert.Equal(t, entity.PaymentPartial, stored.PaymentStatus)
	assert.Equal(t, "50.00", stored.TotalPaid.StringFixed(2))
	assert.Equal(t, "71.00", stored.RemainingAmount().StringFixed(2))

	_, err = f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("71"))
	require.NoError(t, err)

	stored, _ = f.invoices.GetByID(context.Background(), issued.ID)
	assert.Equal(t, entity.PaymentPaid, stored.PaymentStatus)
	assert.True(t, stored.RemainingAmount().IsZero())
	assert.Len(t, stored.PaymentReceiptIDs, 2, "cada apunte queda referenciado en la factura")
}

func TestAddPayment_ResiduoDeCentimoCierraLaFactura(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f) // total 121.00

	_, err := f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("120.99"))
	require.NoError(t, err)

	stored, _ := f.invoices.GetByID(context.Background(), issued.ID)
	assert.Equal(t, entity.PaymentPaid, stored.PaymentStatus,
		"un céntimo de diferencia está dentro de la tolerancia")
}

func TestAddPayment_NoSuperaElTotal(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f)

	_, err := f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("121.02"))

	assert.ErrorIs(t, err, domain.ErrPaymentExceeds)
}

func TestAddPayment_FacturaSaldadaRechazaCualquierCobro(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f) // total 121.00

	_, err := f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("121"))
	require.NoError(t, err)

	// Saldada: ni un céntimo más, la tolerancia solo aplica a derivar el
	// estado de cobro, no al tope del acumulado.
	_, err = f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("0.01"))
	assert.ErrorIs(t, err, domain.ErrPaymentExceeds)

	stored, _ := f.invoices.GetByID(context.Background(), issued.ID)
	assert.Equal(t, "121.00", stored.TotalPaid.StringFixed(2))
	assert.True(t, stored.TotalPaid.LessThanOrEqual(stored.Total),
		"totalPaid nunca rebasa el total")
}

func TestAddPayment_DevolucionNoSuperaElSaldoDeLaRectificativa(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f)
	rect, err := f.rectify.Rectify(context.Background(), testFranchiseID, testUserID, issued.ID, dto.RectifyInvoiceRequest{
		Reason: "importe del canon erróneo en el mes de marzo",
	})
	require.NoError(t, err)

	_, err = f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, rect.ID, payment("-121.01"))
	assert.ErrorIs(t, err, domain.ErrPaymentExceeds)

	_, err = f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, rect.ID, payment("-121"))
	require.NoError(t, err)

	_, err = f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, rect.ID, payment("-0.01"))
	assert.ErrorIs(t, err, domain.ErrPaymentExceeds)
}

func TestAddPayment_ImportesYMetodosInvalidos(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f)

	_, err := f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)

	_, err = f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("-10"))
	assert.ErrorIs(t, err, domain.ErrInvalidPayment,
		"una factura estándar no admite importes negativos")

	bad := payment("10")
	bad.Method = "BITCOIN"
	_, err = f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)
}

func TestAddPayment_BorradorNoAdmiteCobros(t *testing.T) {
	f := newFixture()
	draft := mustDraft(t, f)

	_, err := f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, draft.ID, payment("10"))

	assert.ErrorIs(t, err, domain.ErrInvalidPayment)
}

func TestAddPayment_FacturaRectificadaNoAdmiteCobros(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f)
	_, err := f.rectify.Rectify(context.Background(), testFranchiseID, testUserID, issued.ID, dto.RectifyInvoiceRequest{
		Reason: "importe del canon erróneo en el mes de marzo",
	})
	require.NoError(t, err)

	_, err = f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("10"))

	assert.ErrorIs(t, err, domain.ErrInvalidPayment)
}

func TestAddPayment_DevolucionSobreRectificativa(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f)
	rect, err := f.rectify.Rectify(context.Background(), testFranchiseID, testUserID, issued.ID, dto.RectifyInvoiceRequest{
		Reason: "importe del canon erróneo en el mes de marzo",
	})
	require.NoError(t, err)

	// Un ingreso positivo no procede sobre una rectificativa.
	_, err = f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, rect.ID, payment("10"))
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)

	_, err = f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, rect.ID, payment("-121"))
	require.NoError(t, err)

	stored, _ := f.invoices.GetByID(context.Background(), rect.ID)
	assert.Equal(t, entity.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, "-121.00", stored.TotalPaid.StringFixed(2))
}

func TestListPayments_LibroDeLaFactura(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f)
	_, err := f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("50"))
	require.NoError(t, err)
	_, err = f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("30"))
	require.NoError(t, err)

	list, err := f.payments.ListPayments(context.Background(), testFranchiseID, issued.ID)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "50.00", list[0].Amount.StringFixed(2))
	assert.Equal(t, "30.00", list[1].Amount.StringFixed(2))
}

// ────────────────────────────────────────────────────────────
// Panel de deuda y estadísticas
// ────────────────────────────────────────────────────────────

func TestDebtSummary_AgregaPorCliente(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f) // 121.00 pendiente
	_, err := f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("21"))
	require.NoError(t, err)

	summary, err := f.payments.DebtSummary(context.Background(), testFranchiseID)

	require.NoError(t, err)
	assert.Equal(t, "100.00", summary.TotalOutstanding.StringFixed(2))
	assert.Equal(t, 1, summary.InvoiceCount)
	require.Len(t, summary.Customers, 1)
	assert.Equal(t, testCustomerID, summary.Customers[0].CustomerID)
	assert.Equal(t, "100.00", summary.Customers[0].Outstanding.StringFixed(2))
}

func TestDebtSummary_IgnoraPagadasYBorradores(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f)
	mustDraftAt(t, f, time.February)
	_, err := f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("121"))
	require.NoError(t, err)

	summary, err := f.payments.DebtSummary(context.Background(), testFranchiseID)

	require.NoError(t, err)
	assert.True(t, summary.TotalOutstanding.IsZero())
	assert.Zero(t, summary.InvoiceCount)
}

func TestCustomerStats_AcumulaEmitidas(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f)
	mustDraftAt(t, f, time.February) // los borradores no cuentan
	_, err := f.payments.AddPayment(context.Background(), testFranchiseID, testUserID, issued.ID, payment("21"))
	require.NoError(t, err)

	stats, err := f.payments.CustomerStats(context.Background(), testFranchiseID, testCustomerID)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.InvoiceCount)
	assert.Equal(t, "121.00", stats.TotalInvoiced.StringFixed(2))
	assert.Equal(t, "21.00", stats.TotalPaid.StringFixed(2))
	assert.Equal(t, "100.00", stats.Outstanding.StringFixed(2))
	assert.NotNil(t, stats.LastInvoiceAt)
}
