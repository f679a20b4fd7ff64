package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/factura-pro/internal/application/dto"
	"github.com/tu-usuario/factura-pro/internal/domain"
	"github.com/tu-usuario/factura-pro/internal/domain/entity"
)

const rectifyReason = "importe del canon erróneo en el mes de marzo"

func mustRectify(t *testing.T, f *fixture, invoiceID string) *dto.InvoiceResponse {
	t.Helper()
	rect, err := f.rectify.Rectify(context.Background(), testFranchiseID, testUserID, invoiceID,
		dto.RectifyInvoiceRequest{Reason: rectifyReason})
	require.NoError(t, err)
	return rect
}

func TestRectify_EspejoNegativoEnlazado(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f) // 100.00 + 21.00 IVA
	year := time.Now().Year()

	rect := mustRectify(t, f, issued.ID)

	assert.Equal(t, entity.TypeRectificative, rect.Type)
	assert.Equal(t, entity.StatusIssued, rect.Status, "la rectificativa nace emitida")
	assert.Equal(t, entity.SeriesRectificative, rect.Series)
	assert.Equal(t, FormatFullNumber("R", year, 1), rect.FullNumber)
	assert.Equal(t, rectifyReason, rect.RectificationReason)

	// Importes en espejo negativo, entradas legibles intactas.
	require.Len(t, rect.Lines, 1)
	assert.Equal(t, "2", rect.Lines[0].Quantity.String())
	assert.Equal(t, "50", rect.Lines[0].UnitPrice.String())
	assert.Equal(t, "-100.00", rect.Lines[0].Amount.StringFixed(2))
	assert.Equal(t, "-121.00", rect.Total.StringFixed(2))
	assert.Equal(t, "-100.00", rect.Subtotal.StringFixed(2))
	require.Len(t, rect.TaxBreakdown, 1)
	assert.Equal(t, "-21.00", rect.TaxBreakdown[0].TaxAmount.StringFixed(2))

	// Enlace en ambos sentidos y estado terminal de la original.
	assert.Equal(t, issued.ID, rect.OriginalInvoiceID)
	original, _ := f.invoices.GetByID(context.Background(), issued.ID)
	assert.Equal(t, entity.StatusRectified, original.Status)
	assert.NotNil(t, original.RectifiedAt)
	assert.Equal(t, []string{rect.ID}, original.RectifyingInvoiceIDs)
}

func TestRectify_SerieRPropiaYCorrelativa(t *testing.T) {
	f := newFixture()
	first := mustIssuedAt(t, f, time.January)
	second := mustIssuedAt(t, f, time.February)
	year := time.Now().Year()

	r1 := mustRectify(t, f, first.ID)
	r2 := mustRectify(t, f, second.ID)

	assert.Equal(t, FormatFullNumber("R", year, 1), r1.FullNumber)
	assert.Equal(t, FormatFullNumber("R", year, 2), r2.FullNumber)
	// La serie F no se ve afectada por la numeración de la serie R.
	assert.Equal(t, int64(2), second.Number)
}

func TestRectify_SoloUnaVez(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f)
	mustRectify(t, f, issued.ID)

	_, err := f.rectify.Rectify(context.Background(), testFranchiseID, testUserID, issued.ID,
		dto.RectifyInvoiceRequest{Reason: rectifyReason})

	assert.ErrorIs(t, err, domain.ErrAlreadyRectified)
}

func TestRectify_BorradorNoEsRectificable(t *testing.T) {
	f := newFixture()
	draft := mustDraft(t, f)

	_, err := f.rectify.Rectify(context.Background(), testFranchiseID, testUserID, draft.ID,
		dto.RectifyInvoiceRequest{Reason: rectifyReason})

	assert.ErrorIs(t, err, domain.ErrInvalidRectify)
}

func TestRectify_RectificativaNoEsRectificable(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f)
	rect := mustRectify(t, f, issued.ID)

	_, err := f.rectify.Rectify(context.Background(), testFranchiseID, testUserID, rect.ID,
		dto.RectifyInvoiceRequest{Reason: rectifyReason})

	assert.ErrorIs(t, err, domain.ErrInvalidRectify)
}

func TestRectify_MotivoDemasiadoCorto(t *testing.T) {
	f := newFixture()
	issued := mustIssued(t, f)

	_, err := f.rectify.Rectify(context.Background(), testFranchiseID, testUserID, issued.ID,
		dto.RectifyInvoiceRequest{Reason: "error de importe"})

	assert.ErrorIs(t, err, domain.ErrInvalidRectify)
}

func TestRectify_FacturaInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.rectify.Rectify(context.Background(), testFranchiseID, testUserID, "no-existe",
		dto.RectifyInvoiceRequest{Reason: rectifyReason})

	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}
