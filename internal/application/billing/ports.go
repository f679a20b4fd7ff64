package billing

import (
	"context"

	"github.com/tu-usuario/factura-pro/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye
// los repos de facturación. Emisión, cobros y rectificación pasan por aquí:
// el bloqueo de fila y la reserva de número viven en la misma transacción
// que la escritura, de modo que un fallo revierte todo junto.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
		sequenceRepo repository.SequenceRepository,
	) error) error
}
