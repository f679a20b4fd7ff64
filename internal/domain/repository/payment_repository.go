package repository

import (
	"context"

	"github.com/tu-usuario/factura-pro/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia del libro de cobros.
// El libro es append-only: no hay Update ni Delete.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.PaymentRecord) error
	GetByID(ctx context.Context, id string) (*entity.PaymentRecord, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.PaymentRecord, error)
	ListByFranchise(ctx context.Context, franchiseID string, limit, offset int) ([]*entity.PaymentRecord, error)
}
