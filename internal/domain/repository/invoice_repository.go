package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/factura-pro/internal/domain/entity"
)

// InvoiceFilter criterios del listado de facturas de una franquicia.
type InvoiceFilter struct {
	Status        string // DRAFT | ISSUED | RECTIFIED, vacío = todos
	Type          string // STANDARD | RECTIFICATIVE, vacío = todos
	CustomerID    string
	PaymentStatus string
	Year          int
	Limit         int
	Offset        int
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
// La factura se lee y escribe como agregado completo: cabecera, líneas y
// desglose de impuestos viajan juntos.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (*entity.Invoice, error)

	// GetByIDForUpdate lee la factura bloqueando su fila (SELECT ... FOR UPDATE).
	// Se usa dentro de una transacción para serializar emisión, cobros y
	// rectificación sobre la misma factura.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error)

	ListByFranchise(ctx context.Context, franchiseID string, filter InvoiceFilter) ([]*entity.Invoice, error)
	CountByFranchise(ctx context.Context, franchiseID string, filter InvoiceFilter) (int64, error)

	// ExistsActiveForCustomerInMonth indica si ya existe una factura estándar
	// viva (borrador o emitida) para el cliente con fecha de emisión dentro
	// del mes natural dado. Las rectificadas no cuentan.
	ExistsActiveForCustomerInMonth(ctx context.Context, franchiseID, customerID string, month time.Time) (bool, error)

	// ListIssuedWithDebt devuelve las facturas emitidas con saldo pendiente,
	// para el panel de deuda.
	ListIssuedWithDebt(ctx context.Context, franchiseID string) ([]*entity.Invoice, error)

	// ListByCustomer devuelve todas las facturas de un cliente, para sus
	// estadísticas de facturación.
	ListByCustomer(ctx context.Context, franchiseID, customerID string) ([]*entity.Invoice, error)
}
