package repository

import (
	"context"

	"github.com/tu-usuario/factura-pro/internal/domain/entity"
)

// CustomerRepository define el puerto de lectura del directorio de clientes.
// El motor solo consulta: el alta y mantenimiento del directorio vive en
// otro sistema.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByFranchiseAndTaxID(ctx context.Context, franchiseID, taxID string) (*entity.Customer, error)
	ListByFranchise(ctx context.Context, franchiseID string, limit, offset int) ([]*entity.Customer, error)
}
