package repository

import (
	"context"

	"github.com/tu-usuario/factura-pro/internal/domain/entity"
)

// FranchiseRepository define el puerto de lectura del perfil fiscal del emisor.
type FranchiseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Franchise, error)
}
