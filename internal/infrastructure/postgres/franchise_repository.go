package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/factura-pro/internal/domain/entity"
	"github.com/tu-usuario/factura-pro/internal/domain/repository"
)

var _ repository.FranchiseRepository = (*FranchiseRepo)(nil)

// FranchiseRepo lectura del perfil fiscal del emisor.
type FranchiseRepo struct {
	q Querier
}

// NewFranchiseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFranchiseRepository(q Querier) *FranchiseRepo {
	return &FranchiseRepo{q: q}
}

// GetByID obtiene el perfil fiscal de la franquicia, nil si no existe.
func (r *FranchiseRepo) GetByID(ctx context.Context, id string) (*entity.Franchise, error) {
	query := `
		SELECT id, fiscal_name, tax_id, address, email, phone, created_at, updated_at
		FROM franchises
		WHERE id = $1`
	var (
		f       entity.Franchise
		address []byte
		email   *string
		phone   *string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.FiscalName, &f.TaxID, &address, &email, &phone, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan franchise: %w", err)
	}
	if email != nil {
		f.Email = *email
	}
	if phone != nil {
		f.Phone = *phone
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &f.Address); err != nil {
			return nil, fmt.Errorf("unmarshal address: %w", err)
		}
	}
	return &f, nil
}
