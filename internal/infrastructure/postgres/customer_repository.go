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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de solo lectura del directorio de clientes.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `
	id, franchise_id, type, fiscal_name, tax_id, address, email, phone, created_at, updated_at`

// GetByID obtiene un cliente, nil si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	row := r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return scanCustomer(row)
}

// GetByFranchiseAndTaxID busca un cliente por identificador fiscal dentro de
// la franquicia.
func (r *CustomerRepo) GetByFranchiseAndTaxID(ctx context.Context, franchiseID, taxID string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE franchise_id = $1 AND tax_id = $2`
	return scanCustomer(r.q.QueryRow(ctx, query, franchiseID, taxID))
}

// ListByFranchise lista los clientes de la franquicia por nombre fiscal.
func (r *CustomerRepo) ListByFranchise(ctx context.Context, franchiseID string, limit, offset int) ([]*entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE franchise_id = $1
		ORDER BY fiscal_name ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, franchiseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return out, nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var (
		c       entity.Customer
		address []byte
		email   *string
		phone   *string
	)
	err := row.Scan(&c.ID, &c.FranchiseID, &c.Type, &c.FiscalName, &c.TaxID,
		&address, &email, &phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	if email != nil {
		c.Email = *email
	}
	if phone != nil {
		c.Phone = *phone
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &c.Address); err != nil {
			return nil, fmt.Errorf("unmarshal address: %w", err)
		}
	}
	return &c, nil
}
