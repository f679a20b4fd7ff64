package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/factura-pro/internal/domain/entity"
	"github.com/tu-usuario/factura-pro/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
// La tabla no tiene UPDATE ni DELETE en ninguna consulta: el libro de
// cobros es append-only también a nivel de adaptador.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `
	id, franchise_id, invoice_id, amount, method, date, reference, notes, created_at, created_by`

// Create inserta un apunte en el libro.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.PaymentRecord) error {
	query := `
		INSERT INTO payment_records (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.FranchiseID, p.InvoiceID, p.Amount, p.Method, p.Date,
		nullIfEmpty(p.Reference), nullIfEmpty(p.Notes), p.CreatedAt, nullIfEmpty(p.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene un apunte, nil si no existe.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.PaymentRecord, error) {
	row := r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payment_records WHERE id = $1`, id)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListByInvoice devuelve el libro de una factura en orden de registro.
func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.PaymentRecord, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_records WHERE invoice_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	return collectPayments(rows)
}

// ListByFranchise devuelve los apuntes de la franquicia paginados, del más
// reciente al más antiguo.
func (r *PaymentRepo) ListByFranchise(ctx context.Context, franchiseID string, limit, offset int) ([]*entity.PaymentRecord, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payment_records
		WHERE franchise_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, franchiseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list payments by franchise: %w", err)
	}
	defer rows.Close()
	return collectPayments(rows)
}

func scanPayment(row pgx.Row) (*entity.PaymentRecord, error) {
	var (
		p         entity.PaymentRecord
		reference *string
		notes     *string
		createdBy *string
	)
	err := row.Scan(&p.ID, &p.FranchiseID, &p.InvoiceID, &p.Amount, &p.Method, &p.Date,
		&reference, &notes, &p.CreatedAt, &createdBy)
	if err != nil {
		return nil, err
	}
	if reference != nil {
		p.Reference = *reference
	}
	if notes != nil {
		p.Notes = *notes
	}
	if createdBy != nil {
		p.CreatedBy = *createdBy
	}
	return &p, nil
}

func collectPayments(rows pgx.Rows) ([]*entity.PaymentRecord, error) {
	var out []*entity.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return out, nil
}
