package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/factura-pro/internal/domain/entity"
	"github.com/tu-usuario/factura-pro/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// La factura se guarda como agregado: líneas, snapshots y desglose viajan
// en columnas JSONB de la misma fila, así la lectura y el bloqueo de fila
// cubren el documento completo.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, franchise_id, series, number, full_number, type, status,
	customer_id, customer_type, customer_snapshot, issuer_snapshot,
	issue_date, due_date, issued_at, rectified_at,
	lines, subtotal, tax_breakdown, total,
	payment_status, total_paid, payment_receipt_ids,
	original_invoice_id, rectifying_invoice_ids, rectification_reason,
	created_at, updated_at, created_by, issued_by`

// Create persiste la factura completa.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	lines, breakdown, customerSnap, issuerSnap, err := marshalInvoiceDocs(inv)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.FranchiseID, inv.Series, nilIfZero(inv.Number), nullIfEmpty(inv.FullNumber),
		inv.Type, inv.Status,
		inv.CustomerID, inv.CustomerType, customerSnap, issuerSnap,
		inv.IssueDate, inv.DueDate, inv.IssuedAt, inv.RectifiedAt,
		lines, inv.Subtotal, breakdown, inv.Total,
		inv.PaymentStatus, inv.TotalPaid, inv.PaymentReceiptIDs,
		nullIfEmpty(inv.OriginalInvoiceID), inv.RectifyingInvoiceIDs, nullIfEmpty(inv.RectificationReason),
		inv.CreatedAt, inv.UpdatedAt, nullIfEmpty(inv.CreatedBy), nullIfEmpty(inv.IssuedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número legal ya asignado: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update reescribe la factura completa.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	lines, breakdown, customerSnap, issuerSnap, err := marshalInvoiceDocs(inv)
	if err != nil {
		return err
	}
	query := `
		UPDATE invoices
		SET series = $2, number = $3, full_number = $4, type = $5, status = $6,
		    customer_id = $7, customer_type = $8, customer_snapshot = $9, issuer_snapshot = $10,
		    issue_date = $11, due_date = $12, issued_at = $13, rectified_at = $14,
		    lines = $15, subtotal = $16, tax_breakdown = $17, total = $18,
		    payment_status = $19, total_paid = $20, payment_receipt_ids = $21,
		    original_invoice_id = $22, rectifying_invoice_ids = $23, rectification_reason = $24,
		    updated_at = $25, issued_by = $26
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.Series, nilIfZero(inv.Number), nullIfEmpty(inv.FullNumber), inv.Type, inv.Status,
		inv.CustomerID, inv.CustomerType, customerSnap, issuerSnap,
		inv.IssueDate, inv.DueDate, inv.IssuedAt, inv.RectifiedAt,
		lines, inv.Subtotal, breakdown, inv.Total,
		inv.PaymentStatus, inv.TotalPaid, inv.PaymentReceiptIDs,
		nullIfEmpty(inv.OriginalInvoiceID), inv.RectifyingInvoiceIDs, nullIfEmpty(inv.RectificationReason),
		inv.UpdatedAt, nullIfEmpty(inv.IssuedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número legal ya asignado: %w", err)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update invoice: no existe %s", inv.ID)
	}
	return nil
}

// Delete elimina la factura.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// GetByID obtiene la factura completa, nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	row := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	return scanInvoice(row)
}

// GetByIDForUpdate obtiene la factura bloqueando su fila hasta el fin de la
// transacción.
func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	row := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
	return scanInvoice(row)
}

// ListByFranchise lista facturas con filtros y paginación, de la más reciente
// a la más antigua.
func (r *InvoiceRepo) ListByFranchise(ctx context.Context, franchiseID string, filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	where, args := buildInvoiceFilter(franchiseID, filter)
	query := `SELECT ` + invoiceColumns + ` FROM invoices ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// CountByFranchise cuenta facturas con los mismos filtros del listado.
func (r *InvoiceRepo) CountByFranchise(ctx context.Context, franchiseID string, filter repository.InvoiceFilter) (int64, error) {
	where, args := buildInvoiceFilter(franchiseID, filter)
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return total, nil
}

// ExistsActiveForCustomerInMonth indica si hay una factura estándar viva
// (borrador o emitida) del cliente con emisión en el mismo mes natural.
func (r *InvoiceRepo) ExistsActiveForCustomerInMonth(ctx context.Context, franchiseID, customerID string, month time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM invoices
			WHERE franchise_id = $1 AND customer_id = $2
			  AND status IN ($3, $4) AND type = $5
			  AND date_trunc('month', issue_date) = date_trunc('month', $6::timestamptz)
		)`
	var exists bool
	err := r.q.QueryRow(ctx, query,
		franchiseID, customerID, entity.StatusDraft, entity.StatusIssued, entity.TypeStandard, month,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists invoice in month: %w", err)
	}
	return exists, nil
}

// ListIssuedWithDebt devuelve las facturas emitidas con saldo pendiente.
func (r *InvoiceRepo) ListIssuedWithDebt(ctx context.Context, franchiseID string) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE franchise_id = $1 AND status = $2 AND total - total_paid > 0
		ORDER BY due_date ASC`
	rows, err := r.q.Query(ctx, query, franchiseID, entity.StatusIssued)
	if err != nil {
		return nil, fmt.Errorf("list invoices with debt: %w", err)
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// ListByCustomer devuelve todas las facturas de un cliente.
func (r *InvoiceRepo) ListByCustomer(ctx context.Context, franchiseID, customerID string) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE franchise_id = $1 AND customer_id = $2
		ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, franchiseID, customerID)
	if err != nil {
		return nil, fmt.Errorf("list invoices by customer: %w", err)
	}
	defer rows.Close()
	return collectInvoices(rows)
}

func buildInvoiceFilter(franchiseID string, filter repository.InvoiceFilter) (string, []any) {
	where := `WHERE franchise_id = $1`
	args := []any{franchiseID}
	add := func(cond, value string) {
		args = append(args, value)
		where += fmt.Sprintf(` AND %s = $%d`, cond, len(args))
	}
	if filter.Status != "" {
		add("status", filter.Status)
	}
	if filter.Type != "" {
		add("type", filter.Type)
	}
	if filter.CustomerID != "" {
		add("customer_id", filter.CustomerID)
	}
	if filter.PaymentStatus != "" {
		add("payment_status", filter.PaymentStatus)
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		where += fmt.Sprintf(` AND EXTRACT(YEAR FROM issue_date) = $%d`, len(args))
	}
	return where, args
}

func marshalInvoiceDocs(inv *entity.Invoice) (lines, breakdown, customerSnap, issuerSnap []byte, err error) {
	if lines, err = json.Marshal(inv.Lines); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal lines: %w", err)
	}
	if breakdown, err = json.Marshal(inv.TaxBreakdown); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal tax breakdown: %w", err)
	}
	if customerSnap, err = json.Marshal(inv.CustomerSnapshot); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal customer snapshot: %w", err)
	}
	if issuerSnap, err = json.Marshal(inv.IssuerSnapshot); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal issuer snapshot: %w", err)
	}
	return lines, breakdown, customerSnap, issuerSnap, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv          entity.Invoice
		number       *int64
		fullNumber   *string
		customerSnap []byte
		issuerSnap   []byte
		lines        []byte
		breakdown    []byte
		originalID   *string
		reason       *string
		createdBy    *string
		issuedBy     *string
	)
	err := row.Scan(
		&inv.ID, &inv.FranchiseID, &inv.Series, &number, &fullNumber, &inv.Type, &inv.Status,
		&inv.CustomerID, &inv.CustomerType, &customerSnap, &issuerSnap,
		&inv.IssueDate, &inv.DueDate, &inv.IssuedAt, &inv.RectifiedAt,
		&lines, &inv.Subtotal, &breakdown, &inv.Total,
		&inv.PaymentStatus, &inv.TotalPaid, &inv.PaymentReceiptIDs,
		&originalID, &inv.RectifyingInvoiceIDs, &reason,
		&inv.CreatedAt, &inv.UpdatedAt, &createdBy, &issuedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}

	if number != nil {
		inv.Number = *number
	}
	if fullNumber != nil {
		inv.FullNumber = *fullNumber
	}
	if originalID != nil {
		inv.OriginalInvoiceID = *originalID
	}
	if reason != nil {
		inv.RectificationReason = *reason
	}
	if createdBy != nil {
		inv.CreatedBy = *createdBy
	}
	if issuedBy != nil {
		inv.IssuedBy = *issuedBy
	}
	if err := json.Unmarshal(lines, &inv.Lines); err != nil {
		return nil, fmt.Errorf("unmarshal lines: %w", err)
	}
	if err := json.Unmarshal(breakdown, &inv.TaxBreakdown); err != nil {
		return nil, fmt.Errorf("unmarshal tax breakdown: %w", err)
	}
	if err := json.Unmarshal(customerSnap, &inv.CustomerSnapshot); err != nil {
		return nil, fmt.Errorf("unmarshal customer snapshot: %w", err)
	}
	if err := json.Unmarshal(issuerSnap, &inv.IssuerSnapshot); err != nil {
		return nil, fmt.Errorf("unmarshal issuer snapshot: %w", err)
	}
	return &inv, nil
}

func collectInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}
	return out, nil
}

// nilIfZero convierte 0 en NULL para la columna number (los borradores no
// tienen número legal).
func nilIfZero(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
