package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/factura-pro/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador legal de numeración por (franquicia, serie, año).
// El avance es un upsert atómico sobre la fila del contador: dos emisiones
// concurrentes se serializan en el lock de fila y nunca reciben el mismo
// número. Ejecutado dentro de la transacción de emisión, un rollback
// devuelve también el número.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// NextNumber reserva y devuelve el siguiente número del contador.
func (r *SequenceRepo) NextNumber(ctx context.Context, franchiseID, series string, year int) (int64, error) {
	query := `
		INSERT INTO invoice_counters (franchise_id, series, year, last_number)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (franchise_id, series, year)
		DO UPDATE SET last_number = invoice_counters.last_number + 1
		RETURNING last_number`
	var number int64
	if err := r.q.QueryRow(ctx, query, franchiseID, series, year).Scan(&number); err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return number, nil
}

// Current devuelve el último número asignado, 0 si el contador no existe.
func (r *SequenceRepo) Current(ctx context.Context, franchiseID, series string, year int) (int64, error) {
	query := `
		SELECT last_number FROM invoice_counters
		WHERE franchise_id = $1 AND series = $2 AND year = $3`
	var number int64
	err := r.q.QueryRow(ctx, query, franchiseID, series, year).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("current invoice number: %w", err)
	}
	return number, nil
}
