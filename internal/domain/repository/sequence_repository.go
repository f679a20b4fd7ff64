package repository

import "context"

// SequenceRepository define el puerto del contador legal de numeración.
// Cada (franquicia, serie, año) mantiene su propio contador que arranca
// en 1 y avanza de uno en uno, sin huecos.
type SequenceRepository interface {
	// NextNumber reserva y devuelve el siguiente número del contador de
	// forma atómica. Debe invocarse dentro de la misma transacción que
	// persiste la factura emitida: si la transacción se revierte, el
	// número reservado se revierte con ella.
	NextNumber(ctx context.Context, franchiseID, series string, year int) (int64, error)

	// Current devuelve el último número asignado, 0 si el contador no existe.
	Current(ctx context.Context, franchiseID, series string, year int) (int64, error)
}
