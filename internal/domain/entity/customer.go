package entity

import "time"

// Customer entrada del directorio de clientes facturables de una franquicia
// (restaurantes y otras franquicias de la red). Es un colaborador de solo
// lectura para el motor: se consulta para congelar el snapshot del cliente
// en el momento de emitir.
type Customer struct {
	ID          string
	FranchiseID string
	Type        string // FRANCHISE | RESTAURANT
	FiscalName  string
	TaxID       string // CIF/NIF validado con pkg/fiscal
	Address     Address
	Email       string
	Phone       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot congela la identidad fiscal del cliente para embeberla en la factura.
func (c *Customer) Snapshot() FiscalSnapshot {
	return FiscalSnapshot{
		ID:         c.ID,
		FiscalName: c.FiscalName,
		TaxID:      c.TaxID,
		Address:    c.Address,
		Email:      c.Email,
		Phone:      c.Phone,
	}
}
