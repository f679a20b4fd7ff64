package entity

import "time"

// Franchise perfil fiscal del emisor. Sus datos se congelan en el
// IssuerSnapshot de cada factura al emitir; si el perfil está incompleto
// la emisión se rechaza con COMPANY_DATA_MISSING.
type Franchise struct {
	ID         string
	FiscalName string
	TaxID      string
	Address    Address
	Email      string
	Phone      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Snapshot congela la identidad fiscal del emisor para embeberla en la factura.
func (f *Franchise) Snapshot() FiscalSnapshot {
	return FiscalSnapshot{
		ID:         f.ID,
		FiscalName: f.FiscalName,
		TaxID:      f.TaxID,
		Address:    f.Address,
		Email:      f.Email,
		Phone:      f.Phone,
	}
}
