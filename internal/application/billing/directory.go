package billing

import (
	"context"
	"time"

	"github.com/tu-usuario/factura-pro/internal/application/dto"
	"github.com/tu-usuario/factura-pro/internal/domain"
	"github.com/tu-usuario/factura-pro/internal/domain/entity"
	"github.com/tu-usuario/factura-pro/internal/domain/repository"
)

// DirectoryUseCase vistas de solo lectura: directorio de clientes, apuntes
// del libro de cobros de la franquicia y estado de los contadores legales.
type DirectoryUseCase struct {
	customerRepo repository.CustomerRepository
	paymentRepo  repository.PaymentRepository
	sequenceRepo repository.SequenceRepository
}

// NewDirectoryUseCase construye el caso de uso.
func NewDirectoryUseCase(
	customerRepo repository.CustomerRepository,
	paymentRepo repository.PaymentRepository,
	sequenceRepo repository.SequenceRepository,
) *DirectoryUseCase {
	return &DirectoryUseCase{
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
		sequenceRepo: sequenceRepo,
	}
}

// ListCustomers lista el directorio de la franquicia. Con taxID se busca un
// cliente concreto por identificador fiscal.
func (uc *DirectoryUseCase) ListCustomers(ctx context.Context, franchiseID, taxID string, page dto.PageRequest) ([]dto.CustomerResponse, error) {
	if taxID != "" {
		customer, err := uc.customerRepo.GetByFranchiseAndTaxID(ctx, franchiseID, taxID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrCustomerNotFound
		}
		return []dto.CustomerResponse{toCustomerResponse(customer)}, nil
	}

	page.DefaultPage()
	customers, err := uc.customerRepo.ListByFranchise(ctx, franchiseID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, len(customers))
	for i, c := range customers {
		out[i] = toCustomerResponse(c)
	}
	return out, nil
}

// GetCustomer obtiene un cliente del directorio.
func (uc *DirectoryUseCase) GetCustomer(ctx context.Context, franchiseID, customerID string) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}
	if customer.FranchiseID != franchiseID {
		return nil, domain.ErrPermissionDenied
	}
	resp := toCustomerResponse(customer)
	return &resp, nil
}

// ListFranchisePayments devuelve los apuntes del libro de toda la franquicia,
// del más reciente al más antiguo.
func (uc *DirectoryUseCase) ListFranchisePayments(ctx context.Context, franchiseID string, page dto.PageRequest) ([]dto.PaymentResponse, error) {
	page.DefaultPage()
	payments, err := uc.paymentRepo.ListByFranchise(ctx, franchiseID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = *toPaymentResponse(p)
	}
	return out, nil
}

// GetPayment obtiene un apunte del libro.
func (uc *DirectoryUseCase) GetPayment(ctx context.Context, franchiseID, paymentID string) (*dto.PaymentResponse, error) {
	payment, err := uc.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.FranchiseID != franchiseID {
		return nil, domain.ErrPaymentNotFound
	}
	return toPaymentResponse(payment), nil
}

// SeriesStatus devuelve el último número asignado de la serie en el año.
// No reserva números: es una consulta de inspección.
func (uc *DirectoryUseCase) SeriesStatus(ctx context.Context, franchiseID, series string, year int) (*dto.SeriesStatusResponse, error) {
	if series == "" {
		series = entity.SeriesStandard
	}
	if year == 0 {
		year = time.Now().Year()
	}
	last, err := uc.sequenceRepo.Current(ctx, franchiseID, series, year)
	if err != nil {
		return nil, err
	}
	resp := &dto.SeriesStatusResponse{Series: series, Year: year, LastNumber: last}
	if last > 0 {
		resp.LastFullNumber = FormatFullNumber(series, year, last)
	}
	return resp, nil
}

func toCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:          c.ID,
		FranchiseID: c.FranchiseID,
		Type:        c.Type,
		FiscalName:  c.FiscalName,
		TaxID:       c.TaxID,
		Address:     c.Address,
		Email:       c.Email,
		Phone:       c.Phone,
	}
}
