package billing

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tu-usuario/factura-pro/internal/domain/entity"
	"github.com/tu-usuario/factura-pro/internal/domain/repository"
)

// Dobles en memoria de los puertos de persistencia, compartiendo los mismos
// mapas dentro y fuera de la "transacción".

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[string]*entity.Invoice)}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	if _, ok := r.invoices[inv.ID]; !ok {
		return errors.New("factura inexistente")
	}
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id string) error {
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeInvoiceRepo) ListByFranchise(_ context.Context, franchiseID string, filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.FranchiseID != franchiseID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.Type != "" && inv.Type != filter.Type {
			continue
		}
		if filter.CustomerID != "" && inv.CustomerID != filter.CustomerID {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeInvoiceRepo) CountByFranchise(ctx context.Context, franchiseID string, filter repository.InvoiceFilter) (int64, error) {
	all, _ := r.ListByFranchise(ctx, franchiseID, filter)
	return int64(len(all)), nil
}

func (r *fakeInvoiceRepo) ExistsActiveForCustomerInMonth(_ context.Context, franchiseID, customerID string, month time.Time) (bool, error) {
	for _, inv := range r.invoices {
		if inv.FranchiseID == franchiseID &&
			inv.CustomerID == customerID &&
			(inv.Status == entity.StatusDraft || inv.Status == entity.StatusIssued) &&
			inv.Type == entity.TypeStandard &&
			inv.IssueDate.Year() == month.Year() &&
			inv.IssueDate.Month() == month.Month() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInvoiceRepo) ListIssuedWithDebt(_ context.Context, franchiseID string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.FranchiseID == franchiseID &&
			inv.Status == entity.StatusIssued &&
			inv.RemainingAmount().IsPositive() {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListByCustomer(_ context.Context, franchiseID, customerID string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.FranchiseID == franchiseID && inv.CustomerID == customerID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	payments map[string]*entity.PaymentRecord
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*entity.PaymentRecord)}
}

func (r *fakePaymentRepo) Create(_ context.Context, p *entity.PaymentRecord) error {
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id string) (*entity.PaymentRecord, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.PaymentRecord, error) {
	var out []*entity.PaymentRecord
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePaymentRepo) ListByFranchise(_ context.Context, franchiseID string, _, _ int) ([]*entity.PaymentRecord, error) {
	var out []*entity.PaymentRecord
	for _, p := range r.payments {
		if p.FranchiseID == franchiseID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func newFakeCustomerRepo(customers ...*entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[string]*entity.Customer)}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) GetByFranchiseAndTaxID(_ context.Context, franchiseID, taxID string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.FranchiseID == franchiseID && c.TaxID == taxID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) ListByFranchise(_ context.Context, franchiseID string, _, _ int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.customers {
		if c.FranchiseID == franchiseID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeFranchiseRepo struct {
	franchises map[string]*entity.Franchise
}

func newFakeFranchiseRepo(franchises ...*entity.Franchise) *fakeFranchiseRepo {
	r := &fakeFranchiseRepo{franchises: make(map[string]*entity.Franchise)}
	for _, f := range franchises {
		r.franchises[f.ID] = f
	}
	return r
}

func (r *fakeFranchiseRepo) GetByID(_ context.Context, id string) (*entity.Franchise, error) {
	f, ok := r.franchises[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

type counterKey struct {
	franchiseID string
	series      string
	year        int
}

type fakeSequenceRepo struct {
	counters map[counterKey]int64
	fail     bool // simula el almacén de numeración caído
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{counters: make(map[counterKey]int64)}
}

func (r *fakeSequenceRepo) NextNumber(_ context.Context, franchiseID, series string, year int) (int64, error) {
	if r.fail {
		return 0, errors.New("contador no disponible")
	}
	key := counterKey{franchiseID, series, year}
	r.counters[key]++
	return r.counters[key], nil
}

func (r *fakeSequenceRepo) Current(_ context.Context, franchiseID, series string, year int) (int64, error) {
	return r.counters[counterKey{franchiseID, series, year}], nil
}

// fakeTxRunner ejecuta el callback directamente sobre los mismos dobles.
type fakeTxRunner struct {
	invoiceRepo  *fakeInvoiceRepo
	paymentRepo  *fakePaymentRepo
	sequenceRepo *fakeSequenceRepo
}

func (r *fakeTxRunner) RunBilling(_ context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	sequenceRepo repository.SequenceRepository,
) error) error {
	return fn(r.invoiceRepo, r.paymentRepo, r.sequenceRepo)
}

// fixture monta los casos de uso con un emisor y un cliente válidos.
type fixture struct {
	lifecycle *LifecycleUseCase
	payments  *PaymentsUseCase
	rectify   *RectifyUseCase
	directory *DirectoryUseCase

	invoices   *fakeInvoiceRepo
	paymentsR  *fakePaymentRepo
	sequences  *fakeSequenceRepo
	customers  *fakeCustomerRepo
	franchises *fakeFranchiseRepo
}

const (
	testFranchiseID = "fr-madrid-01"
	testCustomerID  = "cus-rest-01"
	testUserID      = "user-ana"
)

func newFixture() *fixture {
	invoices := newFakeInvoiceRepo()
	payments := newFakePaymentRepo()
	sequences := newFakeSequenceRepo()
	customers := newFakeCustomerRepo(&entity.Customer{
		ID:          testCustomerID,
		FranchiseID: testFranchiseID,
		Type:        entity.CustomerRestaurant,
		FiscalName:  "Restaurante La Plaza SL",
		TaxID:       "A12345674",
	})
	franchises := newFakeFranchiseRepo(&entity.Franchise{
		ID:         testFranchiseID,
		FiscalName: "Franquicias Centro SL",
		TaxID:      "12345678Z",
	})
	tx := &fakeTxRunner{invoiceRepo: invoices, paymentRepo: payments, sequenceRepo: sequences}

	log := zerolog.Nop()
	lifecycle := NewLifecycleUseCase(tx, invoices, customers, franchises, log)
	return &fixture{
		lifecycle:  lifecycle,
		payments:   NewPaymentsUseCase(tx, invoices, payments, log),
		rectify:    NewRectifyUseCase(tx, lifecycle, log),
		directory:  NewDirectoryUseCase(customers, payments, sequences),
		invoices:   invoices,
		paymentsR:  payments,
		sequences:  sequences,
		customers:  customers,
		franchises: franchises,
	}
}
