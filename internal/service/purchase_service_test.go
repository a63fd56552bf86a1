package service_test

import (
	"context"
	"testing"
	"time"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"
	"phoneshop/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (s *stubSupplierRepo) add(sup *model.Supplier) *model.Supplier {
	if sup.ID == uuid.Nil {
		sup.ID = uuid.New()
	}
	s.suppliers[sup.ID] = sup
	return sup
}

func (s *stubSupplierRepo) Create(_ context.Context, sup *model.Supplier) error {
	s.add(sup)
	return nil
}

func (s *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	sup, ok := s.suppliers[id]
	if !ok {
		return nil, errNotFound
	}
	return sup, nil
}

func (s *stubSupplierRepo) List(_ context.Context, _ dto.ContactFilter) ([]model.Supplier, int64, error) {
	return nil, 0, nil
}

func (s *stubSupplierRepo) Update(_ context.Context, sup *model.Supplier) error {
	s.suppliers[sup.ID] = sup
	return nil
}

func (s *stubSupplierRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if sup, ok := s.suppliers[id]; ok {
		sup.Active = false
	}
	return nil
}

type stubPurchaseRepo struct {
	purchases map[uuid.UUID]*model.Purchase
	onFind    func()
}

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{purchases: make(map[uuid.UUID]*model.Purchase)}
}

func (s *stubPurchaseRepo) Create(_ context.Context, _ *gorm.DB, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.purchases[p.ID] = p
	return nil
}

func (s *stubPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	p, ok := s.purchases[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	if s.onFind != nil {
		s.onFind()
	}
	return &cp, nil
}

func (s *stubPurchaseRepo) List(_ context.Context, _ dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	out := make([]model.Purchase, 0, len(s.purchases))
	for _, p := range s.purchases {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (s *stubPurchaseRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, from, to string) error {
	p, ok := s.purchases[id]
	if !ok {
		return errNotFound
	}
	if p.Status != from {
		return repository.ErrStaleStatus
	}
	p.Status = to
	return nil
}

func (s *stubPurchaseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.purchases, id)
	return nil
}

func (s *stubPurchaseRepo) AddPaymentTx(_ *gorm.DB, pay *model.PurchasePayment) error {
	p, ok := s.purchases[pay.PurchaseID]
	if !ok {
		return errNotFound
	}
	if pay.PaidAt.IsZero() {
		pay.PaidAt = time.Now()
	}
	p.Payments = append(p.Payments, *pay)
	return nil
}

func (s *stubPurchaseRepo) UpdateReconciliationTx(_ *gorm.DB, id uuid.UUID, prevCredit, paid, credit decimal.Decimal) error {
	p, ok := s.purchases[id]
	if !ok {
		return errNotFound
	}
	if !p.CreditAmount.Equal(prevCredit) {
		return repository.ErrStaleStatus
	}
	p.PaidAmount = paid
	p.CreditAmount = credit
	return nil
}

func (s *stubPurchaseRepo) DB() *gorm.DB { return nil }

type purchaseFixture struct {
	svc       service.PurchaseService
	products  *stubProductRepo
	imeis     *stubIMEIRepo
	suppliers *stubSupplierRepo
	purchases *stubPurchaseRepo
	movements *stubMovementRepo
}

func newPurchaseFixture() *purchaseFixture {
	products := newStubProductRepo()
	imeis := newStubIMEIRepo()
	suppliers := newStubSupplierRepo()
	purchases := newStubPurchaseRepo()
	movements := &stubMovementRepo{}
	ledger := service.NewLedgerService(products, imeis, movements)
	return &purchaseFixture{
		svc:       service.NewPurchaseService(purchases, products, suppliers, ledger),
		products:  products,
		imeis:     imeis,
		suppliers: suppliers,
		purchases: purchases,
		movements: movements,
	}
}

func TestCreatePurchase_Reconciliation(t *testing.T) {
	f := newPurchaseFixture()
	sup := f.suppliers.add(&model.Supplier{Name: "WholesaleCo", Phone: "555-0001", Active: true})
	p := f.products.add(&model.Product{
		Barcode: "200001", Name: "Redmi Note 13", Category: "phone",
		Price: money("250.00"), Stock: 0, Active: true,
	})

	resp, err := f.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: sup.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID.String(), Quantity: 10, UnitCost: money("180.00")},
		},
		ReduceAmount: money("100.00"),
		Expenses: []dto.PurchaseExpenseRequest{
			{Label: "freight", Amount: money("50.00")},
		},
		Payments: []dto.PurchasePaymentRequest{
			{Method: "transfer", Amount: money("1000.00")},
		},
	})
	require.NoError(t, err)

	// 10×180 − 100 + 50 = 1750; credit = 1750 − 1000 = 750
	assert.True(t, resp.ItemsTotal.Equal(money("1800.00")))
	assert.True(t, resp.NetTotal.Equal(money("1750.00")))
	assert.True(t, resp.PaidAmount.Equal(money("1000.00")))
	assert.True(t, resp.CreditAmount.Equal(money("750.00")))
	assert.Equal(t, "PENDING", resp.Status)

	// Stock untouched before receipt.
	untouched, _ := f.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 0, untouched.Stock)
}

func TestCreatePurchase_OverpaymentRejected(t *testing.T) {
	f := newPurchaseFixture()
	sup := f.suppliers.add(&model.Supplier{Name: "WholesaleCo", Phone: "555-0002", Active: true})
	p := f.products.add(&model.Product{
		Barcode: "200002", Name: "Cable Lot", Category: "accessory",
		Price: money("5.00"), Stock: 0, Active: true,
	})

	_, err := f.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: sup.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID.String(), Quantity: 10, UnitCost: money("2.00")},
		},
		Payments: []dto.PurchasePaymentRequest{
			{Method: "cash", Amount: money("25.00")},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	assert.Empty(t, f.purchases.purchases)
}

func TestReceivePurchase_OnceOnly(t *testing.T) {
	f := newPurchaseFixture()
	sup := f.suppliers.add(&model.Supplier{Name: "WholesaleCo", Phone: "555-0003", Active: true})
	p := f.products.add(&model.Product{
		Barcode: "200003", Name: "Galaxy S24", Category: "phone",
		Price: money("800.00"), Stock: 1, Active: true,
	})

	resp, err := f.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: sup.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID.String(), Quantity: 2, UnitCost: money("600.00"),
				IMEIs: []string{"351111111111111", "352222222222222"}},
		},
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.ReceivePurchase(context.Background(), id))

	stocked, _ := f.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 3, stocked.Stock)

	// Delivered serials are registered as sellable units.
	unit, err := f.imeis.FindByIMEI(context.Background(), "351111111111111")
	require.NoError(t, err)
	assert.Equal(t, model.IMEIInStock, unit.Status)
	assert.Equal(t, p.ID, unit.ProductID)

	// Receiving again must conflict and never double-count.
	err = f.svc.ReceivePurchase(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	again, _ := f.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 3, again.Stock)
}

func TestReceivePurchase_SimultaneousReceivesCountOnce(t *testing.T) {
	f := newPurchaseFixture()
	sup := f.suppliers.add(&model.Supplier{Name: "WholesaleCo", Phone: "555-0007", Active: true})
	p := f.products.add(&model.Product{
		Barcode: "200007", Name: "Moto G54", Category: "phone",
		Price: money("220.00"), Stock: 0, Active: true,
	})

	resp, err := f.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: sup.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID.String(), Quantity: 4, UnitCost: money("150.00")},
		},
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	// Two receive requests race: both read the order while it is still
	// PENDING, then the first one commits before the second writes.
	f.purchases.onFind = func() {
		f.purchases.onFind = nil
		require.NoError(t, f.svc.ReceivePurchase(context.Background(), id))
	}
	err = f.svc.ReceivePurchase(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	// Stock counted exactly once.
	stocked, _ := f.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 4, stocked.Stock)
	assert.Len(t, f.movements.movements, 1)
}

func TestDeletePurchase_ReceivedIsProtected(t *testing.T) {
	f := newPurchaseFixture()
	sup := f.suppliers.add(&model.Supplier{Name: "WholesaleCo", Phone: "555-0004", Active: true})
	p := f.products.add(&model.Product{
		Barcode: "200004", Name: "Power Bank", Category: "accessory",
		Price: money("40.00"), Stock: 0, Active: true,
	})

	resp, err := f.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: sup.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID.String(), Quantity: 5, UnitCost: money("20.00")},
		},
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)
	require.NoError(t, f.svc.ReceivePurchase(context.Background(), id))

	err = f.svc.DeletePurchase(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestCancelPurchase_ThenReceiveRejected(t *testing.T) {
	f := newPurchaseFixture()
	sup := f.suppliers.add(&model.Supplier{Name: "WholesaleCo", Phone: "555-0005", Active: true})
	p := f.products.add(&model.Product{
		Barcode: "200005", Name: "SIM Tool", Category: "accessory",
		Price: money("2.00"), Stock: 0, Active: true,
	})

	resp, err := f.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: sup.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID.String(), Quantity: 50, UnitCost: money("0.50")},
		},
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.CancelPurchase(context.Background(), id))

	err = f.svc.ReceivePurchase(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	still, _ := f.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 0, still.Stock)
}

func TestAddPayment_BoundedByCredit(t *testing.T) {
	f := newPurchaseFixture()
	sup := f.suppliers.add(&model.Supplier{Name: "WholesaleCo", Phone: "555-0006", Active: true})
	p := f.products.add(&model.Product{
		Barcode: "200006", Name: "Tempered Glass", Category: "accessory",
		Price: money("6.00"), Stock: 0, Active: true,
	})

	resp, err := f.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: sup.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID.String(), Quantity: 100, UnitCost: money("1.00")},
		},
		Payments: []dto.PurchasePaymentRequest{
			{Method: "cash", Amount: money("40.00")},
		},
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)
	require.True(t, resp.CreditAmount.Equal(money("60.00")))

	// Paying more than the outstanding credit is rejected.
	_, err = f.svc.AddPayment(context.Background(), id, dto.AddPurchasePaymentRequest{
		Method: "cash", Amount: money("61.00"),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	// Settling exactly clears the credit.
	updated, err := f.svc.AddPayment(context.Background(), id, dto.AddPurchasePaymentRequest{
		Method: "transfer", Amount: money("60.00"),
	})
	require.NoError(t, err)
	assert.True(t, updated.CreditAmount.IsZero())
	assert.True(t, updated.PaidAmount.Equal(money("100.00")))
	assert.Len(t, updated.Payments, 2)
}

func TestAddPayment_SimultaneousPaymentsCannotOverpay(t *testing.T) {
	f := newPurchaseFixture()
	sup := f.suppliers.add(&model.Supplier{Name: "WholesaleCo", Phone: "555-0008", Active: true})
	p := f.products.add(&model.Product{
		Barcode: "200008", Name: "Car Mount", Category: "accessory",
		Price: money("15.00"), Stock: 0, Active: true,
	})

	resp, err := f.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: sup.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID.String(), Quantity: 20, UnitCost: money("5.00")},
		},
		Payments: []dto.PurchasePaymentRequest{
			{Method: "cash", Amount: money("40.00")},
		},
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)
	require.True(t, resp.CreditAmount.Equal(money("60.00")))

	// Two settlements race: each checks the bound against credit 60, then
	// the first one commits before the second writes.
	f.purchases.onFind = func() {
		f.purchases.onFind = nil
		_, err := f.svc.AddPayment(context.Background(), id, dto.AddPurchasePaymentRequest{
			Method: "transfer", Amount: money("60.00"),
		})
		require.NoError(t, err)
	}
	_, err = f.svc.AddPayment(context.Background(), id, dto.AddPurchasePaymentRequest{
		Method: "cash", Amount: money("60.00"),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	// Paid can never exceed the net total, and only the winner's payment row
	// was written.
	final, err := f.svc.GetPurchase(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, final.PaidAmount.Equal(money("100.00")))
	assert.True(t, final.CreditAmount.IsZero())
	assert.Len(t, final.Payments, 2)
}
