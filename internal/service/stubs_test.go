package service_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"phoneshop/internal/dto"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory stubs. DB() returns nil, which makes the services run their
// transactional closures directly; the Tx-suffixed methods therefore accept a
// nil *gorm.DB.

var errNotFound = errors.New("not found")

// ─── products ────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (s *stubProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.products[p.ID] = p
	return p
}

func (s *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	s.add(p)
	return nil
}

func (s *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range s.products {
		if p.Barcode == barcode && p.Active {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (s *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (s *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	s.products[p.ID] = p
	return nil
}

func (s *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := s.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (s *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if p, ok := s.products[id]; ok {
		p.Active = true
	}
	return nil
}

func (s *stubProductRepo) LowStock(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range s.products {
		if p.Active && p.Stock <= p.AlertLevel {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return s.FindByID(context.Background(), id)
}

func (s *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := s.products[id]
	if !ok {
		return errNotFound
	}
	p.Stock += delta
	return nil
}

func (s *stubProductRepo) DB() *gorm.DB { return nil }

// ─── imeis ───────────────────────────────────────────────────────────────────

type stubIMEIRepo struct {
	units map[uuid.UUID]*model.IMEI
}

var _ repository.IMEIRepository = (*stubIMEIRepo)(nil)

func newStubIMEIRepo() *stubIMEIRepo {
	return &stubIMEIRepo{units: make(map[uuid.UUID]*model.IMEI)}
}

func (s *stubIMEIRepo) add(u *model.IMEI) *model.IMEI {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.units[u.ID] = u
	return u
}

func (s *stubIMEIRepo) Create(_ context.Context, u *model.IMEI) error {
	s.add(u)
	return nil
}

func (s *stubIMEIRepo) FindByID(_ context.Context, id uuid.UUID) (*model.IMEI, error) {
	u, ok := s.units[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubIMEIRepo) FindByIMEI(_ context.Context, imei string) (*model.IMEI, error) {
	for _, u := range s.units {
		if u.IMEI == imei {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (s *stubIMEIRepo) List(_ context.Context, _ dto.IMEIFilter) ([]model.IMEI, int64, error) {
	out := make([]model.IMEI, 0, len(s.units))
	for _, u := range s.units {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (s *stubIMEIRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	return s.UpdateStatusTx(nil, id, status)
}

func (s *stubIMEIRepo) CreateTx(_ *gorm.DB, u *model.IMEI) error {
	s.add(u)
	return nil
}

func (s *stubIMEIRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.IMEI, error) {
	return s.FindByID(context.Background(), id)
}

func (s *stubIMEIRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	u, ok := s.units[id]
	if !ok {
		return errNotFound
	}
	u.Status = status
	return nil
}

// ─── stock movements ─────────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

func (s *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	s.movements = append(s.movements, *m)
	return nil
}

func (s *stubMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID, _ int) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ─── sales ───────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
	// onFind, when set, runs after a FindByID copies the row out. Tests use
	// it to slip a concurrent writer between a read and the guarded write.
	onFind func()
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (s *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, sale *model.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	for _, existing := range s.sales {
		if existing.InvoiceNo == sale.InvoiceNo {
			return fmt.Errorf("duplicate invoice %s", sale.InvoiceNo)
		}
	}
	s.sales[sale.ID] = sale
	return nil
}

func (s *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, ok := s.sales[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *sale
	if s.onFind != nil {
		s.onFind()
	}
	return &cp, nil
}

func (s *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, sale := range s.sales {
		if filter.Status != "" && filter.Status != "all" && sale.Status != filter.Status {
			continue
		}
		out = append(out, *sale)
	}
	return out, int64(len(out)), nil
}

func (s *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, from, to string) error {
	sale, ok := s.sales[id]
	if !ok {
		return errNotFound
	}
	if sale.Status != from {
		return repository.ErrStaleStatus
	}
	sale.Status = to
	return nil
}

func (s *stubSaleRepo) NextInvoiceNo(_ context.Context, _ *gorm.DB, day time.Time) (string, error) {
	prefix := "INV-" + day.Format("20060102") + "-"
	max := 0
	for _, sale := range s.sales {
		if !strings.HasPrefix(sale.InvoiceNo, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(sale.InvoiceNo, prefix))
		if err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, max+1), nil
}

func (s *stubSaleRepo) DB() *gorm.DB { return nil }

// invoiceNos returns all allocated invoice numbers sorted.
func (s *stubSaleRepo) invoiceNos() []string {
	var out []string
	for _, sale := range s.sales {
		out = append(out, sale.InvoiceNo)
	}
	sort.Strings(out)
	return out
}
