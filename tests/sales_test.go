package tests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"phoneshop/internal/dto"
	"phoneshop/internal/handler"
	"phoneshop/internal/middleware"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"
	"phoneshop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ────────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (s *stubProductRepo) seed(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.products[p.ID] = p
	return p
}

func (s *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	s.seed(p)
	return nil
}

func (s *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *p
	return &cp, nil
}

func (s *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range s.products {
		if p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (s *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	return nil, 0, nil
}

func (s *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	s.products[p.ID] = p
	return nil
}

func (s *stubProductRepo) SoftDelete(_ context.Context, _ uuid.UUID) error { return nil }
func (s *stubProductRepo) Reactivate(_ context.Context, _ uuid.UUID) error { return nil }
func (s *stubProductRepo) LowStock(_ context.Context) ([]model.Product, error) {
	return nil, nil
}

func (s *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return s.FindByID(context.Background(), id)
}

func (s *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := s.products[id]
	if !ok {
		return errors.New("not found")
	}
	p.Stock += delta
	return nil
}

func (s *stubProductRepo) DB() *gorm.DB { return nil }

type stubIMEIRepo struct {
	units map[uuid.UUID]*model.IMEI
}

var _ repository.IMEIRepository = (*stubIMEIRepo)(nil)

func newStubIMEIRepo() *stubIMEIRepo {
	return &stubIMEIRepo{units: make(map[uuid.UUID]*model.IMEI)}
}

func (s *stubIMEIRepo) Create(_ context.Context, u *model.IMEI) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.units[u.ID] = u
	return nil
}

func (s *stubIMEIRepo) FindByID(_ context.Context, id uuid.UUID) (*model.IMEI, error) {
	u, ok := s.units[id]
	if !ok {
		return nil, errors.New("not found")
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
	return nil, errors.New("not found")
}

func (s *stubIMEIRepo) List(_ context.Context, _ dto.IMEIFilter) ([]model.IMEI, int64, error) {
	return nil, 0, nil
}

func (s *stubIMEIRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	return s.UpdateStatusTx(nil, id, status)
}

func (s *stubIMEIRepo) CreateTx(_ *gorm.DB, u *model.IMEI) error {
	return s.Create(context.Background(), u)
}

func (s *stubIMEIRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.IMEI, error) {
	return s.FindByID(context.Background(), id)
}

func (s *stubIMEIRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	u, ok := s.units[id]
	if !ok {
		return errors.New("not found")
	}
	u.Status = status
	return nil
}

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

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
	seq   int
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (s *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, sale *model.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	s.sales[sale.ID] = sale
	return nil
}

func (s *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, ok := s.sales[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *sale
	return &cp, nil
}

func (s *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	out := make([]model.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		out = append(out, *sale)
	}
	return out, int64(len(out)), nil
}

func (s *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, from, to string) error {
	sale, ok := s.sales[id]
	if !ok {
		return errors.New("not found")
	}
	if sale.Status != from {
		return repository.ErrStaleStatus
	}
	sale.Status = to
	return nil
}

func (s *stubSaleRepo) NextInvoiceNo(_ context.Context, _ *gorm.DB, day time.Time) (string, error) {
	s.seq++
	return fmt.Sprintf("INV-%s-%04d", day.Format("20060102"), s.seq), nil
}

func (s *stubSaleRepo) DB() *gorm.DB { return nil }

// ── Router factory ───────────────────────────────────────────────────────────

type salesEnv struct {
	router   *gin.Engine
	products *stubProductRepo
	sales    *stubSaleRepo
}

func newSalesRouter(t *testing.T) *salesEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := newStubProductRepo()
	imeis := newStubIMEIRepo()
	sales := newStubSaleRepo()
	movements := &stubMovementRepo{}
	ledger := service.NewLedgerService(products, imeis, movements)
	saleSvc := service.NewSaleService(sales, products, imeis, ledger, nil, nil)
	authSvc := service.NewAuthService(newStubUserRepo(), testSecret, 1, 24)
	saleH := handler.NewSaleHandler(saleSvc, nil)

	r := gin.New()
	authed := r.Group("", middleware.JWTAuth(authSvc))
	authed.POST("/sales", saleH.Create)
	authed.GET("/sales/:id", saleH.Get)
	manager := authed.Group("", middleware.RequireRole(model.RoleManager, model.RoleAdmin))
	manager.POST("/sales/:id/void", saleH.Void)
	manager.POST("/sales/:id/refund", saleH.Refund)

	return &salesEnv{router: r, products: products, sales: sales}
}

func saleBody(productID string, quantity int, paid string) map[string]any {
	return map[string]any{
		"items":          []map[string]any{{"product_id": productID, "quantity": quantity}},
		"paid_amount":    paid,
		"payment_method": "cash",
	}
}

// ── Create: status mapping ───────────────────────────────────────────────────

func TestCreateSaleHTTP_Created(t *testing.T) {
	env := newSalesRouter(t)
	p := env.products.seed(&model.Product{
		Barcode: "500001", Name: "USB-C Cable", Category: "accessory",
		Price: decimal.RequireFromString("15.00"), Stock: 10, Active: true,
	})
	tok := signToken(t, model.RoleCashier, false, time.Hour)

	w := doJSON(t, env.router, http.MethodPost, "/sales", saleBody(p.ID.String(), 3, "50.00"), tok)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID           string `json:"id"`
		InvoiceNo    string `json:"invoice_no"`
		Status       string `json:"status"`
		TotalAmount  string `json:"total_amount"`
		ChangeAmount string `json:"change_amount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.Regexp(t, `^INV-\d{8}-0001$`, resp.InvoiceNo)
	assert.Equal(t, "45", resp.TotalAmount)
	assert.Equal(t, "5", resp.ChangeAmount)

	left, _ := env.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 7, left.Stock)
}

func TestCreateSaleHTTP_NoToken(t *testing.T) {
	env := newSalesRouter(t)
	w := doJSON(t, env.router, http.MethodPost, "/sales", saleBody(uuid.NewString(), 1, "10.00"), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateSaleHTTP_UnknownProduct(t *testing.T) {
	env := newSalesRouter(t)
	tok := signToken(t, model.RoleCashier, false, time.Hour)
	w := doJSON(t, env.router, http.MethodPost, "/sales", saleBody(uuid.NewString(), 1, "10.00"), tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSaleHTTP_InsufficientStock(t *testing.T) {
	env := newSalesRouter(t)
	p := env.products.seed(&model.Product{
		Barcode: "500002", Name: "Screen Protector", Category: "accessory",
		Price: decimal.RequireFromString("8.00"), Stock: 1, Active: true,
	})
	tok := signToken(t, model.RoleCashier, false, time.Hour)

	w := doJSON(t, env.router, http.MethodPost, "/sales", saleBody(p.ID.String(), 2, "16.00"), tok)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")
}

func TestCreateSaleHTTP_Underpaid(t *testing.T) {
	env := newSalesRouter(t)
	p := env.products.seed(&model.Product{
		Barcode: "500003", Name: "Charger", Category: "accessory",
		Price: decimal.RequireFromString("25.00"), Stock: 5, Active: true,
	})
	tok := signToken(t, model.RoleCashier, false, time.Hour)

	w := doJSON(t, env.router, http.MethodPost, "/sales", saleBody(p.ID.String(), 1, "20.00"), tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSaleHTTP_EmptyItems(t *testing.T) {
	env := newSalesRouter(t)
	tok := signToken(t, model.RoleCashier, false, time.Hour)
	w := doJSON(t, env.router, http.MethodPost, "/sales", map[string]any{
		"items": []map[string]any{}, "paid_amount": "1.00", "payment_method": "cash",
	}, tok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateSaleHTTP_MalformedBody(t *testing.T) {
	env := newSalesRouter(t)
	tok := signToken(t, model.RoleCashier, false, time.Hour)
	w := doJSON(t, env.router, http.MethodPost, "/sales", "{broken", tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ── Void: role gate and conflict mapping ─────────────────────────────────────

func TestVoidSaleHTTP_CashierForbidden(t *testing.T) {
	env := newSalesRouter(t)
	p := env.products.seed(&model.Product{
		Barcode: "500004", Name: "Earbuds", Category: "accessory",
		Price: decimal.RequireFromString("30.00"), Stock: 5, Active: true,
	})
	cashier := signToken(t, model.RoleCashier, false, time.Hour)

	w := doJSON(t, env.router, http.MethodPost, "/sales", saleBody(p.ID.String(), 1, "30.00"), cashier)
	require.Equal(t, http.StatusCreated, w.Code)
	var sale struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))

	voidW := doJSON(t, env.router, http.MethodPost, "/sales/"+sale.ID+"/void",
		map[string]string{"reason": "rang up twice"}, cashier)
	assert.Equal(t, http.StatusForbidden, voidW.Code)
}

func TestVoidSaleHTTP_ManagerVoidsOnce(t *testing.T) {
	env := newSalesRouter(t)
	p := env.products.seed(&model.Product{
		Barcode: "500005", Name: "Power Bank", Category: "accessory",
		Price: decimal.RequireFromString("40.00"), Stock: 6, Active: true,
	})
	cashier := signToken(t, model.RoleCashier, false, time.Hour)
	manager := signToken(t, model.RoleManager, false, time.Hour)

	w := doJSON(t, env.router, http.MethodPost, "/sales", saleBody(p.ID.String(), 2, "80.00"), cashier)
	require.Equal(t, http.StatusCreated, w.Code)
	var sale struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))

	voidW := doJSON(t, env.router, http.MethodPost, "/sales/"+sale.ID+"/void",
		map[string]string{"reason": "customer changed mind"}, manager)
	require.Equal(t, http.StatusNoContent, voidW.Code)

	restored, _ := env.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 6, restored.Stock)

	// The second void maps the stale transition to 409.
	again := doJSON(t, env.router, http.MethodPost, "/sales/"+sale.ID+"/void",
		map[string]string{"reason": "voided twice"}, manager)
	assert.Equal(t, http.StatusConflict, again.Code)
	still, _ := env.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 6, still.Stock)
}

func TestVoidSaleHTTP_ShortReasonRejected(t *testing.T) {
	env := newSalesRouter(t)
	manager := signToken(t, model.RoleManager, false, time.Hour)
	w := doJSON(t, env.router, http.MethodPost, "/sales/"+uuid.NewString()+"/void",
		map[string]string{"reason": "no"}, manager)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestVoidSaleHTTP_UnknownSale(t *testing.T) {
	env := newSalesRouter(t)
	manager := signToken(t, model.RoleManager, false, time.Hour)
	w := doJSON(t, env.router, http.MethodPost, "/sales/"+uuid.NewString()+"/void",
		map[string]string{"reason": "nothing there"}, manager)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
