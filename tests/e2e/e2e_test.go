//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"phoneshop/internal/config"
	"phoneshop/internal/infra"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"
	"phoneshop/internal/router"
	"phoneshop/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var reader *bytes.Buffer
	if body == nil {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = body
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("phoneshop_test"),
		tcPostgres.WithUsername("phoneshop"),
		tcPostgres.WithPassword("phoneshop"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		ShopName:           "E2E Phone Shop",
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.Env)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("e2e-admin-pass"), 12)
	require.NoError(t, err)
	users := repository.NewUserRepository(db)
	require.NoError(t, users.Create(ctx, &model.User{
		Username:     "admin",
		FullName:     "E2E Admin",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Active:       true,
	}))

	r := router.New(router.Deps{
		Cfg:        cfg,
		DB:         db,
		Redis:      rdb,
		Dispatcher: worker.NewDispatcher(rdb),
		Receipts:   infra.NewReceiptGenerator(cfg.ShopName, cfg.PDFStoragePath),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/api/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "e2e-admin-pass"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func createProduct(t *testing.T, env *testEnv, barcode, name string, stock int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/api/v1/products",
		jsonBody(t, map[string]any{
			"barcode":    barcode,
			"name":       name,
			"category":   "phone",
			"cost_price": "150.00",
			"price":      "250.00",
			"stock":      stock,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func productStock(t *testing.T, env *testEnv, id string) int {
	t.Helper()
	resp := do(t, env.server, "GET", "/api/v1/products/"+id, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prod struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, resp, &prod)
	return prod.Stock
}

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)
	prodID := createProduct(t, env, "789000100001", "Galaxy A15", 20)

	saleResp := do(t, env.server, "POST", "/api/v1/sales",
		jsonBody(t, map[string]any{
			"items":          []map[string]any{{"product_id": prodID, "quantity": 3}},
			"paid_amount":    "800.00",
			"payment_method": "cash",
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID           string `json:"id"`
		InvoiceNo    string `json:"invoice_no"`
		Status       string `json:"status"`
		TotalAmount  string `json:"total_amount"`
		ChangeAmount string `json:"change_amount"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "COMPLETED", sale.Status)
	assert.Regexp(t, `^INV-\d{8}-0001$`, sale.InvoiceNo)
	assert.Equal(t, "750", sale.TotalAmount)
	assert.Equal(t, "50", sale.ChangeAmount)

	assert.Equal(t, 17, productStock(t, env, prodID))

	listResp := do(t, env.server, "GET", "/api/v1/sales?status=COMPLETED", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
}

func TestE2E_VoidSaleRestoresStock(t *testing.T) {
	env := setupTestEnv(t)
	prodID := createProduct(t, env, "789000100002", "Redmi Note 13", 10)

	saleResp := do(t, env.server, "POST", "/api/v1/sales",
		jsonBody(t, map[string]any{
			"items":          []map[string]any{{"product_id": prodID, "quantity": 2}},
			"paid_amount":    "500.00",
			"payment_method": "card",
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, saleResp, &sale)
	require.Equal(t, 8, productStock(t, env, prodID))

	voidResp := do(t, env.server, "POST", "/api/v1/sales/"+sale.ID+"/void",
		jsonBody(t, map[string]any{"reason": "mis-rung at the register"}), env.token)
	require.Equal(t, http.StatusNoContent, voidResp.StatusCode)
	assert.Equal(t, 10, productStock(t, env, prodID))

	// A second void must conflict and leave stock untouched.
	again := do(t, env.server, "POST", "/api/v1/sales/"+sale.ID+"/void",
		jsonBody(t, map[string]any{"reason": "twice"}), env.token)
	assert.Equal(t, http.StatusConflict, again.StatusCode)
	assert.Equal(t, 10, productStock(t, env, prodID))
}

func TestE2E_PurchaseReceiveOnce(t *testing.T) {
	env := setupTestEnv(t)
	prodID := createProduct(t, env, "789000100003", "iPhone 13 (refurb)", 0)

	supResp := do(t, env.server, "POST", "/api/v1/suppliers",
		jsonBody(t, map[string]any{"name": "WholesaleCo", "phone": "555-0100"}), env.token)
	require.Equal(t, http.StatusCreated, supResp.StatusCode)
	var sup struct {
		ID string `json:"id"`
	}
	decodeJSON(t, supResp, &sup)

	purResp := do(t, env.server, "POST", "/api/v1/purchases",
		jsonBody(t, map[string]any{
			"supplier_id": sup.ID,
			"items": []map[string]any{{
				"product_id": prodID, "quantity": 2, "unit_cost": "180.00",
				"imeis": []string{"351111111111111", "352222222222222"},
			}},
		}), env.token)
	require.Equal(t, http.StatusCreated, purResp.StatusCode)
	var pur struct {
		ID string `json:"id"`
	}
	decodeJSON(t, purResp, &pur)

	recvResp := do(t, env.server, "POST", "/api/v1/purchases/"+pur.ID+"/receive", nil, env.token)
	require.Equal(t, http.StatusNoContent, recvResp.StatusCode)
	assert.Equal(t, 2, productStock(t, env, prodID))

	// Delivered serials are now sellable units.
	lookupResp := do(t, env.server, "GET", "/api/v1/imeis/lookup/351111111111111", nil, env.token)
	require.Equal(t, http.StatusOK, lookupResp.StatusCode)
	var unit struct {
		Status string `json:"status"`
	}
	decodeJSON(t, lookupResp, &unit)
	assert.Equal(t, "IN_STOCK", unit.Status)

	// Receiving twice conflicts and never double-counts.
	again := do(t, env.server, "POST", "/api/v1/purchases/"+pur.ID+"/receive", nil, env.token)
	assert.Equal(t, http.StatusConflict, again.StatusCode)
	assert.Equal(t, 2, productStock(t, env, prodID))
}

func TestE2E_PriceCheckPublic(t *testing.T) {
	env := setupTestEnv(t)
	createProduct(t, env, "789000100004", "Pixel 8a", 5)

	// No token: the kiosk endpoint is public.
	resp := do(t, env.server, "GET", "/price-check/789000100004", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Name    string `json:"name"`
		Price   string `json:"price"`
		InStock int    `json:"in_stock"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Pixel 8a", body.Name)
	assert.Equal(t, "250", body.Price)
	assert.Equal(t, 5, body.InStock)
}
