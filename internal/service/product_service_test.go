package service_test

import (
	"bytes"
	"context"
	"testing"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/model"
	"phoneshop/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type productFixture struct {
	svc       service.ProductService
	products  *stubProductRepo
	movements *stubMovementRepo
}

func newProductFixture() *productFixture {
	products := newStubProductRepo()
	imeis := newStubIMEIRepo()
	movements := &stubMovementRepo{}
	ledger := service.NewLedgerService(products, imeis, movements)
	return &productFixture{
		svc:       service.NewProductService(products, movements, ledger, nil),
		products:  products,
		movements: movements,
	}
}

func TestCreateProduct_DuplicateBarcode(t *testing.T) {
	f := newProductFixture()
	req := dto.CreateProductRequest{
		Barcode: "300001", Name: "Moto G84", Category: "phone",
		CostPrice: money("180.00"), Price: money("240.00"), Stock: 5,
	}
	_, err := f.svc.CreateProduct(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.CreateProduct(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestAdjustStock_WritesMovementAndGuardsZero(t *testing.T) {
	f := newProductFixture()
	p := f.products.add(&model.Product{
		Barcode: "300002", Name: "Flip Cover", Category: "accessory",
		Price: money("12.00"), Stock: 4, Active: true,
	})

	resp, err := f.svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{
		Delta: -3, Reason: "stocktake shrinkage",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Stock)

	require.Len(t, f.movements.movements, 1)
	m := f.movements.movements[0]
	assert.Equal(t, model.MovementAdjustment, m.Kind)
	assert.Equal(t, -3, m.Quantity)
	assert.Equal(t, 4, m.StockBefore)
	assert.Equal(t, 1, m.StockAfter)
	assert.Equal(t, "stocktake shrinkage", m.Reason)

	// Taking stock below zero is refused before anything moves.
	_, err = f.svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{
		Delta: -2, Reason: "bad count",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	assert.Len(t, f.movements.movements, 1)
}

func TestPriceCheck_FallsBackToRepo(t *testing.T) {
	f := newProductFixture()
	f.products.add(&model.Product{
		Barcode: "300003", Name: "Pixel 8a", Brand: "Google", Category: "phone",
		Price: money("500.00"), Stock: 2, Active: true,
	})

	resp, err := f.svc.PriceCheck(context.Background(), "300003")
	require.NoError(t, err)
	assert.Equal(t, "Pixel 8a", resp.Name)
	assert.True(t, resp.Price.Equal(money("500.00")))
	assert.Equal(t, 2, resp.InStock)

	_, err = f.svc.PriceCheck(context.Background(), "999999")
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestLowStock_UsesAlertLevel(t *testing.T) {
	f := newProductFixture()
	f.products.add(&model.Product{
		Barcode: "300004", Name: "Running Low", Category: "accessory",
		Price: money("9.00"), Stock: 2, AlertLevel: 3, Active: true,
	})
	f.products.add(&model.Product{
		Barcode: "300005", Name: "Plenty", Category: "accessory",
		Price: money("9.00"), Stock: 50, AlertLevel: 3, Active: true,
	})

	low, err := f.svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Running Low", low[0].Name)
}

func importSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	return &buf
}

func TestImportXLSX_SkipsBadRowsAndKeepsGoing(t *testing.T) {
	f := newProductFixture()
	f.products.add(&model.Product{
		Barcode: "400001", Name: "Already Here", Category: "accessory",
		Price: money("5.00"), Active: true,
	})

	buf := importSheet(t, [][]interface{}{
		{"Name", "Brand", "Model", "Price", "Barcode", "Stock", "Category", "CostPrice", "AlertLevel"},
		{"Galaxy A15", "Samsung", "A15", "170.00", "400002", 8, "phone", "120.00", 2},
		{"Duplicate Barcode", "", "", "2.00", "400001", 1, "accessory", "1.00", 0},
		{"No Barcode", "", "", "2.00", "", 1, "accessory", "1.00", 0},
		{"Bad Price", "", "", "oops", "400003", 1, "accessory", "1.00", 0},
		// Trailing CostPrice/AlertLevel columns are optional.
		{"Charger Brick", "", "", "8.00", "400004", 20, ""},
	})

	result, err := f.svc.ImportXLSX(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 3, result.Skipped)
	assert.Len(t, result.Errors, 3)

	imported, err := f.products.FindByBarcode(context.Background(), "400002")
	require.NoError(t, err)
	assert.Equal(t, "Galaxy A15", imported.Name)
	assert.Equal(t, "Samsung", imported.Brand)
	assert.Equal(t, 8, imported.Stock)
	assert.Equal(t, 2, imported.AlertLevel)
	assert.True(t, imported.Price.Equal(money("170.00")))
	assert.True(t, imported.CostPrice.Equal(money("120.00")))

	// Blank category falls back to a default instead of failing the row.
	fallback, err := f.products.FindByBarcode(context.Background(), "400004")
	require.NoError(t, err)
	assert.Equal(t, "uncategorized", fallback.Category)
}

func TestImportXLSX_RejectsGarbageFile(t *testing.T) {
	f := newProductFixture()
	_, err := f.svc.ImportXLSX(context.Background(), bytes.NewBufferString("not a workbook"))
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}
