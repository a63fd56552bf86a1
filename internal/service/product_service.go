package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/infra"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
	ReactivateProduct(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	LowStock(ctx context.Context) ([]dto.ProductResponse, error)
	StockMovements(ctx context.Context, id uuid.UUID, limit int) ([]model.StockMovement, error)
	ImportXLSX(ctx context.Context, r io.Reader) (*dto.ImportResultResponse, error)
	PriceCheck(ctx context.Context, barcode string) (*dto.PriceCheckResponse, error)
}

type productService struct {
	repo      repository.ProductRepository
	movements repository.StockMovementRepository
	ledger    LedgerService
	cache     *infra.PriceCache
}

func NewProductService(
	repo repository.ProductRepository,
	movements repository.StockMovementRepository,
	ledger LedgerService,
	cache *infra.PriceCache,
) ProductService {
	return &productService{repo: repo, movements: movements, ledger: ledger, cache: cache}
}

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if _, err := s.repo.FindByBarcode(ctx, req.Barcode); err == nil {
		return nil, apierror.Conflict(fmt.Sprintf("barcode %s already exists", req.Barcode))
	}

	p := model.Product{
		Barcode:    req.Barcode,
		Name:       req.Name,
		Brand:      req.Brand,
		Model:      req.Model,
		Category:   req.Category,
		CostPrice:  req.CostPrice,
		Price:      req.Price,
		Stock:      req.Stock,
		AlertLevel: req.AlertLevel,
		Active:     true,
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, apierror.Validation("invalid supplier_id")
		}
		p.SupplierID = &sid
	}

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return productToResponse(&p), nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("product not found")
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Model != nil {
		p.Model = *req.Model
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.AlertLevel != nil {
		p.AlertLevel = *req.AlertLevel
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, apierror.Validation("invalid supplier_id")
		}
		p.SupplierID = &sid
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, p.Barcode)
	}
	return productToResponse(p), nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("product not found")
	}
	return productToResponse(p), nil
}

func (s *productService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *productToResponse(&p))
	}
	return &dto.ProductListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// DeactivateProduct soft-deletes: the product disappears from sale lookups but
// its history (sales, movements) stays intact.
func (s *productService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("product not found")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, p.Barcode)
	}
	return nil
}

func (s *productService) ReactivateProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("product not found")
	}
	return s.repo.Reactivate(ctx, id)
}

// AdjustStock applies a manual stocktake correction through the ledger, so the
// movement trail records it like any other change. Corrections may not take
// stock below zero.
func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("product not found")
	}
	if p.Stock+req.Delta < 0 {
		return nil, apierror.Conflict(fmt.Sprintf("adjustment would take stock below zero (have %d, delta %d)", p.Stock, req.Delta))
	}

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.ledger.AdjustStockTx(tx, id, req.Delta, req.Reason)
	}); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, p.Barcode)
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(updated), nil
}

// StockMovements returns the recent ledger trail for a product.
func (s *productService) StockMovements(ctx context.Context, id uuid.UUID, limit int) ([]model.StockMovement, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, apierror.NotFound("product not found")
	}
	return s.movements.ListByProduct(ctx, id, limit)
}

func (s *productService) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *productToResponse(&p))
	}
	return items, nil
}

// ImportXLSX bulk-loads the catalog from a spreadsheet. Expected columns on
// the first sheet, with a header row:
//
//	A: Name  B: Brand  C: Model  D: Price  E: Barcode  F: Stock  G: Category
//
// Optional trailing columns H: CostPrice and I: AlertLevel are read when
// present. Rows with a duplicate barcode or a malformed number are skipped
// and reported, never aborting the rest of the file.
func (s *productService) ImportXLSX(ctx context.Context, r io.Reader) (*dto.ImportResultResponse, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apierror.Validation("file is not a valid .xlsx workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apierror.Validation("cannot read the first sheet")
	}
	if len(rows) < 2 {
		return nil, apierror.Validation("the sheet has no data rows")
	}

	result := &dto.ImportResultResponse{}
	for i, row := range rows[1:] {
		rowNo := i + 2
		cell := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		name, barcode, category := cell(0), cell(4), cell(6)
		if barcode == "" || name == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: barcode and name are required", rowNo))
			continue
		}
		if category == "" {
			category = "uncategorized"
		}

		price, err1 := decimal.NewFromString(zeroIfEmpty(cell(3)))
		costPrice, err2 := decimal.NewFromString(zeroIfEmpty(cell(7)))
		if err1 != nil || err2 != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: bad price value", rowNo))
			continue
		}
		stock, err3 := strconv.Atoi(zeroIfEmpty(cell(5)))
		alert, err4 := strconv.Atoi(zeroIfEmpty(cell(8)))
		if err3 != nil || err4 != nil || stock < 0 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: bad stock value", rowNo))
			continue
		}

		if _, err := s.repo.FindByBarcode(ctx, barcode); err == nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: barcode %s already exists", rowNo, barcode))
			continue
		}

		p := model.Product{
			Barcode:    barcode,
			Name:       name,
			Brand:      cell(1),
			Model:      cell(2),
			Category:   category,
			CostPrice:  costPrice,
			Price:      price,
			Stock:      stock,
			AlertLevel: alert,
			Active:     true,
		}
		if err := s.repo.Create(ctx, &p); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNo, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// PriceCheck is the public kiosk lookup: barcode in, current price out.
// Served from the Redis cache when warm.
func (s *productService) PriceCheck(ctx context.Context, barcode string) (*dto.PriceCheckResponse, error) {
	if s.cache != nil {
		var cached dto.PriceCheckResponse
		if err := s.cache.Get(ctx, barcode, &cached); err == nil {
			return &cached, nil
		}
	}

	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, apierror.NotFound("no product with that barcode")
	}

	resp := &dto.PriceCheckResponse{
		Name:     p.Name,
		Brand:    p.Brand,
		Model:    p.Model,
		Price:    p.Price,
		InStock:  p.Stock,
		Category: p.Category,
	}
	if s.cache != nil {
		s.cache.Set(ctx, barcode, resp)
	}
	return resp, nil
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	var supplierID *string
	if p.SupplierID != nil {
		v := p.SupplierID.String()
		supplierID = &v
	}
	return &dto.ProductResponse{
		ID:         p.ID.String(),
		Barcode:    p.Barcode,
		Name:       p.Name,
		Brand:      p.Brand,
		Model:      p.Model,
		Category:   p.Category,
		CostPrice:  p.CostPrice,
		Price:      p.Price,
		Stock:      p.Stock,
		AlertLevel: p.AlertLevel,
		SupplierID: supplierID,
		Active:     p.Active,
	}
}
