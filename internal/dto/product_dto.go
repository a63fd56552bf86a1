package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Barcode    string          `json:"barcode"     validate:"required,min=6,max=20"`
	Name       string          `json:"name"        validate:"required,min=2,max=120"`
	Brand      string          `json:"brand"`
	Model      string          `json:"model"`
	Category   string          `json:"category"    validate:"required"`
	CostPrice  decimal.Decimal `json:"cost_price"  validate:"required"`
	Price      decimal.Decimal `json:"price"       validate:"required"`
	Stock      int             `json:"stock"       validate:"min=0"`
	AlertLevel int             `json:"alert_level" validate:"min=0"`
	SupplierID *string         `json:"supplier_id" validate:"omitempty,uuid"`
}

type UpdateProductRequest struct {
	Name       *string          `json:"name"        validate:"omitempty,min=2,max=120"`
	Brand      *string          `json:"brand"`
	Model      *string          `json:"model"`
	Category   *string          `json:"category"`
	CostPrice  *decimal.Decimal `json:"cost_price"`
	Price      *decimal.Decimal `json:"price"`
	AlertLevel *int             `json:"alert_level" validate:"omitempty,min=0"`
	SupplierID *string          `json:"supplier_id" validate:"omitempty,uuid"`
}

// AdjustStockRequest is a manual correction (stocktake); it goes through the
// ledger so a movement row is always written.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Barcode    string `form:"barcode"`
	Name       string `form:"name"`
	Brand      string `form:"brand"`
	Category   string `form:"category"`
	SupplierID string `form:"supplier_id"`
	Active     string `form:"active"` // "false" | "all" | default: active only
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID         string          `json:"id"`
	Barcode    string          `json:"barcode"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	Model      string          `json:"model"`
	Category   string          `json:"category"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	AlertLevel int             `json:"alert_level"`
	SupplierID *string         `json:"supplier_id"`
	Active     bool            `json:"active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ImportResultResponse summarizes an .xlsx catalog import.
type ImportResultResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// PriceCheckResponse is returned by the public barcode lookup (no auth).
type PriceCheckResponse struct {
	Name     string          `json:"name"`
	Brand    string          `json:"brand"`
	Model    string          `json:"model"`
	Price    decimal.Decimal `json:"price"`
	InStock  int             `json:"in_stock"`
	Category string          `json:"category"`
}
