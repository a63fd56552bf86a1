package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PurchaseItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	UnitCost  decimal.Decimal `json:"unit_cost"  validate:"required"`
	// IMEIs are optional serials for the delivered units; when present their
	// count must not exceed Quantity.
	IMEIs []string `json:"imeis" validate:"omitempty,dive,min=14,max=16,numeric"`
}

type PurchaseExpenseRequest struct {
	Label  string          `json:"label"  validate:"required,min=2"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type PurchasePaymentRequest struct {
	Method string          `json:"method" validate:"required,oneof=cash card transfer"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type CreatePurchaseRequest struct {
	SupplierID   string                   `json:"supplier_id"   validate:"required,uuid"`
	Items        []PurchaseItemRequest    `json:"items"         validate:"required,min=1,dive"`
	ReduceAmount decimal.Decimal          `json:"reduce_amount" validate:"min=0"`
	Expenses     []PurchaseExpenseRequest `json:"expenses"      validate:"omitempty,dive"`
	Payments     []PurchasePaymentRequest `json:"payments"      validate:"omitempty,dive"`
	Notes        *string                  `json:"notes"`
}

// AddPurchasePaymentRequest records a later payment against outstanding credit.
type AddPurchasePaymentRequest struct {
	Method string          `json:"method" validate:"required,oneof=cash card transfer"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type PurchaseFilter struct {
	SupplierID string `form:"supplier_id"`
	Status     string `form:"status"` // PENDING | RECEIVED | CANCELLED | all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PurchaseItemResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	IMEIs     []string        `json:"imeis,omitempty"`
}

type PurchaseExpenseResponse struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type PurchasePaymentResponse struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	PaidAt string          `json:"paid_at"`
}

type PurchaseResponse struct {
	ID           string                    `json:"id"`
	SupplierID   string                    `json:"supplier_id"`
	Supplier     string                    `json:"supplier,omitempty"`
	Status       string                    `json:"status"`
	Items        []PurchaseItemResponse    `json:"items"`
	Expenses     []PurchaseExpenseResponse `json:"expenses,omitempty"`
	Payments     []PurchasePaymentResponse `json:"payments,omitempty"`
	ItemsTotal   decimal.Decimal           `json:"items_total"`
	ReduceAmount decimal.Decimal           `json:"reduce_amount"`
	NetTotal     decimal.Decimal           `json:"net_total"`
	PaidAmount   decimal.Decimal           `json:"paid_amount"`
	CreditAmount decimal.Decimal           `json:"credit_amount"`
	Notes        *string                   `json:"notes,omitempty"`
	CreatedAt    string                    `json:"created_at"`
}

type PurchaseListResponse struct {
	Data  []PurchaseResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
