package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
	// IMEIID pins the sale line to a specific serialized unit.
	IMEIID *string `json:"imei_id" validate:"omitempty,uuid"`
}

type CreateSaleRequest struct {
	CustomerID    *string           `json:"customer_id"    validate:"omitempty,uuid"`
	Items         []SaleItemRequest `json:"items"          validate:"required,min=1,dive"`
	PaidAmount    decimal.Decimal   `json:"paid_amount"    validate:"required"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card transfer installment"`
	// CustomerEmail: when present, the receipt worker mails the PDF receipt.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type VoidSaleRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type SaleFilter struct {
	Date       string `form:"date"`   // YYYY-MM-DD; empty = today
	Status     string `form:"status"` // COMPLETED | VOIDED | REFUNDED | all
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	IMEI      *string         `json:"imei,omitempty"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	InvoiceNo     string             `json:"invoice_no"`
	CustomerID    *string            `json:"customer_id,omitempty"`
	Status        string             `json:"status"`
	Items         []SaleItemResponse `json:"items"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	ChangeAmount  decimal.Decimal    `json:"change_amount"`
	PaymentMethod string             `json:"payment_method"`
	CreatedAt     string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
