package dto

import "github.com/shopspring/decimal"

type CreateExpenseRequest struct {
	Category   string          `json:"category"    validate:"required,min=2"`
	Label      string          `json:"label"       validate:"required,min=2"`
	Amount     decimal.Decimal `json:"amount"      validate:"required"`
	IncurredAt string          `json:"incurred_at" validate:"omitempty,datetime=2006-01-02"`
}

type ExpenseFilter struct {
	Category string `form:"category"`
	From     string `form:"from"` // YYYY-MM-DD
	To       string `form:"to"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ExpenseResponse struct {
	ID         string          `json:"id"`
	Category   string          `json:"category"`
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"`
	IncurredAt string          `json:"incurred_at"`
	UserID     string          `json:"user_id"`
}

type ExpenseListResponse struct {
	Data  []ExpenseResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
