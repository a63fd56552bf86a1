package dto

import "github.com/shopspring/decimal"

type CreateInstallmentRequest struct {
	SaleID        string          `json:"sale_id"        validate:"required,uuid"`
	CustomerID    string          `json:"customer_id"    validate:"required,uuid"`
	DownPayment   decimal.Decimal `json:"down_payment"   validate:"min=0"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount" validate:"required"`
	TotalMonths   int             `json:"total_months"   validate:"required,min=1,max=36"`
}

type InstallmentPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Note   *string         `json:"note"`
}

type InstallmentFilter struct {
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"` // ACTIVE | COMPLETED | DEFAULTED | all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type InstallmentPaymentResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Note   *string         `json:"note,omitempty"`
	PaidAt string          `json:"paid_at"`
}

type InstallmentResponse struct {
	ID            string                       `json:"id"`
	SaleID        string                       `json:"sale_id"`
	CustomerID    string                       `json:"customer_id"`
	TotalAmount   decimal.Decimal              `json:"total_amount"`
	DownPayment   decimal.Decimal              `json:"down_payment"`
	MonthlyAmount decimal.Decimal              `json:"monthly_amount"`
	TotalMonths   int                          `json:"total_months"`
	Remaining     decimal.Decimal              `json:"remaining"`
	Status        string                       `json:"status"`
	Payments      []InstallmentPaymentResponse `json:"payments,omitempty"`
	CreatedAt     string                       `json:"created_at"`
}

type InstallmentListResponse struct {
	Data  []InstallmentResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
