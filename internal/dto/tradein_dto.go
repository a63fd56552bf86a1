package dto

import "github.com/shopspring/decimal"

type CreateTradeInRequest struct {
	CustomerID    string          `json:"customer_id"    validate:"required,uuid"`
	DeviceModel   string          `json:"device_model"   validate:"required,min=2"`
	IMEI          string          `json:"imei"           validate:"required,min=14,max=16,numeric"`
	OfferedAmount decimal.Decimal `json:"offered_amount" validate:"required"`
}

// AcceptTradeInRequest names the catalog product the used device is resold
// under; its IMEI is registered against that product as TRADED_IN.
type AcceptTradeInRequest struct {
	ResaleProductID string `json:"resale_product_id" validate:"required,uuid"`
}

type TradeInFilter struct {
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type TradeInResponse struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	DeviceModel     string          `json:"device_model"`
	IMEI            string          `json:"imei"`
	OfferedAmount   decimal.Decimal `json:"offered_amount"`
	Status          string          `json:"status"`
	ResaleProductID *string         `json:"resale_product_id,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type TradeInListResponse struct {
	Data  []TradeInResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
