package dto

import "github.com/shopspring/decimal"

type CreateRepairRequest struct {
	CustomerID    string          `json:"customer_id"    validate:"required,uuid"`
	DeviceModel   string          `json:"device_model"   validate:"required,min=2"`
	IMEI          *string         `json:"imei"           validate:"omitempty,min=14,max=16,numeric"`
	Issue         string          `json:"issue"          validate:"required,min=3"`
	EstimatedCost decimal.Decimal `json:"estimated_cost" validate:"min=0"`
}

type UpdateRepairStatusRequest struct {
	Status    string           `json:"status"     validate:"required,oneof=DIAGNOSING WAITING_PARTS REPAIRING COMPLETED DELIVERED CANCELLED"`
	FinalCost *decimal.Decimal `json:"final_cost"`
}

type RepairFilter struct {
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type RepairResponse struct {
	ID            string           `json:"id"`
	CustomerID    string           `json:"customer_id"`
	Customer      string           `json:"customer,omitempty"`
	DeviceModel   string           `json:"device_model"`
	IMEI          *string          `json:"imei,omitempty"`
	Issue         string           `json:"issue"`
	EstimatedCost decimal.Decimal  `json:"estimated_cost"`
	FinalCost     *decimal.Decimal `json:"final_cost,omitempty"`
	Status        string           `json:"status"`
	CreatedAt     string           `json:"created_at"`
}

type RepairListResponse struct {
	Data  []RepairResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
