package dto

type CreateWarrantyRequest struct {
	SaleID    string  `json:"sale_id"    validate:"required,uuid"`
	IMEIID    *string `json:"imei_id"    validate:"omitempty,uuid"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"end_date"   validate:"required,datetime=2006-01-02"`
	Terms     string  `json:"terms"`
}

type UpdateWarrantyStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CLAIMED VOIDED"`
}

type WarrantyFilter struct {
	SaleID string `form:"sale_id"`
	Status string `form:"status"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type WarrantyResponse struct {
	ID        string  `json:"id"`
	SaleID    string  `json:"sale_id"`
	IMEIID    *string `json:"imei_id,omitempty"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Terms     string  `json:"terms,omitempty"`
	Status    string  `json:"status"`
	// Expired is derived from EndDate vs now; never persisted.
	Expired bool `json:"expired"`
}

type WarrantyListResponse struct {
	Data  []WarrantyResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
