package dto

type RegisterIMEIRequest struct {
	IMEI      string `json:"imei"       validate:"required,min=14,max=16,numeric"`
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type UpdateIMEIStatusRequest struct {
	// Manual corrections only: RESERVED, DEFECTIVE, TRANSFERRED, IN_STOCK.
	// SOLD and TRADED_IN are driven by the sale/trade-in flows, not this endpoint.
	Status string `json:"status" validate:"required,oneof=IN_STOCK RESERVED DEFECTIVE TRANSFERRED"`
}

type IMEIFilter struct {
	ProductID string `form:"product_id"`
	Status    string `form:"status"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type IMEIResponse struct {
	ID        string `json:"id"`
	IMEI      string `json:"imei"`
	ProductID string `json:"product_id"`
	Product   string `json:"product,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type IMEIListResponse struct {
	Data  []IMEIResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
