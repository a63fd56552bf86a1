package dto

// Suppliers and customers share the same thin contact shape.

type CreateSupplierRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=100"`
	Phone   string  `json:"phone"   validate:"required,min=5,max=20"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=2,max=100"`
	Phone   *string `json:"phone"   validate:"omitempty,min=5,max=20"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
}

type SupplierResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
	Active  bool    `json:"active"`
}

type CreateCustomerRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=100"`
	Phone   string  `json:"phone"   validate:"required,min=5,max=20"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=2,max=100"`
	Phone   *string `json:"phone"   validate:"omitempty,min=5,max=20"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type CustomerResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

type ContactFilter struct {
	Search string `form:"search"` // matches name or phone
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}
