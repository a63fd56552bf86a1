package service

import (
	"context"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"

	"github.com/google/uuid"
)

// Suppliers and customers are thin CRUD; one service covers both.

type ContactService interface {
	CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	ListSuppliers(ctx context.Context, filter dto.ContactFilter) ([]dto.SupplierResponse, int64, error)
	DeactivateSupplier(ctx context.Context, id uuid.UUID) error

	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context, filter dto.ContactFilter) ([]dto.CustomerResponse, int64, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

type contactService struct {
	suppliers repository.SupplierRepository
	customers repository.CustomerRepository
}

func NewContactService(suppliers repository.SupplierRepository, customers repository.CustomerRepository) ContactService {
	return &contactService{suppliers: suppliers, customers: customers}
}

func (s *contactService) CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	sup := model.Supplier{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Active:  true,
	}
	if err := s.suppliers.Create(ctx, &sup); err != nil {
		return nil, apierror.Conflict("a supplier with that phone already exists")
	}
	return supplierToResponse(&sup), nil
}

func (s *contactService) UpdateSupplier(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	sup, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("supplier not found")
	}
	if req.Name != nil {
		sup.Name = *req.Name
	}
	if req.Phone != nil {
		sup.Phone = *req.Phone
	}
	if req.Email != nil {
		sup.Email = req.Email
	}
	if req.Address != nil {
		sup.Address = req.Address
	}
	if err := s.suppliers.Update(ctx, sup); err != nil {
		return nil, err
	}
	return supplierToResponse(sup), nil
}

func (s *contactService) GetSupplier(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	sup, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("supplier not found")
	}
	return supplierToResponse(sup), nil
}

func (s *contactService) ListSuppliers(ctx context.Context, filter dto.ContactFilter) ([]dto.SupplierResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	suppliers, total, err := s.suppliers.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for _, sup := range suppliers {
		out = append(out, *supplierToResponse(&sup))
	}
	return out, total, nil
}

func (s *contactService) DeactivateSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.suppliers.FindByID(ctx, id); err != nil {
		return apierror.NotFound("supplier not found")
	}
	return s.suppliers.SoftDelete(ctx, id)
}

func (s *contactService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if _, err := s.customers.FindByPhone(ctx, req.Phone); err == nil {
		return nil, apierror.Conflict("a customer with that phone already exists")
	}
	c := model.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if err := s.customers.Create(ctx, &c); err != nil {
		return nil, err
	}
	return customerToResponse(&c), nil
}

func (s *contactService) UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("customer not found")
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.Notes != nil {
		c.Notes = req.Notes
	}
	if err := s.customers.Update(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *contactService) GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("customer not found")
	}
	return customerToResponse(c), nil
}

func (s *contactService) ListCustomers(ctx context.Context, filter dto.ContactFilter) ([]dto.CustomerResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	customers, total, err := s.customers.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, *customerToResponse(&c))
	}
	return out, total, nil
}

func (s *contactService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		return apierror.NotFound("customer not found")
	}
	return s.customers.Delete(ctx, id)
}

func supplierToResponse(s *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:      s.ID.String(),
		Name:    s.Name,
		Phone:   s.Phone,
		Email:   s.Email,
		Address: s.Address,
		Active:  s.Active,
	}
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:      c.ID.String(),
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
		Notes:   c.Notes,
	}
}
