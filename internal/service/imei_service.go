package service

import (
	"context"
	"fmt"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"

	"github.com/google/uuid"
)

type IMEIService interface {
	RegisterIMEI(ctx context.Context, req dto.RegisterIMEIRequest) (*dto.IMEIResponse, error)
	GetIMEI(ctx context.Context, id uuid.UUID) (*dto.IMEIResponse, error)
	LookupIMEI(ctx context.Context, imei string) (*dto.IMEIResponse, error)
	ListIMEIs(ctx context.Context, filter dto.IMEIFilter) (*dto.IMEIListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.IMEIResponse, error)
}

type imeiService struct {
	repo     repository.IMEIRepository
	products repository.ProductRepository
}

func NewIMEIService(repo repository.IMEIRepository, products repository.ProductRepository) IMEIService {
	return &imeiService{repo: repo, products: products}
}

// RegisterIMEI adds a serialized unit manually, outside the purchase flow.
// It does NOT touch Product.Stock; receiving a purchase does that.
func (s *imeiService) RegisterIMEI(ctx context.Context, req dto.RegisterIMEIRequest) (*dto.IMEIResponse, error) {
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("invalid product_id")
	}
	if _, err := s.products.FindByID(ctx, pid); err != nil {
		return nil, apierror.NotFound("product not found")
	}
	if _, err := s.repo.FindByIMEI(ctx, req.IMEI); err == nil {
		return nil, apierror.Conflict(fmt.Sprintf("IMEI %s is already registered", req.IMEI))
	}

	unit := model.IMEI{
		IMEI:      req.IMEI,
		ProductID: pid,
		Status:    model.IMEIInStock,
	}
	if err := s.repo.Create(ctx, &unit); err != nil {
		return nil, err
	}
	return imeiToResponse(&unit), nil
}

func (s *imeiService) GetIMEI(ctx context.Context, id uuid.UUID) (*dto.IMEIResponse, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("IMEI not found")
	}
	return imeiToResponse(unit), nil
}

func (s *imeiService) LookupIMEI(ctx context.Context, imei string) (*dto.IMEIResponse, error) {
	unit, err := s.repo.FindByIMEI(ctx, imei)
	if err != nil {
		return nil, apierror.NotFound("IMEI not found")
	}
	return imeiToResponse(unit), nil
}

func (s *imeiService) ListIMEIs(ctx context.Context, filter dto.IMEIFilter) (*dto.IMEIListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	units, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.IMEIResponse, 0, len(units))
	for _, unit := range units {
		items = append(items, *imeiToResponse(&unit))
	}
	return &dto.IMEIListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// UpdateStatus applies a manual correction. A SOLD unit is owned by its sale:
// it only comes back through a void or refund, never by hand. TRADED_IN is
// likewise owned by the trade-in flow.
func (s *imeiService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.IMEIResponse, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("IMEI not found")
	}
	if unit.Status == model.IMEISold || unit.Status == model.IMEITradedIn {
		return nil, apierror.Conflict(fmt.Sprintf("IMEI %s is %s and can only change through its owning flow", unit.IMEI, unit.Status))
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	unit.Status = status
	return imeiToResponse(unit), nil
}

func imeiToResponse(unit *model.IMEI) *dto.IMEIResponse {
	name := ""
	if unit.Product != nil {
		name = unit.Product.Name
	}
	return &dto.IMEIResponse{
		ID:        unit.ID.String(),
		IMEI:      unit.IMEI,
		ProductID: unit.ProductID.String(),
		Product:   name,
		Status:    unit.Status,
		CreatedAt: unit.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
