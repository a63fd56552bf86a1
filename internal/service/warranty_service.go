package service

import (
	"context"
	"fmt"
	"time"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type WarrantyService interface {
	CreateWarranty(ctx context.Context, req dto.CreateWarrantyRequest) (*dto.WarrantyResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.WarrantyResponse, error)
	GetWarranty(ctx context.Context, id uuid.UUID) (*dto.WarrantyResponse, error)
	ListWarranties(ctx context.Context, filter dto.WarrantyFilter) (*dto.WarrantyListResponse, error)
}

type warrantyService struct {
	repo  repository.WarrantyRepository
	sales repository.SaleRepository
	now   func() time.Time
}

func NewWarrantyService(repo repository.WarrantyRepository, sales repository.SaleRepository) WarrantyService {
	return &warrantyService{repo: repo, sales: sales, now: time.Now}
}

func (s *warrantyService) CreateWarranty(ctx context.Context, req dto.CreateWarrantyRequest) (*dto.WarrantyResponse, error) {
	saleID, err := uuid.Parse(req.SaleID)
	if err != nil {
		return nil, apierror.Validation("invalid sale_id")
	}
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, apierror.NotFound("sale not found")
	}
	if sale.Status != model.SaleCompleted {
		return nil, apierror.Conflict(fmt.Sprintf("cannot cover a %s sale", sale.Status))
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, apierror.Validation("invalid start_date")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, apierror.Validation("invalid end_date")
	}
	if !end.After(start) {
		return nil, apierror.Validation("end_date must be after start_date")
	}

	w := model.Warranty{
		SaleID:    saleID,
		StartDate: start,
		EndDate:   end,
		Terms:     req.Terms,
		Status:    model.WarrantyActive,
	}
	if req.IMEIID != nil {
		iid, err := uuid.Parse(*req.IMEIID)
		if err != nil {
			return nil, apierror.Validation("invalid imei_id")
		}
		w.IMEIID = &iid
	}

	if err := s.repo.Create(ctx, &w); err != nil {
		return nil, err
	}
	return s.warrantyToResponse(&w), nil
}

// UpdateStatus handles CLAIMED and VOIDED. An expired warranty can no longer
// be claimed; expiry itself is derived from the end date, never stored.
func (s *warrantyService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.WarrantyResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("warranty not found")
	}
	if !model.WarrantyCanTransition(w.Status, status) {
		return nil, apierror.Conflict(fmt.Sprintf("cannot move a %s warranty to %s", w.Status, status))
	}
	if status == model.WarrantyClaimed && s.expired(w) {
		return nil, apierror.Conflict("warranty has expired")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	w.Status = status
	return s.warrantyToResponse(w), nil
}

func (s *warrantyService) GetWarranty(ctx context.Context, id uuid.UUID) (*dto.WarrantyResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("warranty not found")
	}
	return s.warrantyToResponse(w), nil
}

func (s *warrantyService) ListWarranties(ctx context.Context, filter dto.WarrantyFilter) (*dto.WarrantyListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	warranties, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarrantyResponse, 0, len(warranties))
	for _, w := range warranties {
		items = append(items, *s.warrantyToResponse(&w))
	}
	return &dto.WarrantyListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *warrantyService) expired(w *model.Warranty) bool {
	return s.now().After(w.EndDate.AddDate(0, 0, 1)) // inclusive of the end date
}

func (s *warrantyService) warrantyToResponse(w *model.Warranty) *dto.WarrantyResponse {
	var imeiID *string
	if w.IMEIID != nil {
		v := w.IMEIID.String()
		imeiID = &v
	}
	return &dto.WarrantyResponse{
		ID:        w.ID.String(),
		SaleID:    w.SaleID.String(),
		IMEIID:    imeiID,
		StartDate: w.StartDate.Format(dateLayout),
		EndDate:   w.EndDate.Format(dateLayout),
		Terms:     w.Terms,
		Status:    w.Status,
		Expired:   s.expired(w),
	}
}
