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

type RepairService interface {
	CreateRepair(ctx context.Context, req dto.CreateRepairRequest) (*dto.RepairResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateRepairStatusRequest) (*dto.RepairResponse, error)
	GetRepair(ctx context.Context, id uuid.UUID) (*dto.RepairResponse, error)
	ListRepairs(ctx context.Context, filter dto.RepairFilter) (*dto.RepairListResponse, error)
}

type repairService struct {
	repo      repository.RepairRepository
	customers repository.CustomerRepository
}

func NewRepairService(repo repository.RepairRepository, customers repository.CustomerRepository) RepairService {
	return &repairService{repo: repo, customers: customers}
}

func (s *repairService) CreateRepair(ctx context.Context, req dto.CreateRepairRequest) (*dto.RepairResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("invalid customer_id")
	}
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, apierror.NotFound("customer not found")
	}
	if req.EstimatedCost.IsNegative() {
		return nil, apierror.Validation("estimated cost cannot be negative")
	}

	rep := model.Repair{
		CustomerID:    customerID,
		DeviceModel:   req.DeviceModel,
		IMEI:          req.IMEI,
		Issue:         req.Issue,
		EstimatedCost: req.EstimatedCost,
		Status:        model.RepairReceived,
	}
	if err := s.repo.Create(ctx, &rep); err != nil {
		return nil, err
	}
	return repairToResponse(&rep), nil
}

// UpdateStatus walks the repair through the workshop pipeline. FinalCost must
// be set when completing and cannot change afterwards.
func (s *repairService) UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateRepairStatusRequest) (*dto.RepairResponse, error) {
	rep, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("repair not found")
	}
	if !model.RepairCanTransition(rep.Status, req.Status) {
		return nil, apierror.Conflict(fmt.Sprintf("cannot move a %s repair to %s", rep.Status, req.Status))
	}

	if req.Status == model.RepairCompleted {
		if req.FinalCost == nil {
			return nil, apierror.Validation("final_cost is required when completing a repair")
		}
		if req.FinalCost.IsNegative() {
			return nil, apierror.Validation("final cost cannot be negative")
		}
		rep.FinalCost = req.FinalCost
	} else if req.FinalCost != nil {
		return nil, apierror.Validation("final_cost can only be set when completing")
	}

	rep.Status = req.Status
	if err := s.repo.Update(ctx, rep); err != nil {
		return nil, err
	}
	return repairToResponse(rep), nil
}

func (s *repairService) GetRepair(ctx context.Context, id uuid.UUID) (*dto.RepairResponse, error) {
	rep, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("repair not found")
	}
	return repairToResponse(rep), nil
}

func (s *repairService) ListRepairs(ctx context.Context, filter dto.RepairFilter) (*dto.RepairListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	repairs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RepairResponse, 0, len(repairs))
	for _, rep := range repairs {
		items = append(items, *repairToResponse(&rep))
	}
	return &dto.RepairListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func repairToResponse(rep *model.Repair) *dto.RepairResponse {
	customer := ""
	if rep.Customer != nil {
		customer = rep.Customer.Name
	}
	return &dto.RepairResponse{
		ID:            rep.ID.String(),
		CustomerID:    rep.CustomerID.String(),
		Customer:      customer,
		DeviceModel:   rep.DeviceModel,
		IMEI:          rep.IMEI,
		Issue:         rep.Issue,
		EstimatedCost: rep.EstimatedCost,
		FinalCost:     rep.FinalCost,
		Status:        rep.Status,
		CreatedAt:     rep.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
