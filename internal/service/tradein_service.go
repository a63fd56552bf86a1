package service

import (
	"context"
	"fmt"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TradeInService interface {
	CreateTradeIn(ctx context.Context, req dto.CreateTradeInRequest) (*dto.TradeInResponse, error)
	AcceptTradeIn(ctx context.Context, id uuid.UUID, req dto.AcceptTradeInRequest) (*dto.TradeInResponse, error)
	RejectTradeIn(ctx context.Context, id uuid.UUID) (*dto.TradeInResponse, error)
	MarkResold(ctx context.Context, id uuid.UUID) (*dto.TradeInResponse, error)
	GetTradeIn(ctx context.Context, id uuid.UUID) (*dto.TradeInResponse, error)
	ListTradeIns(ctx context.Context, filter dto.TradeInFilter) (*dto.TradeInListResponse, error)
}

type tradeInService struct {
	repo      repository.TradeInRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	imeis     repository.IMEIRepository
	ledger    LedgerService
}

func NewTradeInService(
	repo repository.TradeInRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	imeis repository.IMEIRepository,
	ledger LedgerService,
) TradeInService {
	return &tradeInService{repo: repo, customers: customers, products: products, imeis: imeis, ledger: ledger}
}

func (s *tradeInService) CreateTradeIn(ctx context.Context, req dto.CreateTradeInRequest) (*dto.TradeInResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("invalid customer_id")
	}
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, apierror.NotFound("customer not found")
	}
	if !req.OfferedAmount.IsPositive() {
		return nil, apierror.Validation("offered amount must be positive")
	}
	// A device already in our books cannot be traded in again.
	if _, err := s.imeis.FindByIMEI(ctx, req.IMEI); err == nil {
		return nil, apierror.Conflict(fmt.Sprintf("IMEI %s is already registered in inventory", req.IMEI))
	}

	t := model.TradeIn{
		CustomerID:    customerID,
		DeviceModel:   req.DeviceModel,
		IMEI:          req.IMEI,
		OfferedAmount: req.OfferedAmount,
		Status:        model.TradeInPending,
	}
	if err := s.repo.Create(ctx, &t); err != nil {
		return nil, err
	}
	return tradeInToResponse(&t), nil
}

// AcceptTradeIn registers the device's IMEI against the resale product as
// TRADED_IN. Stock is NOT counted yet; the unit enters sellable inventory
// only when marked resold.
func (s *tradeInService) AcceptTradeIn(ctx context.Context, id uuid.UUID, req dto.AcceptTradeInRequest) (*dto.TradeInResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("trade-in not found")
	}
	if !model.TradeInCanTransition(t.Status, model.TradeInAccepted) {
		return nil, apierror.Conflict(fmt.Sprintf("cannot accept a %s trade-in", t.Status))
	}

	resaleID, err := uuid.Parse(req.ResaleProductID)
	if err != nil {
		return nil, apierror.Validation("invalid resale_product_id")
	}
	if _, err := s.products.FindByID(ctx, resaleID); err != nil {
		return nil, apierror.NotFound("resale product not found")
	}

	t.Status = model.TradeInAccepted
	t.ResaleProductID = &resaleID

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.imeis.CreateTx(tx, &model.IMEI{
			IMEI:      t.IMEI,
			ProductID: resaleID,
			Status:    model.IMEITradedIn,
		}); err != nil {
			return err
		}
		return s.repo.UpdateTx(tx, t)
	}); err != nil {
		return nil, err
	}
	return tradeInToResponse(t), nil
}

func (s *tradeInService) RejectTradeIn(ctx context.Context, id uuid.UUID) (*dto.TradeInResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("trade-in not found")
	}
	if !model.TradeInCanTransition(t.Status, model.TradeInRejected) {
		return nil, apierror.Conflict(fmt.Sprintf("cannot reject a %s trade-in", t.Status))
	}
	t.Status = model.TradeInRejected
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return tradeInToResponse(t), nil
}

// MarkResold puts the refurbished unit into sellable inventory: its IMEI flips
// to IN_STOCK and the resale product's stock is counted up through the ledger.
func (s *tradeInService) MarkResold(ctx context.Context, id uuid.UUID) (*dto.TradeInResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("trade-in not found")
	}
	if !model.TradeInCanTransition(t.Status, model.TradeInResold) {
		return nil, apierror.Conflict(fmt.Sprintf("cannot resell a %s trade-in", t.Status))
	}

	unit, err := s.imeis.FindByIMEI(ctx, t.IMEI)
	if err != nil {
		return nil, apierror.Invariant(fmt.Sprintf("accepted trade-in %s has no registered IMEI", t.IMEI))
	}

	t.Status = model.TradeInResold
	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.ledger.TradeInResoldTx(tx, t, unit.ID); err != nil {
			return err
		}
		return s.repo.UpdateTx(tx, t)
	}); err != nil {
		return nil, err
	}
	return tradeInToResponse(t), nil
}

func (s *tradeInService) GetTradeIn(ctx context.Context, id uuid.UUID) (*dto.TradeInResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("trade-in not found")
	}
	return tradeInToResponse(t), nil
}

func (s *tradeInService) ListTradeIns(ctx context.Context, filter dto.TradeInFilter) (*dto.TradeInListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	tradeIns, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TradeInResponse, 0, len(tradeIns))
	for _, t := range tradeIns {
		items = append(items, *tradeInToResponse(&t))
	}
	return &dto.TradeInListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func tradeInToResponse(t *model.TradeIn) *dto.TradeInResponse {
	var resaleID *string
	if t.ResaleProductID != nil {
		v := t.ResaleProductID.String()
		resaleID = &v
	}
	return &dto.TradeInResponse{
		ID:              t.ID.String(),
		CustomerID:      t.CustomerID.String(),
		DeviceModel:     t.DeviceModel,
		IMEI:            t.IMEI,
		OfferedAmount:   t.OfferedAmount,
		Status:          t.Status,
		ResaleProductID: resaleID,
		CreatedAt:       t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
