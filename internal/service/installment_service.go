package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InstallmentService interface {
	CreateInstallment(ctx context.Context, req dto.CreateInstallmentRequest) (*dto.InstallmentResponse, error)
	AddPayment(ctx context.Context, id uuid.UUID, req dto.InstallmentPaymentRequest) (*dto.InstallmentResponse, error)
	MarkDefaulted(ctx context.Context, id uuid.UUID) error
	GetInstallment(ctx context.Context, id uuid.UUID) (*dto.InstallmentResponse, error)
	ListInstallments(ctx context.Context, filter dto.InstallmentFilter) (*dto.InstallmentListResponse, error)
}

type installmentService struct {
	repo  repository.InstallmentRepository
	sales repository.SaleRepository
}

func NewInstallmentService(repo repository.InstallmentRepository, sales repository.SaleRepository) InstallmentService {
	return &installmentService{repo: repo, sales: sales}
}

// CreateInstallment opens a payment plan against a completed sale. One plan
// per sale; the down payment (what the customer paid at the register) is
// subtracted from the opening balance.
func (s *installmentService) CreateInstallment(ctx context.Context, req dto.CreateInstallmentRequest) (*dto.InstallmentResponse, error) {
	saleID, err := uuid.Parse(req.SaleID)
	if err != nil {
		return nil, apierror.Validation("invalid sale_id")
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("invalid customer_id")
	}

	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, apierror.NotFound("sale not found")
	}
	if sale.Status != model.SaleCompleted {
		return nil, apierror.Conflict(fmt.Sprintf("cannot open a plan on a %s sale", sale.Status))
	}
	if _, err := s.repo.FindBySaleID(ctx, saleID); err == nil {
		return nil, apierror.Conflict("sale already has an installment plan")
	}

	if req.DownPayment.GreaterThan(sale.TotalAmount) {
		return nil, apierror.Validation("down payment exceeds the sale total")
	}
	if !req.MonthlyAmount.IsPositive() {
		return nil, apierror.Validation("monthly amount must be positive")
	}

	inst := model.Installment{
		SaleID:        saleID,
		CustomerID:    customerID,
		TotalAmount:   sale.TotalAmount,
		DownPayment:   req.DownPayment,
		MonthlyAmount: req.MonthlyAmount,
		TotalMonths:   req.TotalMonths,
		Remaining:     sale.TotalAmount.Sub(req.DownPayment),
		Status:        model.InstallmentActive,
	}
	if inst.Remaining.IsZero() {
		inst.Status = model.InstallmentCompleted
	}

	if err := s.repo.Create(ctx, &inst); err != nil {
		return nil, err
	}
	return installmentToResponse(&inst), nil
}

// AddPayment records a payment and reduces the balance. Overpaying the
// remaining balance is rejected; reaching exactly zero completes the plan.
// Payment rows are immutable once written.
func (s *installmentService) AddPayment(ctx context.Context, id uuid.UUID, req dto.InstallmentPaymentRequest) (*dto.InstallmentResponse, error) {
	inst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("installment plan not found")
	}
	if inst.Status != model.InstallmentActive {
		return nil, apierror.Conflict(fmt.Sprintf("cannot pay a %s plan", inst.Status))
	}
	if !req.Amount.IsPositive() {
		return nil, apierror.Validation("payment amount must be positive")
	}
	if req.Amount.GreaterThan(inst.Remaining) {
		return nil, apierror.Validation(fmt.Sprintf("payment %s exceeds remaining balance %s", req.Amount, inst.Remaining))
	}

	newRemaining := inst.Remaining.Sub(req.Amount)
	newStatus := inst.Status
	if newRemaining.IsZero() {
		newStatus = model.InstallmentCompleted
	}

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// The guarded write re-checks the balance inside the transaction: a
		// concurrent payment changes remaining and the update matches
		// nothing, so the balance can never go negative.
		if err := s.repo.UpdateTx(tx, id, inst.Remaining, newRemaining, newStatus); err != nil {
			if errors.Is(err, repository.ErrStaleStatus) {
				return apierror.Conflict("plan balance changed concurrently, refresh and retry")
			}
			return err
		}
		return s.repo.AddPaymentTx(tx, &model.InstallmentPayment{
			InstallmentID: id,
			Amount:        req.Amount,
			Note:          req.Note,
			PaidAt:        time.Now(),
		})
	}); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return installmentToResponse(updated), nil
}

// MarkDefaulted is a manual decision, never derived from missed dates.
func (s *installmentService) MarkDefaulted(ctx context.Context, id uuid.UUID) error {
	inst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("installment plan not found")
	}
	if !model.InstallmentCanTransition(inst.Status, model.InstallmentDefaulted) {
		return apierror.Conflict(fmt.Sprintf("cannot default a %s plan", inst.Status))
	}
	return s.repo.UpdateStatus(ctx, id, model.InstallmentDefaulted)
}

func (s *installmentService) GetInstallment(ctx context.Context, id uuid.UUID) (*dto.InstallmentResponse, error) {
	inst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("installment plan not found")
	}
	return installmentToResponse(inst), nil
}

func (s *installmentService) ListInstallments(ctx context.Context, filter dto.InstallmentFilter) (*dto.InstallmentListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	installments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InstallmentResponse, 0, len(installments))
	for _, inst := range installments {
		items = append(items, *installmentToResponse(&inst))
	}
	return &dto.InstallmentListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func installmentToResponse(inst *model.Installment) *dto.InstallmentResponse {
	payments := make([]dto.InstallmentPaymentResponse, 0, len(inst.Payments))
	for _, p := range inst.Payments {
		payments = append(payments, dto.InstallmentPaymentResponse{
			Amount: p.Amount,
			Note:   p.Note,
			PaidAt: p.PaidAt.Format("2006-01-02 15:04:05"),
		})
	}
	return &dto.InstallmentResponse{
		ID:            inst.ID.String(),
		SaleID:        inst.SaleID.String(),
		CustomerID:    inst.CustomerID.String(),
		TotalAmount:   inst.TotalAmount,
		DownPayment:   inst.DownPayment,
		MonthlyAmount: inst.MonthlyAmount,
		TotalMonths:   inst.TotalMonths,
		Remaining:     inst.Remaining,
		Status:        inst.Status,
		Payments:      payments,
		CreatedAt:     inst.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
