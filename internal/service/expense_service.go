package service

import (
	"context"
	"time"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"

	"github.com/google/uuid"
)

type ExpenseService interface {
	CreateExpense(ctx context.Context, userID uuid.UUID, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error
	ListExpenses(ctx context.Context, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error)
}

type expenseService struct {
	repo repository.ExpenseRepository
}

func NewExpenseService(repo repository.ExpenseRepository) ExpenseService {
	return &expenseService{repo: repo}
}

func (s *expenseService) CreateExpense(ctx context.Context, userID uuid.UUID, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apierror.Validation("amount must be positive")
	}

	incurredAt := time.Now()
	if req.IncurredAt != "" {
		parsed, err := time.Parse(dateLayout, req.IncurredAt)
		if err != nil {
			return nil, apierror.Validation("invalid incurred_at")
		}
		incurredAt = parsed
	}

	e := model.Expense{
		Category:   req.Category,
		Label:      req.Label,
		Amount:     req.Amount,
		IncurredAt: incurredAt,
		UserID:     userID,
	}
	if err := s.repo.Create(ctx, &e); err != nil {
		return nil, err
	}
	return expenseToResponse(&e), nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("expense not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *expenseService) ListExpenses(ctx context.Context, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	expenses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		items = append(items, *expenseToResponse(&e))
	}
	return &dto.ExpenseListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func expenseToResponse(e *model.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:         e.ID.String(),
		Category:   e.Category,
		Label:      e.Label,
		Amount:     e.Amount,
		IncurredAt: e.IncurredAt.Format(dateLayout),
		UserID:     e.UserID.String(),
	}
}
