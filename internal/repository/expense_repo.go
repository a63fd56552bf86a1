package repository

import (
	"context"

	"phoneshop/internal/dto"
	"phoneshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, filter dto.ExpenseFilter) ([]model.Expense, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SumByCategory totals expenses per category in [from, to].
	SumByCategory(ctx context.Context, from, to string) ([]CategoryTotal, error)
}

// CategoryTotal is a grouped aggregate row.
type CategoryTotal struct {
	Category string
	Total    string // scanned as text to keep decimal precision
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var e model.Expense
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *expenseRepo) List(ctx context.Context, filter dto.ExpenseFilter) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Expense{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.From != "" {
		q = q.Where("incurred_at >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("incurred_at <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("incurred_at DESC").Limit(filter.Limit).Offset(offset).Find(&expenses).Error
	return expenses, total, err
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Expense{}, id).Error
}

func (r *expenseRepo) SumByCategory(ctx context.Context, from, to string) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Select("category, SUM(amount)::text AS total").
		Where("incurred_at >= ? AND incurred_at <= ?", from, to).
		Group("category").
		Scan(&rows).Error
	return rows, err
}
