package repository

import (
	"context"

	"phoneshop/internal/dto"
	"phoneshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WarrantyRepository interface {
	Create(ctx context.Context, w *model.Warranty) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Warranty, error)
	List(ctx context.Context, filter dto.WarrantyFilter) ([]model.Warranty, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type warrantyRepo struct{ db *gorm.DB }

func NewWarrantyRepository(db *gorm.DB) WarrantyRepository { return &warrantyRepo{db: db} }

func (r *warrantyRepo) Create(ctx context.Context, w *model.Warranty) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *warrantyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Warranty, error) {
	var w model.Warranty
	err := r.db.WithContext(ctx).First(&w, id).Error
	return &w, err
}

func (r *warrantyRepo) List(ctx context.Context, filter dto.WarrantyFilter) ([]model.Warranty, int64, error) {
	var warranties []model.Warranty
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Warranty{})
	if filter.SaleID != "" {
		q = q.Where("sale_id = ?", filter.SaleID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&warranties).Error
	return warranties, total, err
}

func (r *warrantyRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Warranty{}).Where("id = ?", id).Update("status", status).Error
}
