package repository

import (
	"context"

	"phoneshop/internal/dto"
	"phoneshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RepairRepository interface {
	Create(ctx context.Context, rep *model.Repair) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Repair, error)
	List(ctx context.Context, filter dto.RepairFilter) ([]model.Repair, int64, error)
	Update(ctx context.Context, rep *model.Repair) error
}

type repairRepo struct{ db *gorm.DB }

func NewRepairRepository(db *gorm.DB) RepairRepository { return &repairRepo{db: db} }

func (r *repairRepo) Create(ctx context.Context, rep *model.Repair) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *repairRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Repair, error) {
	var rep model.Repair
	err := r.db.WithContext(ctx).Preload("Customer").First(&rep, id).Error
	return &rep, err
}

func (r *repairRepo) List(ctx context.Context, filter dto.RepairFilter) ([]model.Repair, int64, error) {
	var repairs []model.Repair
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Repair{})
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Customer").Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&repairs).Error
	return repairs, total, err
}

func (r *repairRepo) Update(ctx context.Context, rep *model.Repair) error {
	return r.db.WithContext(ctx).Save(rep).Error
}
