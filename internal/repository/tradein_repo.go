package repository

import (
	"context"

	"phoneshop/internal/dto"
	"phoneshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TradeInRepository interface {
	Create(ctx context.Context, t *model.TradeIn) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TradeIn, error)
	List(ctx context.Context, filter dto.TradeInFilter) ([]model.TradeIn, int64, error)
	UpdateTx(tx *gorm.DB, t *model.TradeIn) error
	Update(ctx context.Context, t *model.TradeIn) error
	DB() *gorm.DB
}

type tradeInRepo struct{ db *gorm.DB }

func NewTradeInRepository(db *gorm.DB) TradeInRepository { return &tradeInRepo{db: db} }

func (r *tradeInRepo) DB() *gorm.DB { return r.db }

func (r *tradeInRepo) Create(ctx context.Context, t *model.TradeIn) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tradeInRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TradeIn, error) {
	var t model.TradeIn
	err := r.db.WithContext(ctx).Preload("Customer").First(&t, id).Error
	return &t, err
}

func (r *tradeInRepo) List(ctx context.Context, filter dto.TradeInFilter) ([]model.TradeIn, int64, error) {
	var tradeIns []model.TradeIn
	var total int64

	q := r.db.WithContext(ctx).Model(&model.TradeIn{})
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
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&tradeIns).Error
	return tradeIns, total, err
}

func (r *tradeInRepo) UpdateTx(tx *gorm.DB, t *model.TradeIn) error {
	return tx.Save(t).Error
}

func (r *tradeInRepo) Update(ctx context.Context, t *model.TradeIn) error {
	return r.db.WithContext(ctx).Save(t).Error
}
