package repository

import (
	"context"

	"phoneshop/internal/dto"
	"phoneshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IMEIRepository interface {
	Create(ctx context.Context, unit *model.IMEI) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.IMEI, error)
	FindByIMEI(ctx context.Context, imei string) (*model.IMEI, error)
	List(ctx context.Context, filter dto.IMEIFilter) ([]model.IMEI, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// Tx variants used by the ledger inside sale/purchase transactions.
	CreateTx(tx *gorm.DB, unit *model.IMEI) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.IMEI, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
}

type imeiRepo struct{ db *gorm.DB }

func NewIMEIRepository(db *gorm.DB) IMEIRepository { return &imeiRepo{db: db} }

func (r *imeiRepo) Create(ctx context.Context, unit *model.IMEI) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *imeiRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.IMEI, error) {
	var unit model.IMEI
	err := r.db.WithContext(ctx).Preload("Product").First(&unit, id).Error
	return &unit, err
}

func (r *imeiRepo) FindByIMEI(ctx context.Context, imei string) (*model.IMEI, error) {
	var unit model.IMEI
	err := r.db.WithContext(ctx).Where("imei = ?", imei).First(&unit).Error
	return &unit, err
}

func (r *imeiRepo) List(ctx context.Context, filter dto.IMEIFilter) ([]model.IMEI, int64, error) {
	var units []model.IMEI
	var total int64

	q := r.db.WithContext(ctx).Model(&model.IMEI{})
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Product").Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&units).Error
	return units, total, err
}

func (r *imeiRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.IMEI{}).Where("id = ?", id).Update("status", status).Error
}

func (r *imeiRepo) CreateTx(tx *gorm.DB, unit *model.IMEI) error {
	return tx.Create(unit).Error
}

func (r *imeiRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.IMEI, error) {
	var unit model.IMEI
	err := tx.First(&unit, id).Error
	return &unit, err
}

func (r *imeiRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.IMEI{}).Where("id = ?", id).Update("status", status).Error
}
