package repository

import (
	"context"

	"phoneshop/internal/dto"
	"phoneshop/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InstallmentRepository interface {
	Create(ctx context.Context, i *model.Installment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Installment, error)
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.Installment, error)
	List(ctx context.Context, filter dto.InstallmentFilter) ([]model.Installment, int64, error)
	// AddPaymentTx inserts the payment row and updates remaining/status in
	// the same transaction.
	AddPaymentTx(tx *gorm.DB, p *model.InstallmentPayment) error
	// UpdateTx writes the new balance and status, guarded on the balance the
	// caller read and on the plan still being ACTIVE; ErrStaleStatus when
	// another payment (or a default) landed in between.
	UpdateTx(tx *gorm.DB, id uuid.UUID, prevRemaining, remaining decimal.Decimal, status string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	DB() *gorm.DB
}

type installmentRepo struct{ db *gorm.DB }

func NewInstallmentRepository(db *gorm.DB) InstallmentRepository { return &installmentRepo{db: db} }

func (r *installmentRepo) DB() *gorm.DB { return r.db }

func (r *installmentRepo) Create(ctx context.Context, i *model.Installment) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *installmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Installment, error) {
	var i model.Installment
	err := r.db.WithContext(ctx).Preload("Payments").First(&i, id).Error
	return &i, err
}

func (r *installmentRepo) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.Installment, error) {
	var i model.Installment
	err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).First(&i).Error
	return &i, err
}

func (r *installmentRepo) List(ctx context.Context, filter dto.InstallmentFilter) ([]model.Installment, int64, error) {
	var installments []model.Installment
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Installment{})
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
	err := q.Preload("Payments").Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&installments).Error
	return installments, total, err
}

func (r *installmentRepo) AddPaymentTx(tx *gorm.DB, p *model.InstallmentPayment) error {
	return tx.Create(p).Error
}

func (r *installmentRepo) UpdateTx(tx *gorm.DB, id uuid.UUID, prevRemaining, remaining decimal.Decimal, status string) error {
	res := tx.Model(&model.Installment{}).
		Where("id = ? AND remaining = ? AND status = ?", id, prevRemaining, model.InstallmentActive).
		Updates(map[string]interface{}{
			"remaining": remaining,
			"status":    status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *installmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Installment{}).Where("id = ?", id).Update("status", status).Error
}
