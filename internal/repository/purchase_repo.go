package repository

import (
	"context"

	"phoneshop/internal/dto"
	"phoneshop/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error)
	// UpdateStatusTx moves the purchase from `from` to `to`; ErrStaleStatus
	// when the row no longer holds `from`.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddPaymentTx(tx *gorm.DB, p *model.PurchasePayment) error
	// UpdateReconciliationTx writes the new paid/credit amounts, guarded on
	// the credit the caller read; ErrStaleStatus when another payment landed
	// in between.
	UpdateReconciliationTx(tx *gorm.DB, id uuid.UUID, prevCredit, paid, credit decimal.Decimal) error
	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Purchase) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("Items.IMEIs").
		Preload("Expenses").Preload("Payments").Preload("Supplier").
		First(&p, id).Error
	return &p, err
}

func (r *purchaseRepo) List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	var purchases []model.Purchase
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Purchase{})
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.Product").Preload("Expenses").Preload("Payments").Preload("Supplier").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&purchases).Error
	return purchases, total, err
}

func (r *purchaseRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) error {
	res := tx.Model(&model.Purchase{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *purchaseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items", "Expenses", "Payments").Delete(&model.Purchase{ID: id}).Error
}

func (r *purchaseRepo) AddPaymentTx(tx *gorm.DB, p *model.PurchasePayment) error {
	return tx.Create(p).Error
}

func (r *purchaseRepo) UpdateReconciliationTx(tx *gorm.DB, id uuid.UUID, prevCredit, paid, credit decimal.Decimal) error {
	res := tx.Model(&model.Purchase{}).
		Where("id = ? AND credit_amount = ?", id, prevCredit).
		Updates(map[string]interface{}{
			"paid_amount":   paid,
			"credit_amount": credit,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}
