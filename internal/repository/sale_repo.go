package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"phoneshop/internal/dto"
	"phoneshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStaleStatus reports a guarded write that matched no row: the status (or
// balance) changed after the caller loaded it. Services surface it as a
// conflict.
var ErrStaleStatus = errors.New("row changed since it was read")

type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	// UpdateStatusTx moves the sale from `from` to `to`. When the row no
	// longer holds `from` it returns ErrStaleStatus and writes nothing.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) error
	// NextInvoiceNo allocates the next day-scoped invoice number inside tx.
	NextInvoiceNo(ctx context.Context, tx *gorm.DB, day time.Time) (string, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("Items.IMEI").Preload("Customer").
		First(&s, id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Product").Preload("Items.IMEI").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) error {
	res := tx.Model(&model.Sale{}).
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

// NextInvoiceNo finds the greatest invoice number with today's prefix, locks
// it, and returns prefix + (suffix+1) zero-padded to 4 digits. The suffix
// widens past 9999 instead of erroring. Two concurrent first-sales-of-the-day
// find no row to lock; the unique index on invoice_no then fails one of the
// two transactions, which the caller surfaces as a conflict.
func (r *saleRepo) NextInvoiceNo(ctx context.Context, tx *gorm.DB, day time.Time) (string, error) {
	prefix := "INV-" + day.Format("20060102") + "-"

	var last model.Sale
	err := tx.WithContext(ctx).Model(&model.Sale{}).
		Select("invoice_no").
		Where("invoice_no LIKE ?", prefix+"%").
		Order("invoice_no DESC").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}

	seq := 0
	if last.InvoiceNo != "" {
		n, perr := strconv.Atoi(strings.TrimPrefix(last.InvoiceNo, prefix))
		if perr != nil {
			return "", fmt.Errorf("malformed invoice number %q: %w", last.InvoiceNo, perr)
		}
		seq = n
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}
