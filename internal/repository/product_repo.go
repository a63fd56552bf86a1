package repository

import (
	"context"

	"phoneshop/internal/dto"
	"phoneshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	LowStock(ctx context.Context) ([]model.Product, error)

	// Used inside transactions; callers must pass the tx instance.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("barcode = ? AND active = true", barcode).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	// Active filter: "false" = inactive, "all" = everything, default = active
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Barcode != "" {
		q = q.Where("barcode = ?", filter.Barcode)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Brand != "" {
		q = q.Where("brand = ?", filter.Brand)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", false).Error
}

func (r *productRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", true).Error
}

func (r *productRepo) LowStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("active = true AND stock <= alert_level").
		Order("stock ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.First(&p, id).Error
	return &p, err
}

func (r *productRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
