package repository

import (
	"context"

	"phoneshop/internal/dto"
	"phoneshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context, filter dto.ContactFilter) ([]model.Supplier, int64, error)
	Update(ctx context.Context, s *model.Supplier) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *supplierRepo) List(ctx context.Context, filter dto.ContactFilter) ([]model.Supplier, int64, error) {
	var suppliers []model.Supplier
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Supplier{}).Where("active = true")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR phone LIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&suppliers).Error
	return suppliers, total, err
}

func (r *supplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *supplierRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Supplier{}).Where("id = ?", id).Update("active", false).Error
}

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*model.Customer, error)
	List(ctx context.Context, filter dto.ContactFilter) ([]model.Customer, int64, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *customerRepo) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&c).Error
	return &c, err
}

func (r *customerRepo) List(ctx context.Context, filter dto.ContactFilter) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Customer{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR phone LIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&customers).Error
	return customers, total, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Customer{}, id).Error
}
