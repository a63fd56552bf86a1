package repository

import (
	"context"

	"phoneshop/internal/model"

	"gorm.io/gorm"
)

// ReportRepository runs the read-only aggregates behind the reports endpoints.
type ReportRepository interface {
	DailySales(ctx context.Context, date string) (*DailySalesRow, []MethodTotal, error)
}

// DailySalesRow is the per-day header aggregate.
type DailySalesRow struct {
	SaleCount   int64
	VoidedCount int64
	RefundCount int64
	GrossTotal  string // text scan keeps decimal precision
	ItemsSold   int64
}

// MethodTotal is the per-payment-method breakdown of completed sales.
type MethodTotal struct {
	PaymentMethod string
	Total         string
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) DailySales(ctx context.Context, date string) (*DailySalesRow, []MethodTotal, error) {
	var row DailySalesRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
		  COUNT(*) FILTER (WHERE status = ?)                          AS sale_count,
		  COUNT(*) FILTER (WHERE status = ?)                          AS voided_count,
		  COUNT(*) FILTER (WHERE status = ?)                          AS refund_count,
		  COALESCE(SUM(total_amount) FILTER (WHERE status = ?), 0)::text AS gross_total,
		  COALESCE((SELECT SUM(si.quantity)
		            FROM sale_items si JOIN sales s2 ON s2.id = si.sale_id
		            WHERE DATE(s2.created_at) = ? AND s2.status = ?), 0) AS items_sold
		FROM sales
		WHERE DATE(created_at) = ?`,
		model.SaleCompleted, model.SaleVoided, model.SaleRefunded,
		model.SaleCompleted, date, model.SaleCompleted, date,
	).Scan(&row).Error
	if err != nil {
		return nil, nil, err
	}

	var methods []MethodTotal
	err = r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("payment_method, SUM(total_amount)::text AS total").
		Where("DATE(created_at) = ? AND status = ?", date, model.SaleCompleted).
		Group("payment_method").
		Scan(&methods).Error
	return &row, methods, err
}
