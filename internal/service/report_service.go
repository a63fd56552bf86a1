package service

import (
	"context"
	"time"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/repository"

	"github.com/shopspring/decimal"
)

type ReportService interface {
	DailySales(ctx context.Context, date string) (*dto.DailySalesReport, error)
	StockAlerts(ctx context.Context) ([]dto.StockAlertItem, error)
	ExpenseSummary(ctx context.Context, from, to string) (*dto.ExpenseSummary, error)
}

type reportService struct {
	reports  repository.ReportRepository
	products repository.ProductRepository
	expenses repository.ExpenseRepository
	now      func() time.Time
}

func NewReportService(
	reports repository.ReportRepository,
	products repository.ProductRepository,
	expenses repository.ExpenseRepository,
) ReportService {
	return &reportService{reports: reports, products: products, expenses: expenses, now: time.Now}
}

// DailySales aggregates one calendar day. Empty date means today.
func (s *reportService) DailySales(ctx context.Context, date string) (*dto.DailySalesReport, error) {
	if date == "" {
		date = s.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, apierror.Validation("invalid date, expected YYYY-MM-DD")
	}

	row, methods, err := s.reports.DailySales(ctx, date)
	if err != nil {
		return nil, err
	}

	gross, err := decimal.NewFromString(row.GrossTotal)
	if err != nil {
		gross = decimal.Zero
	}

	byMethod := make(map[string]decimal.Decimal, len(methods))
	for _, m := range methods {
		total, err := decimal.NewFromString(m.Total)
		if err != nil {
			continue
		}
		byMethod[m.PaymentMethod] = total
	}

	return &dto.DailySalesReport{
		Date:        date,
		SaleCount:   row.SaleCount,
		VoidedCount: row.VoidedCount,
		RefundCount: row.RefundCount,
		GrossTotal:  gross,
		ItemsSold:   row.ItemsSold,
		ByMethod:    byMethod,
	}, nil
}

func (s *reportService) StockAlerts(ctx context.Context) ([]dto.StockAlertItem, error) {
	products, err := s.products.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockAlertItem, 0, len(products))
	for _, p := range products {
		items = append(items, dto.StockAlertItem{
			ProductID:  p.ID.String(),
			Name:       p.Name,
			Barcode:    p.Barcode,
			Stock:      p.Stock,
			AlertLevel: p.AlertLevel,
		})
	}
	return items, nil
}

// ExpenseSummary totals expenses per category over [from, to]. Defaults to
// the current month.
func (s *reportService) ExpenseSummary(ctx context.Context, from, to string) (*dto.ExpenseSummary, error) {
	now := s.now()
	if from == "" {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(dateLayout)
	}
	if to == "" {
		to = now.Format(dateLayout)
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, apierror.Validation("invalid date, expected YYYY-MM-DD")
		}
	}

	rows, err := s.expenses.SumByCategory(ctx, from, to)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	byCategory := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		amount, err := decimal.NewFromString(row.Total)
		if err != nil {
			continue
		}
		byCategory[row.Category] = amount
		total = total.Add(amount)
	}

	return &dto.ExpenseSummary{From: from, To: to, Total: total, ByCategory: byCategory}, nil
}
