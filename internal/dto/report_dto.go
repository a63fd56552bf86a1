package dto

import "github.com/shopspring/decimal"

// DailySalesReport summarizes one calendar day of selling.
type DailySalesReport struct {
	Date        string                     `json:"date"`
	SaleCount   int64                      `json:"sale_count"`
	VoidedCount int64                      `json:"voided_count"`
	RefundCount int64                      `json:"refund_count"`
	GrossTotal  decimal.Decimal            `json:"gross_total"`
	ItemsSold   int64                      `json:"items_sold"`
	ByMethod    map[string]decimal.Decimal `json:"by_method"`
}

// StockAlertItem is a product at or below its alert level.
type StockAlertItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Barcode    string `json:"barcode"`
	Stock      int    `json:"stock"`
	AlertLevel int    `json:"alert_level"`
}

// ExpenseSummary totals expenses per category over a range.
type ExpenseSummary struct {
	From       string                     `json:"from"`
	To         string                     `json:"to"`
	Total      decimal.Decimal            `json:"total"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
}
