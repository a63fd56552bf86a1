package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"phoneshop/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ReceiptGenerator renders sale receipts as 80mm thermal-format PDFs.
type ReceiptGenerator struct {
	shopName    string
	storagePath string
}

func NewReceiptGenerator(shopName, storagePath string) *ReceiptGenerator {
	return &ReceiptGenerator{shopName: shopName, storagePath: storagePath}
}

// ReceiptPath returns where the receipt for an invoice is (or will be) stored.
func (g *ReceiptGenerator) ReceiptPath(invoiceNo string) string {
	return filepath.Join(g.storagePath, invoiceNo+".pdf")
}

// GenerateReceipt writes the PDF for a sale and returns its path.
func (g *ReceiptGenerator) GenerateReceipt(sale *model.Sale) (string, error) {
	if err := os.MkdirAll(g.storagePath, 0o755); err != nil {
		return "", err
	}

	// 80mm roll, height grows with item count.
	height := 90.0 + float64(len(sale.Items))*10
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: 80, Ht: height},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(72, 6, g.shopName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(72, 4, sale.InvoiceNo, "", 1, "C", false, 0, "")
	pdf.CellFormat(72, 4, sale.CreatedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(38, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(8, 5, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(26, 5, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, item := range sale.Items {
		name := fmt.Sprintf("#%s", item.ProductID.String()[:8])
		if item.Product != nil {
			name = item.Product.Name
		}
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		pdf.CellFormat(38, 5, truncate(name, 24), "", 0, "L", false, 0, "")
		pdf.CellFormat(8, 5, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(26, 5, lineTotal.StringFixed(2), "", 1, "R", false, 0, "")
		if item.IMEI != nil {
			pdf.SetFont("Helvetica", "I", 7)
			pdf.CellFormat(72, 4, "IMEI "+item.IMEI.IMEI, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 8)
		}
	}

	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(46, 6, "TOTAL", "T", 0, "L", false, 0, "")
	pdf.CellFormat(26, 6, sale.TotalAmount.StringFixed(2), "T", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(46, 5, "Paid ("+sale.PaymentMethod+")", "", 0, "L", false, 0, "")
	pdf.CellFormat(26, 5, sale.PaidAmount.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(46, 5, "Change", "", 0, "L", false, 0, "")
	pdf.CellFormat(26, 5, sale.ChangeAmount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(72, 4, "Thank you for your purchase!", "", 1, "C", false, 0, "")

	path := g.ReceiptPath(sale.InvoiceNo)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}
	return path, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
