package worker

import (
	"context"
	"encoding/json"

	"phoneshop/internal/infra"
	"phoneshop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptWorker renders the receipt PDF for a completed sale and emails it
// when the customer left an address. Both steps are best-effort.
type ReceiptWorker struct {
	sales  repository.SaleRepository
	pdf    *infra.ReceiptGenerator
	mailer *infra.Mailer
}

func NewReceiptWorker(sales repository.SaleRepository, pdf *infra.ReceiptGenerator, mailer *infra.Mailer) *ReceiptWorker {
	return &ReceiptWorker{sales: sales, pdf: pdf, mailer: mailer}
}

func (w *ReceiptWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var p ReceiptJobPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}
	id, err := uuid.Parse(p.SaleID)
	if err != nil {
		return err
	}

	sale, err := w.sales.FindByID(ctx, id)
	if err != nil {
		return err
	}

	path, err := w.pdf.GenerateReceipt(sale)
	if err != nil {
		return err
	}
	log.Info().Str("invoice", sale.InvoiceNo).Str("path", path).Msg("receipt generated")

	if p.CustomerEmail == "" || !w.mailer.Configured() {
		return nil
	}
	if err := w.mailer.SendReceipt(p.CustomerEmail, sale.InvoiceNo, path); err != nil {
		// Email failure does not fail the job; the PDF is already on disk.
		log.Warn().Err(err).Str("invoice", sale.InvoiceNo).Msg("receipt email failed")
	}
	return nil
}
