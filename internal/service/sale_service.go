package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/infra"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"
	"phoneshop/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	CreateSale(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	VoidSale(ctx context.Context, id uuid.UUID, reason string) error
	RefundSale(ctx context.Context, id uuid.UUID, reason string) error
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	// RenderReceipt writes the receipt PDF synchronously and returns its path.
	RenderReceipt(ctx context.Context, id uuid.UUID) (string, error)
}

type saleService struct {
	repo       repository.SaleRepository
	products   repository.ProductRepository
	imeis      repository.IMEIRepository
	ledger     LedgerService
	dispatcher *worker.Dispatcher
	receipts   *infra.ReceiptGenerator
	now        func() time.Time
}

func NewSaleService(
	repo repository.SaleRepository,
	products repository.ProductRepository,
	imeis repository.IMEIRepository,
	ledger LedgerService,
	dispatcher *worker.Dispatcher,
	receipts *infra.ReceiptGenerator,
) SaleService {
	return &saleService{
		repo:       repo,
		products:   products,
		imeis:      imeis,
		ledger:     ledger,
		dispatcher: dispatcher,
		receipts:   receipts,
		now:        time.Now,
	}
}

// CreateSale runs the full sale transaction:
//  1. Resolve items against the catalog, check stock and IMEI availability
//  2. Validate payment covers the total (installment down payments excepted)
//  3. BEGIN TX: allocate invoice number, insert sale + items, run the ledger
//     (decrement stock, mark IMEIs SOLD, record movements)
//  4. COMMIT
//  5. (async) dispatch receipt job
func (s *saleService) CreateSale(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	type resolvedItem struct {
		productID uuid.UUID
		name      string
		price     decimal.Decimal
		quantity  int
		imeiID    *uuid.UUID
		imei      *string
	}

	var resolved []resolvedItem
	total := decimal.Zero

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validation(fmt.Sprintf("invalid product_id: %s", item.ProductID))
		}
		p, err := s.products.FindByID(ctx, pid)
		if err != nil {
			return nil, apierror.NotFound(fmt.Sprintf("product %s not found", item.ProductID))
		}
		if !p.Active {
			return nil, apierror.Conflict(fmt.Sprintf("product %q is inactive and cannot be sold", p.Name))
		}
		if p.Stock < item.Quantity {
			return nil, apierror.Conflict(fmt.Sprintf("insufficient stock for %q: have %d, need %d", p.Name, p.Stock, item.Quantity))
		}

		r := resolvedItem{productID: pid, name: p.Name, price: p.Price, quantity: item.Quantity}

		if item.IMEIID != nil {
			if item.Quantity != 1 {
				return nil, apierror.Validation("an IMEI-pinned line must have quantity 1")
			}
			iid, err := uuid.Parse(*item.IMEIID)
			if err != nil {
				return nil, apierror.Validation(fmt.Sprintf("invalid imei_id: %s", *item.IMEIID))
			}
			unit, err := s.imeis.FindByID(ctx, iid)
			if err != nil {
				return nil, apierror.NotFound(fmt.Sprintf("IMEI %s not found", *item.IMEIID))
			}
			if unit.ProductID != pid {
				return nil, apierror.Validation(fmt.Sprintf("IMEI %s does not belong to product %q", unit.IMEI, p.Name))
			}
			if unit.Status != model.IMEIInStock {
				return nil, apierror.Conflict(fmt.Sprintf("IMEI %s is %s, not IN_STOCK", unit.IMEI, unit.Status))
			}
			r.imeiID = &iid
			imei := unit.IMEI
			r.imei = &imei
		}

		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		resolved = append(resolved, r)
	}

	// Installment sales carry only the down payment up front; everything else
	// must be paid in full.
	change := decimal.Zero
	if req.PaymentMethod == "installment" {
		if req.PaidAmount.GreaterThan(total) {
			return nil, apierror.Validation("down payment exceeds sale total")
		}
	} else {
		if req.PaidAmount.LessThan(total) {
			return nil, apierror.Validation("paid amount does not cover the sale total")
		}
		change = req.PaidAmount.Sub(total)
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, apierror.Validation("invalid customer_id")
		}
		customerID = &cid
	}

	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		invoiceNo, err := s.repo.NextInvoiceNo(ctx, tx, s.now())
		if err != nil {
			return err
		}

		sale = model.Sale{
			InvoiceNo:     invoiceNo,
			CustomerID:    customerID,
			UserID:        userID,
			Status:        model.SaleCompleted,
			TotalAmount:   total,
			PaidAmount:    req.PaidAmount,
			ChangeAmount:  change,
			PaymentMethod: req.PaymentMethod,
		}
		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: r.productID,
				Quantity:  r.quantity,
				UnitPrice: r.price,
				IMEIID:    r.imeiID,
			})
		}

		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}
		return s.ledger.SaleCreatedTx(tx, &sale)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Receipt job is best-effort, fire and forget.
	if s.dispatcher != nil {
		payload := worker.ReceiptJobPayload{SaleID: sale.ID.String()}
		if req.CustomerEmail != nil && *req.CustomerEmail != "" {
			payload.CustomerEmail = *req.CustomerEmail
		}
		_ = s.dispatcher.EnqueueReceipt(ctx, payload)
	}

	resp := saleToResponse(&sale)
	for i, r := range resolved {
		resp.Items[i].Product = r.name
		resp.Items[i].IMEI = r.imei
	}
	return resp, nil
}

func (s *saleService) VoidSale(ctx context.Context, id uuid.UUID, reason string) error {
	return s.reverse(ctx, id, model.SaleVoided, model.MovementVoid, reason)
}

func (s *saleService) RefundSale(ctx context.Context, id uuid.UUID, reason string) error {
	return s.reverse(ctx, id, model.SaleRefunded, model.MovementRefund, reason)
}

// reverse performs the one-shot COMPLETED→VOIDED/REFUNDED transition. The
// check on the loaded row gives a readable conflict message; the conditional
// status write inside the transaction is the authoritative guard, so two
// racing reversals can never both run the ledger restore.
func (s *saleService) reverse(ctx context.Context, id uuid.UUID, target, movementKind, reason string) error {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("sale not found")
	}
	if !model.SaleCanTransition(sale.Status, target) {
		return apierror.Conflict(fmt.Sprintf("cannot %s a %s sale", movementKind, sale.Status))
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Claim the transition before touching stock. The loser of a race
		// matches no row and its transaction never reaches the ledger.
		if err := s.repo.UpdateStatusTx(tx, id, sale.Status, target); err != nil {
			if errors.Is(err, repository.ErrStaleStatus) {
				return apierror.Conflict(fmt.Sprintf("sale is no longer %s", sale.Status))
			}
			return err
		}
		return s.ledger.SaleReversedTx(tx, sale, movementKind, reason)
	})
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("sale not found")
	}
	return saleToResponse(sale), nil
}

// ListSales returns a paginated list filtered by date and status.
// Default filter: today's completed sales.
func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status == "" {
		filter.Status = model.SaleCompleted
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for _, sale := range sales {
		items = append(items, *saleToResponse(&sale))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// RenderReceipt is the synchronous fallback used when the background worker
// has not written the PDF yet (or the file was cleaned up).
func (s *saleService) RenderReceipt(ctx context.Context, id uuid.UUID) (string, error) {
	if s.receipts == nil {
		return "", apierror.Invariant("receipt rendering is not configured")
	}
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", apierror.NotFound("sale not found")
	}
	return s.receipts.GenerateReceipt(sale)
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		var imei *string
		if item.IMEI != nil {
			v := item.IMEI.IMEI
			imei = &v
		}
		items = append(items, dto.SaleItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			IMEI:      imei,
		})
	}
	var customerID *string
	if sale.CustomerID != nil {
		v := sale.CustomerID.String()
		customerID = &v
	}
	return &dto.SaleResponse{
		ID:            sale.ID.String(),
		InvoiceNo:     sale.InvoiceNo,
		CustomerID:    customerID,
		Status:        sale.Status,
		Items:         items,
		TotalAmount:   sale.TotalAmount,
		PaidAmount:    sale.PaidAmount,
		ChangeAmount:  sale.ChangeAmount,
		PaymentMethod: sale.PaymentMethod,
		CreatedAt:     sale.CreatedAt.Format(time.RFC3339),
	}
}
