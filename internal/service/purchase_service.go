package service

import (
	"context"
	"errors"
	"fmt"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseService interface {
	CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	ReceivePurchase(ctx context.Context, id uuid.UUID) error
	CancelPurchase(ctx context.Context, id uuid.UUID) error
	DeletePurchase(ctx context.Context, id uuid.UUID) error
	AddPayment(ctx context.Context, id uuid.UUID, req dto.AddPurchasePaymentRequest) (*dto.PurchaseResponse, error)
	GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	ListPurchases(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error)
}

type purchaseService struct {
	repo      repository.PurchaseRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	ledger    LedgerService
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	ledger LedgerService,
) PurchaseService {
	return &purchaseService{repo: repo, products: products, suppliers: suppliers, ledger: ledger}
}

// reconcile computes the derived purchase amounts:
//
//	netTotal    = itemsTotal − reduceAmount + Σ expenses
//	creditAmount = max(0, netTotal − paidAmount)
func reconcile(itemsTotal, reduceAmount, expensesTotal, paidAmount decimal.Decimal) (net, credit decimal.Decimal) {
	net = itemsTotal.Sub(reduceAmount).Add(expensesTotal)
	credit = net.Sub(paidAmount)
	if credit.IsNegative() {
		credit = decimal.Zero
	}
	return net, credit
}

// CreatePurchase records a PENDING supplier order. Reconciliation amounts are
// computed and validated before anything is persisted; stock does not move
// until the order is received.
func (s *purchaseService) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, apierror.Validation("invalid supplier_id")
	}
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		return nil, apierror.NotFound("supplier not found")
	}

	if req.ReduceAmount.IsNegative() {
		return nil, apierror.Validation("reduce_amount cannot be negative")
	}

	purchase := model.Purchase{
		SupplierID:   supplierID,
		Status:       model.PurchasePending,
		ReduceAmount: req.ReduceAmount,
		Notes:        req.Notes,
	}

	itemsTotal := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validation(fmt.Sprintf("invalid product_id: %s", item.ProductID))
		}
		if _, err := s.products.FindByID(ctx, pid); err != nil {
			return nil, apierror.NotFound(fmt.Sprintf("product %s not found", item.ProductID))
		}
		if item.UnitCost.IsNegative() {
			return nil, apierror.Validation("unit_cost cannot be negative")
		}
		if len(item.IMEIs) > item.Quantity {
			return nil, apierror.Validation(fmt.Sprintf("item %s lists %d IMEIs for %d units", item.ProductID, len(item.IMEIs), item.Quantity))
		}

		pi := model.PurchaseItem{ProductID: pid, Quantity: item.Quantity, UnitCost: item.UnitCost}
		for _, serial := range item.IMEIs {
			pi.IMEIs = append(pi.IMEIs, model.IMEIEntry{IMEI: serial})
		}
		purchase.Items = append(purchase.Items, pi)

		itemsTotal = itemsTotal.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	expensesTotal := decimal.Zero
	for _, e := range req.Expenses {
		if e.Amount.IsNegative() {
			return nil, apierror.Validation("expense amount cannot be negative")
		}
		purchase.Expenses = append(purchase.Expenses, model.PurchaseExpense{Label: e.Label, Amount: e.Amount})
		expensesTotal = expensesTotal.Add(e.Amount)
	}

	paidAmount := decimal.Zero
	for _, p := range req.Payments {
		if !p.Amount.IsPositive() {
			return nil, apierror.Validation("payment amount must be positive")
		}
		purchase.Payments = append(purchase.Payments, model.PurchasePayment{Method: p.Method, Amount: p.Amount})
		paidAmount = paidAmount.Add(p.Amount)
	}

	net, credit := reconcile(itemsTotal, req.ReduceAmount, expensesTotal, paidAmount)
	if net.IsNegative() {
		return nil, apierror.Validation("reduce_amount exceeds the order total")
	}
	if paidAmount.GreaterThan(net) {
		return nil, apierror.Validation("paid amount exceeds the net total")
	}

	purchase.ItemsTotal = itemsTotal
	purchase.PaidAmount = paidAmount
	purchase.NetTotal = net
	purchase.CreditAmount = credit

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, &purchase)
	}); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, purchase.ID)
	if err != nil {
		return purchaseToResponse(&purchase), nil
	}
	return purchaseToResponse(created), nil
}

// ReceivePurchase marks a PENDING order RECEIVED and runs the stock ledger for
// its items, all in one transaction. The conditional status write claims the
// transition before the ledger runs, so two racing receives can never both
// count the stock.
func (s *purchaseService) ReceivePurchase(ctx context.Context, id uuid.UUID) error {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("purchase not found")
	}
	if !model.PurchaseCanTransition(purchase.Status, model.PurchaseReceived) {
		return apierror.Conflict(fmt.Sprintf("cannot receive a %s purchase", purchase.Status))
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatusTx(tx, id, purchase.Status, model.PurchaseReceived); err != nil {
			if errors.Is(err, repository.ErrStaleStatus) {
				return apierror.Conflict(fmt.Sprintf("purchase is no longer %s", purchase.Status))
			}
			return err
		}
		return s.ledger.PurchaseReceivedTx(tx, purchase)
	})
}

func (s *purchaseService) CancelPurchase(ctx context.Context, id uuid.UUID) error {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("purchase not found")
	}
	if !model.PurchaseCanTransition(purchase.Status, model.PurchaseCancelled) {
		return apierror.Conflict(fmt.Sprintf("cannot cancel a %s purchase", purchase.Status))
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatusTx(tx, id, purchase.Status, model.PurchaseCancelled); err != nil {
			if errors.Is(err, repository.ErrStaleStatus) {
				return apierror.Conflict(fmt.Sprintf("purchase is no longer %s", purchase.Status))
			}
			return err
		}
		return nil
	})
}

// DeletePurchase removes an order and its lines. Received orders have already
// moved stock and must be kept for the audit trail.
func (s *purchaseService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("purchase not found")
	}
	if purchase.Status == model.PurchaseReceived {
		return apierror.Conflict("received purchases cannot be deleted")
	}
	return s.repo.Delete(ctx, id)
}

// AddPayment records a payment against outstanding credit and re-runs the
// reconciliation. Payments above the remaining credit are rejected.
func (s *purchaseService) AddPayment(ctx context.Context, id uuid.UUID, req dto.AddPurchasePaymentRequest) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("purchase not found")
	}
	if purchase.Status == model.PurchaseCancelled {
		return nil, apierror.Conflict("cannot pay a cancelled purchase")
	}
	if !req.Amount.IsPositive() {
		return nil, apierror.Validation("payment amount must be positive")
	}
	if req.Amount.GreaterThan(purchase.CreditAmount) {
		return nil, apierror.Validation(fmt.Sprintf("payment %s exceeds outstanding credit %s", req.Amount, purchase.CreditAmount))
	}

	newPaid := purchase.PaidAmount.Add(req.Amount)
	newCredit := purchase.NetTotal.Sub(newPaid)
	if newCredit.IsNegative() {
		newCredit = decimal.Zero
	}

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// The guarded write re-checks the credit bound inside the
		// transaction: a concurrent payment changes credit_amount and the
		// update matches nothing.
		if err := s.repo.UpdateReconciliationTx(tx, id, purchase.CreditAmount, newPaid, newCredit); err != nil {
			if errors.Is(err, repository.ErrStaleStatus) {
				return apierror.Conflict("purchase was paid concurrently, refresh and retry")
			}
			return err
		}
		return s.repo.AddPaymentTx(tx, &model.PurchasePayment{
			PurchaseID: id,
			Method:     req.Method,
			Amount:     req.Amount,
		})
	}); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return purchaseToResponse(updated), nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("purchase not found")
	}
	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) ListPurchases(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	purchases, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		items = append(items, *purchaseToResponse(&p))
	}
	return &dto.PurchaseListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(p.Items))
	for _, item := range p.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		serials := make([]string, 0, len(item.IMEIs))
		for _, e := range item.IMEIs {
			serials = append(serials, e.IMEI)
		}
		items = append(items, dto.PurchaseItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
			IMEIs:     serials,
		})
	}

	expenses := make([]dto.PurchaseExpenseResponse, 0, len(p.Expenses))
	for _, e := range p.Expenses {
		expenses = append(expenses, dto.PurchaseExpenseResponse{Label: e.Label, Amount: e.Amount})
	}

	payments := make([]dto.PurchasePaymentResponse, 0, len(p.Payments))
	for _, pay := range p.Payments {
		payments = append(payments, dto.PurchasePaymentResponse{
			Method: pay.Method,
			Amount: pay.Amount,
			PaidAt: pay.PaidAt.Format("2006-01-02 15:04:05"),
		})
	}

	supplier := ""
	if p.Supplier != nil {
		supplier = p.Supplier.Name
	}

	return &dto.PurchaseResponse{
		ID:           p.ID.String(),
		SupplierID:   p.SupplierID.String(),
		Supplier:     supplier,
		Status:       p.Status,
		Items:        items,
		Expenses:     expenses,
		Payments:     payments,
		ItemsTotal:   p.ItemsTotal,
		ReduceAmount: p.ReduceAmount,
		NetTotal:     p.NetTotal,
		PaidAmount:   p.PaidAmount,
		CreditAmount: p.CreditAmount,
		Notes:        p.Notes,
		CreatedAt:    p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
