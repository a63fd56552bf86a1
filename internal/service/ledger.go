package service

import (
	"fmt"

	"phoneshop/internal/apierror"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerService owns every mutation of Product.Stock and IMEI.Status. All
// methods with a Tx suffix must be called inside the same transaction as the
// sale/purchase status write that triggers them, so the store commits both or
// neither. Each stock change also writes an immutable StockMovement row.
//
// Failure anywhere in the per-item loop returns an error and aborts the whole
// transaction; partial adjustments are never visible. There are no retries.
type LedgerService interface {
	// SaleCreatedTx decrements stock per item and marks sold IMEIs SOLD.
	SaleCreatedTx(tx *gorm.DB, sale *model.Sale) error
	// SaleReversedTx restores stock per item and returns IMEIs to IN_STOCK.
	// kind is MovementVoid or MovementRefund.
	SaleReversedTx(tx *gorm.DB, sale *model.Sale, kind, reason string) error
	// PurchaseReceivedTx increments stock per item and registers delivered
	// serials as IN_STOCK units.
	PurchaseReceivedTx(tx *gorm.DB, purchase *model.Purchase) error
	// TradeInResoldTx flips the traded-in unit to IN_STOCK and counts it
	// into the resale product's stock.
	TradeInResoldTx(tx *gorm.DB, tradeIn *model.TradeIn, imeiID uuid.UUID) error
	// AdjustStockTx applies a manual correction (stocktake).
	AdjustStockTx(tx *gorm.DB, productID uuid.UUID, delta int, reason string) error
}

type ledgerService struct {
	products  repository.ProductRepository
	imeis     repository.IMEIRepository
	movements repository.StockMovementRepository
}

func NewLedgerService(
	products repository.ProductRepository,
	imeis repository.IMEIRepository,
	movements repository.StockMovementRepository,
) LedgerService {
	return &ledgerService{products: products, imeis: imeis, movements: movements}
}

// move applies delta to the product's stock and records the movement.
// Reads the current stock inside the tx so before/after are accurate under
// the transaction's isolation.
func (s *ledgerService) move(tx *gorm.DB, productID uuid.UUID, delta int, kind, reason string, refID *uuid.UUID) error {
	p, err := s.products.FindByIDTx(tx, productID)
	if err != nil {
		return apierror.NotFound(fmt.Sprintf("product %s not found", productID))
	}
	if err := s.products.UpdateStockTx(tx, productID, delta); err != nil {
		return err
	}
	return s.movements.CreateTx(tx, &model.StockMovement{
		ProductID:   productID,
		Kind:        kind,
		Quantity:    delta,
		StockBefore: p.Stock,
		StockAfter:  p.Stock + delta,
		Reason:      reason,
		RefID:       refID,
	})
}

func (s *ledgerService) SaleCreatedTx(tx *gorm.DB, sale *model.Sale) error {
	ref := sale.ID
	reason := fmt.Sprintf("Sale %s", sale.InvoiceNo)
	for _, item := range sale.Items {
		if err := s.move(tx, item.ProductID, -item.Quantity, model.MovementSale, reason, &ref); err != nil {
			return err
		}
		if item.IMEIID != nil {
			if err := s.imeis.UpdateStatusTx(tx, *item.IMEIID, model.IMEISold); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ledgerService) SaleReversedTx(tx *gorm.DB, sale *model.Sale, kind, reason string) error {
	ref := sale.ID
	msg := fmt.Sprintf("%s of sale %s: %s", kind, sale.InvoiceNo, reason)
	for _, item := range sale.Items {
		if err := s.move(tx, item.ProductID, item.Quantity, kind, msg, &ref); err != nil {
			return err
		}
		if item.IMEIID != nil {
			if err := s.imeis.UpdateStatusTx(tx, *item.IMEIID, model.IMEIInStock); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ledgerService) PurchaseReceivedTx(tx *gorm.DB, purchase *model.Purchase) error {
	ref := purchase.ID
	reason := fmt.Sprintf("Purchase %s received", purchase.ID)
	for _, item := range purchase.Items {
		if err := s.move(tx, item.ProductID, item.Quantity, model.MovementPurchase, reason, &ref); err != nil {
			return err
		}
		for _, entry := range item.IMEIs {
			unit := &model.IMEI{
				IMEI:      entry.IMEI,
				ProductID: item.ProductID,
				Status:    model.IMEIInStock,
			}
			if err := s.imeis.CreateTx(tx, unit); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ledgerService) TradeInResoldTx(tx *gorm.DB, tradeIn *model.TradeIn, imeiID uuid.UUID) error {
	if tradeIn.ResaleProductID == nil {
		return apierror.Invariant("trade-in has no resale product")
	}
	ref := tradeIn.ID
	reason := fmt.Sprintf("Trade-in %s resold", tradeIn.IMEI)
	if err := s.move(tx, *tradeIn.ResaleProductID, 1, model.MovementTradeIn, reason, &ref); err != nil {
		return err
	}
	return s.imeis.UpdateStatusTx(tx, imeiID, model.IMEIInStock)
}

func (s *ledgerService) AdjustStockTx(tx *gorm.DB, productID uuid.UUID, delta int, reason string) error {
	return s.move(tx, productID, delta, model.MovementAdjustment, reason, nil)
}
