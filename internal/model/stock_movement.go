package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement kinds.
const (
	MovementSale       = "sale"
	MovementVoid       = "void"
	MovementRefund     = "refund"
	MovementPurchase   = "purchase"
	MovementAdjustment = "adjustment"
	MovementTradeIn    = "trade_in"
)

// StockMovement records every change to a product's stock counter.
// Rows are immutable; reversals create inverse entries, nothing is edited.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind        string    `gorm:"not null"`
	Quantity    int       `gorm:"not null"` // positive = in, negative = out
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string
	RefID       *uuid.UUID `gorm:"type:uuid"` // originating sale or purchase
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (StockMovement) TableName() string { return "stock_movements" }
