package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase statuses.
const (
	PurchasePending   = "PENDING"
	PurchaseReceived  = "RECEIVED"
	PurchaseCancelled = "CANCELLED"
)

// Purchase is a supplier order. Stock for its items is incremented exactly
// once, at the PENDING→RECEIVED transition; never on creation, never twice.
//
// Reconciliation fields:
//
//	ItemsTotal   = Σ quantity × unit_cost
//	NetTotal     = ItemsTotal − ReduceAmount + Σ expenses
//	CreditAmount = max(0, NetTotal − PaidAmount)
type Purchase struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status       string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ItemsTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ReduceAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaidAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	NetTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreditAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Supplier *Supplier         `gorm:"foreignKey:SupplierID"`
	Items    []PurchaseItem    `gorm:"foreignKey:PurchaseID"`
	Expenses []PurchaseExpense `gorm:"foreignKey:PurchaseID"`
	Payments []PurchasePayment `gorm:"foreignKey:PurchaseID"`
}

// PurchaseItem is one product line of a purchase. IMEIs lists the serial
// numbers of the units delivered; they are registered as IN_STOCK IMEI rows
// when the purchase is received.
type PurchaseItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   int             `gorm:"not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IMEIs      []IMEIEntry     `gorm:"foreignKey:PurchaseItemID"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// IMEIEntry records one serial delivered against a purchase item.
type IMEIEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	IMEI           string    `gorm:"column:imei;not null"`
}

func (IMEIEntry) TableName() string { return "imei_entries" }

// PurchaseExpense is an additional cost attached to a purchase (freight,
// customs, …). Payment records are NOT stored here; they have their own
// entity below.
type PurchaseExpense struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Label      string          `gorm:"not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// PurchasePayment is one payment made against a purchase, by method.
type PurchasePayment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method     string          `gorm:"type:varchar(20);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaidAt     time.Time
}
