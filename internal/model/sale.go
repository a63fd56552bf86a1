package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale statuses.
const (
	SaleCompleted = "COMPLETED"
	SaleVoided    = "VOIDED"
	SaleRefunded  = "REFUNDED"
)

// Sale is a completed customer transaction. Stock decrement and IMEI→SOLD
// happen exactly once, inside the creation transaction; the reversal happens
// exactly once, at COMPLETED→VOIDED or COMPLETED→REFUNDED.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNo     string          `gorm:"uniqueIndex;not null"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'COMPLETED'"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ChangeAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	User     *User      `gorm:"foreignKey:UserID"`
	Items    []SaleItem `gorm:"foreignKey:SaleID"`
}

// SaleItem is one product line of a sale; IMEIID is set when a specific
// serialized unit was sold.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IMEIID    *uuid.UUID      `gorm:"type:uuid"`

	Product *Product `gorm:"foreignKey:ProductID"`
	IMEI    *IMEI    `gorm:"foreignKey:IMEIID"`
}
