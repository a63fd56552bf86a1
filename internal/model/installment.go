package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment statuses.
const (
	InstallmentActive    = "ACTIVE"
	InstallmentCompleted = "COMPLETED"
	InstallmentDefaulted = "DEFAULTED"
)

// Installment is a pay-over-time plan attached to a sale. Remaining is
// maintained by the service: each payment reduces it, and the plan flips to
// COMPLETED when it reaches zero. DEFAULTED is set manually, never derived.
type Installment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID        uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DownPayment   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MonthlyAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalMonths   int             `gorm:"not null"`
	Remaining     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Sale     *Sale                `gorm:"foreignKey:SaleID"`
	Customer *Customer            `gorm:"foreignKey:CustomerID"`
	Payments []InstallmentPayment `gorm:"foreignKey:InstallmentID"`
}

// InstallmentPayment records are immutable, never edited or deleted.
type InstallmentPayment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InstallmentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Note          *string
	PaidAt        time.Time
}
