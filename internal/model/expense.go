package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a shop operating cost (rent, utilities, supplies) unrelated to
// any purchase order.
type Expense struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Category   string          `gorm:"not null;index"`
	Label      string          `gorm:"not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IncurredAt time.Time       `gorm:"not null;index"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt  time.Time

	User *User `gorm:"foreignKey:UserID"`
}
