package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog entry for both serialized (phones, tracked per-IMEI)
// and non-serialized (accessories) inventory. Stock is the single source of
// truth for aggregate quantity; it is mutated only through the ledger
// service, never directly by handlers.
type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Barcode    string    `gorm:"uniqueIndex;not null"`
	Name       string    `gorm:"index;not null"`
	Brand      string
	Model      string
	Category   string          `gorm:"not null"`
	CostPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock      int             `gorm:"not null;default:0"`
	AlertLevel int             `gorm:"not null;default:3"`
	SupplierID *uuid.UUID      `gorm:"type:uuid;index"`
	Active     bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}
