package model

import (
	"time"

	"github.com/google/uuid"
)

// IMEI statuses. A serialized unit carries its own per-unit inventory signal
// independent of the aggregate Product.Stock counter.
const (
	IMEIInStock     = "IN_STOCK"
	IMEISold        = "SOLD"
	IMEIReserved    = "RESERVED"
	IMEIDefective   = "DEFECTIVE"
	IMEITradedIn    = "TRADED_IN"
	IMEITransferred = "TRANSFERRED"
)

// IMEI represents one serialized device unit owned by exactly one Product.
type IMEI struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IMEI      string    `gorm:"column:imei;uniqueIndex;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    string    `gorm:"type:varchar(20);not null;default:'IN_STOCK'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (IMEI) TableName() string { return "imeis" }
