package model

import (
	"time"

	"github.com/google/uuid"
)

// Warranty statuses. EXPIRED is never stored; clients infer it by comparing
// EndDate to the current date.
const (
	WarrantyActive  = "ACTIVE"
	WarrantyClaimed = "CLAIMED"
	WarrantyVoided  = "VOIDED"
)

// Warranty covers a sold unit for a date range.
type Warranty struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	IMEIID    *uuid.UUID `gorm:"type:uuid"`
	StartDate time.Time  `gorm:"not null"`
	EndDate   time.Time  `gorm:"not null"`
	Terms     string
	Status    string `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Sale *Sale `gorm:"foreignKey:SaleID"`
	IMEI *IMEI `gorm:"foreignKey:IMEIID"`
}

func (Warranty) TableName() string { return "warranties" }
