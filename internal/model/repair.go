package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repair statuses.
const (
	RepairReceived     = "RECEIVED"
	RepairDiagnosing   = "DIAGNOSING"
	RepairWaitingParts = "WAITING_PARTS"
	RepairRepairing    = "REPAIRING"
	RepairCompleted    = "COMPLETED"
	RepairDelivered    = "DELIVERED"
	RepairCancelled    = "CANCELLED"
)

// Repair tracks a customer device through the workshop pipeline.
type Repair struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	DeviceModel   string           `gorm:"not null"`
	IMEI          *string          `gorm:"column:imei"`
	Issue         string           `gorm:"not null"`
	EstimatedCost decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	FinalCost     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status        string           `gorm:"type:varchar(20);not null;default:'RECEIVED'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
}
