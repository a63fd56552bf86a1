package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeIn statuses.
const (
	TradeInPending  = "PENDING"
	TradeInAccepted = "ACCEPTED"
	TradeInRejected = "REJECTED"
	TradeInResold   = "RESOLD"
)

// TradeIn is a used device offered by a customer. On acceptance its IMEI is
// registered against ResaleProductID with status TRADED_IN; marking it RESOLD
// flips the unit to IN_STOCK so it can be sold through the normal flow.
type TradeIn struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeviceModel     string          `gorm:"not null"`
	IMEI            string          `gorm:"column:imei;not null"`
	OfferedAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status          string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ResaleProductID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
}

func (TradeIn) TableName() string { return "trade_ins" }
