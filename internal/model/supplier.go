package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a wholesale vendor purchases are sourced from.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Phone     string    `gorm:"uniqueIndex;not null"`
	Email     *string
	Address   *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Products []Product `gorm:"foreignKey:SupplierID"`
}
