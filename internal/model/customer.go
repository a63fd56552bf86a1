package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a walk-in or repeat buyer. Phone is the natural lookup key in a
// retail shop, so it is unique.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Phone     string    `gorm:"uniqueIndex;not null"`
	Email     *string
	Address   *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
