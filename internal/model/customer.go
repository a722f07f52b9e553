package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer stores intake details for whoever books an order.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Phone     string    `gorm:"type:varchar(20);not null;index"`
	Email     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
