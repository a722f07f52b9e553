package model

import (
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/money"

	"github.com/google/uuid"
)

// MenuItem is a sellable dish or service.
// Unit: "plate" | "kg" | "piece" | "service"
type MenuItem struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string      `gorm:"not null;uniqueIndex"`
	Category  string      `gorm:"type:varchar(50);not null;default:'general'"`
	Price     money.Money `gorm:"type:numeric(12,2);not null"`
	Unit      string      `gorm:"type:varchar(20);not null;default:'plate'"`
	Active    bool        `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
