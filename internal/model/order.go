package model

import (
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/money"

	"github.com/google/uuid"
)

// OrderStatus is the fulfillment axis of an order, independent of payment.
type OrderStatus string

const (
	OrderNew           OrderStatus = "new"
	OrderConfirmed     OrderStatus = "confirmed"
	OrderInPreparation OrderStatus = "in_preparation"
	OrderReady         OrderStatus = "ready"
	OrderDelivered     OrderStatus = "delivered"
	OrderCancelled     OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderNew, OrderConfirmed, OrderInPreparation, OrderReady, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PaymentStatus is the settlement axis of an order. It is derived from the
// payment ledger except for the operator overrides cancelled and refunded.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentOverdue, PaymentRefunded, PaymentCancelled:
		return true
	}
	return false
}

// IsOverride reports whether the status was set by an operator and must
// survive reconciliation.
func (s PaymentStatus) IsOverride() bool {
	return s == PaymentCancelled || s == PaymentRefunded
}

// Order is a single catering engagement.
// AmountPaid, AmountDue and PaymentStatus are written only by reconciliation.
type Order struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	Customer   *Customer  `gorm:"foreignKey:CustomerID"`
	// EventDate is nil for orders booked without a confirmed date; such
	// orders are never classified overdue.
	EventDate  *time.Time `gorm:"index"`
	GuestCount int        `gorm:"not null;default:0"`
	Venue      *string
	Notes      *string
	Status     OrderStatus `gorm:"type:varchar(20);not null;default:'new';index"`

	Total         money.Money   `gorm:"type:numeric(12,2);not null"`
	AmountPaid    money.Money   `gorm:"type:numeric(12,2);not null;default:0"`
	AmountDue     money.Money   `gorm:"type:numeric(12,2);not null"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`

	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments  []PaymentRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is a priced snapshot of a menu line at the time it was added.
// Later menu price changes do not touch it.
type OrderItem struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID   `gorm:"type:uuid;index;not null"`
	MenuItemID *uuid.UUID  `gorm:"type:uuid"`
	Name       string      `gorm:"not null"`
	UnitPrice  money.Money `gorm:"type:numeric(12,2);not null"`
	Quantity   int         `gorm:"not null"`
	Subtotal   money.Money `gorm:"type:numeric(12,2);not null"`
}

// Financials is the derived tuple written back by reconciliation.
type Financials struct {
	AmountPaid    money.Money
	AmountDue     money.Money
	PaymentStatus PaymentStatus
}

func (o *Order) Financials() Financials {
	return Financials{AmountPaid: o.AmountPaid, AmountDue: o.AmountDue, PaymentStatus: o.PaymentStatus}
}

func (f Financials) Equal(o Financials) bool {
	return f.AmountPaid.Equal(o.AmountPaid) && f.AmountDue.Equal(o.AmountDue) && f.PaymentStatus == o.PaymentStatus
}
