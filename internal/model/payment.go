package model

import (
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/money"

	"github.com/google/uuid"
)

// PaymentMethod: "cash" | "card" | "bank_transfer" | "upi" | "cheque" | "other"
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodUPI          PaymentMethod = "upi"
	MethodCheque       PaymentMethod = "cheque"
	MethodOther        PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodBankTransfer, MethodUPI, MethodCheque, MethodOther:
		return true
	}
	return false
}

// PaymentRecord is an immutable ledger entry owned by exactly one order.
// Records are NEVER modified; they are only removed together with their order.
type PaymentRecord struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID       uuid.UUID     `gorm:"type:uuid;index;not null"`
	Amount        money.Money   `gorm:"type:numeric(12,2);not null"`
	Method        PaymentMethod `gorm:"type:varchar(20);not null"`
	PaymentDate   time.Time     `gorm:"not null;index"`
	Notes         *string
	ReceiptNumber *string `gorm:"type:varchar(64)"`
	// IdempotencyKey is client supplied; unique per order (partial index, see infra).
	IdempotencyKey *string `gorm:"type:varchar(128)"`
	CreatedAt      time.Time
}

func (PaymentRecord) TableName() string { return "payments" }
