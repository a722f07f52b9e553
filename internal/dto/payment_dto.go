package dto

import (
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/money"
)

// AppendPaymentRequest is the body of POST /v1/orders/:id/payments.
// Amount is a decimal string ("1250.50"); the service parses it with the
// money rules so non-HTTP callers get the same validation.
type AppendPaymentRequest struct {
	Amount      string     `json:"amount"       validate:"required"`
	Method      string     `json:"method"       validate:"required,oneof=cash card bank_transfer upi cheque other"`
	PaymentDate *time.Time `json:"payment_date"`
	Notes       *string    `json:"notes"          validate:"omitempty,max=500"`
	// ReceiptNumber is free text printed on the paper receipt book.
	ReceiptNumber  *string `json:"receipt_number"  validate:"omitempty,max=64"`
	IdempotencyKey *string `json:"idempotency_key" validate:"omitempty,min=8,max=128"`
}

type PaymentResponse struct {
	ID             string      `json:"id"`
	OrderID        string      `json:"order_id"`
	Amount         money.Money `json:"amount"`
	Method         string      `json:"method"`
	PaymentDate    string      `json:"payment_date"`
	Notes          *string     `json:"notes"`
	ReceiptNumber  *string     `json:"receipt_number"`
	IdempotencyKey *string     `json:"idempotency_key,omitempty"`
	CreatedAt      string      `json:"created_at"`
}

// SubmitPaymentResponse carries the reconciled order so the client never
// shows stale totals. Replayed is true when an idempotency key matched an
// earlier submission and nothing new was recorded.
type SubmitPaymentResponse struct {
	Payment  PaymentResponse `json:"payment"`
	Order    OrderResponse   `json:"order"`
	Replayed bool            `json:"replayed"`
}

type PaymentListResponse struct {
	OrderID   string            `json:"order_id"`
	Data      []PaymentResponse `json:"data"`
	TotalPaid money.Money       `json:"total_paid"`
}

func NewPaymentResponse(p *model.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID.String(),
		OrderID:        p.OrderID.String(),
		Amount:         p.Amount,
		Method:         string(p.Method),
		PaymentDate:    p.PaymentDate.Format(time.RFC3339),
		Notes:          p.Notes,
		ReceiptNumber:  p.ReceiptNumber,
		IdempotencyKey: p.IdempotencyKey,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}
