package service

import (
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/money"
)

// ClassifyPayment maps the ledger total against the order total.
//
//	paid >= total                 -> paid (even after the event)
//	event passed, paid < total    -> overdue
//	0 < paid < total              -> partial
//	paid == 0                     -> pending
//
// An order without an event date is never overdue.
func ClassifyPayment(paid, total money.Money, eventDate *time.Time, now time.Time) model.PaymentStatus {
	if paid.GreaterThanOrEqual(total) {
		return model.PaymentPaid
	}
	eventPassed := eventDate != nil && eventDate.Before(now)
	switch {
	case eventPassed:
		return model.PaymentOverdue
	case paid.IsPositive():
		return model.PaymentPartial
	default:
		return model.PaymentPending
	}
}

// DeriveFinancials computes the tuple reconciliation writes back. Operator
// overrides (cancelled, refunded) keep their status; only the amounts move.
func DeriveFinancials(o *model.Order, paid money.Money, now time.Time) model.Financials {
	status := o.PaymentStatus
	if !status.IsOverride() {
		status = ClassifyPayment(paid, o.Total, o.EventDate, now)
	}
	return model.Financials{
		AmountPaid:    paid,
		AmountDue:     o.Total.Sub(paid).ClampZero(),
		PaymentStatus: status,
	}
}
