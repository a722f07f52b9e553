package dto

// ReconcileJob asks a worker to re-run reconciliation for one order, e.g.
// after the reconcile that follows a payment failed.
type ReconcileJob struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// PaymentReceiptJob is the payload of the receipt email sent after a payment.
// Amounts are pre-formatted with two decimals.
type PaymentReceiptJob struct {
	ToEmail       string `json:"to_email"`
	CustomerName  string `json:"customer_name"`
	OrderID       string `json:"order_id"`
	PaymentID     string `json:"payment_id"`
	Amount        string `json:"amount"`
	Method        string `json:"method"`
	PaymentDate   string `json:"payment_date"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
	Total         string `json:"total"`
	AmountPaid    string `json:"amount_paid"`
	AmountDue     string `json:"amount_due"`
	PaymentStatus string `json:"payment_status"`
}
