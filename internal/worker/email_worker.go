package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/infra"

	"github.com/rs/zerolog/log"
)

// ReceiptSender delivers payment receipts. *infra.Mailer implements it.
type ReceiptSender interface {
	Configured() bool
	SendPaymentReceipt(job dto.PaymentReceiptJob) error
}

// EmailWorker processes receipt jobs from QueueEmail. Sends go through the
// breaker so a dead relay does not burn every job's attempts at once.
type EmailWorker struct {
	mailer  ReceiptSender
	breaker *infra.CircuitBreaker
}

func NewEmailWorker(mailer ReceiptSender, breaker *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var job dto.PaymentReceiptJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return fmt.Errorf("%w: invalid payload: %v", ErrPermanent, err)
	}
	if job.ToEmail == "" {
		log.Warn().Str("payment_id", job.PaymentID).Msg("email_worker: empty to_email, skipping")
		return nil
	}
	if !w.mailer.Configured() {
		log.Debug().Str("payment_id", job.PaymentID).Msg("email_worker: SMTP not configured, skipping")
		return nil
	}

	err := w.breaker.Execute(func() error { return w.mailer.SendPaymentReceipt(job) })
	if err != nil {
		return fmt.Errorf("send receipt %s: %w", job.PaymentID, err)
	}
	log.Info().Str("to", job.ToEmail).Str("payment_id", job.PaymentID).Msg("email_worker: receipt sent")
	return nil
}
