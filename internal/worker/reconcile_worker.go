package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Karthikx21/Alagarcater-sub000/internal/apierror"
	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReconcileWorker re-runs reconciliation for orders whose inline reconcile
// failed after a payment was stored.
type ReconcileWorker struct {
	financials service.FinancialService
}

func NewReconcileWorker(financials service.FinancialService) *ReconcileWorker {
	return &ReconcileWorker{financials: financials}
}

func (w *ReconcileWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job dto.ReconcileJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return fmt.Errorf("%w: invalid payload: %v", ErrPermanent, err)
	}
	id, err := uuid.Parse(job.OrderID)
	if err != nil {
		return fmt.Errorf("%w: invalid order id %q", ErrPermanent, job.OrderID)
	}

	o, err := w.financials.Reconcile(ctx, id)
	if errors.Is(err, apierror.ErrNotFound) {
		log.Info().Str("order_id", job.OrderID).Msg("reconcile_worker: order gone, dropping job")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().
		Str("order_id", job.OrderID).
		Str("reason", job.Reason).
		Str("payment_status", string(o.PaymentStatus)).
		Msg("reconcile_worker: order reconciled")
	return nil
}
