package service

import (
	"context"
	"fmt"

	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/money"
	"github.com/Karthikx21/Alagarcater-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FinancialService owns the derived columns of an order. Nothing else writes
// AmountPaid, AmountDue or a ledger-derived PaymentStatus.
type FinancialService interface {
	// Reconcile recomputes the financial tuple from the ledger under the order
	// row lock and writes it only when it changed. It returns the order as
	// stored after the call.
	Reconcile(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	// ReconcileMany reconciles each order independently; one failure does not
	// stop the others.
	ReconcileMany(ctx context.Context, orderIDs []uuid.UUID) BatchResult
}

// BatchResult summarizes a ReconcileMany run.
type BatchResult struct {
	Reconciled int
	Changed    int
	Failed     map[uuid.UUID]error
}

type financialService struct {
	orders   repository.OrderRepository
	payments repository.PaymentRepository
	now      Clock
}

func NewFinancialService(orders repository.OrderRepository, payments repository.PaymentRepository, clock Clock) FinancialService {
	return &financialService{orders: orders, payments: payments, now: clock.orDefault()}
}

func (s *financialService) Reconcile(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, before, err := s.reconcile(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if before.PaymentStatus != order.PaymentStatus {
		log.Info().
			Str("order_id", orderID.String()).
			Str("from", string(before.PaymentStatus)).
			Str("to", string(order.PaymentStatus)).
			Str("amount_paid", order.AmountPaid.String()).
			Str("amount_due", order.AmountDue.String()).
			Msg("payment status changed")
	}
	return order, nil
}

func (s *financialService) reconcile(ctx context.Context, orderID uuid.UUID) (*model.Order, model.Financials, error) {
	var (
		order  *model.Order
		before model.Financials
	)
	err := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		o, err := s.orders.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return notFound(err, "order", orderID)
		}
		paid, err := s.payments.SumByOrder(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("sum payments: %w", err)
		}
		if paid.ExceedsMax() {
			return conflictf("payments sum to %s, above the storable maximum of %s", paid, money.Max)
		}

		before = o.Financials()
		next := DeriveFinancials(o, paid, s.now())
		if !next.Equal(before) {
			if err := s.orders.UpdateFinancials(ctx, tx, orderID, next); err != nil {
				return fmt.Errorf("write financials: %w", err)
			}
			o.AmountPaid, o.AmountDue, o.PaymentStatus = next.AmountPaid, next.AmountDue, next.PaymentStatus
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, before, fmt.Errorf("reconcile order %s: %w", orderID, err)
	}
	return order, before, nil
}

func (s *financialService) ReconcileMany(ctx context.Context, orderIDs []uuid.UUID) BatchResult {
	res := BatchResult{Failed: map[uuid.UUID]error{}}
	for _, id := range orderIDs {
		if ctx.Err() != nil {
			res.Failed[id] = ctx.Err()
			continue
		}
		order, before, err := s.reconcile(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("order_id", id.String()).Msg("batch reconcile: order skipped")
			res.Failed[id] = err
			continue
		}
		res.Reconciled++
		if !order.Financials().Equal(before) {
			res.Changed++
		}
	}
	return res
}
