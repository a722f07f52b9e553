package worker

import (
	"context"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/repository"
	"github.com/Karthikx21/Alagarcater-sub000/internal/service"

	"github.com/rs/zerolog/log"
)

// OverdueSweep moves pending and partial orders whose event date has passed
// to overdue. Reads never persist a status change on their own, so without
// the sweep an untouched order would stay pending in list filters.
type OverdueSweep struct {
	orders     repository.OrderRepository
	financials service.FinancialService
	batch      int
	clock      service.Clock
}

func NewOverdueSweep(orders repository.OrderRepository, financials service.FinancialService, batch int, clock service.Clock) *OverdueSweep {
	if batch <= 0 {
		batch = 200
	}
	if clock == nil {
		clock = time.Now
	}
	return &OverdueSweep{orders: orders, financials: financials, batch: batch, clock: clock}
}

// Start runs one sweep immediately and then every interval until ctx is
// cancelled.
func (s *OverdueSweep) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		log.Info().Dur("interval", interval).Msg("overdue sweep started")

		s.RunOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("overdue sweep stopped")
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce reconciles a single batch of candidates. Failed orders stay
// candidates and are retried on the next tick.
func (s *OverdueSweep) RunOnce(ctx context.Context) service.BatchResult {
	ids, err := s.orders.ListReclassifyCandidates(ctx, s.clock().UTC(), s.batch)
	if err != nil {
		log.Error().Err(err).Msg("overdue sweep: failed to list candidates")
		return service.BatchResult{}
	}
	if len(ids) == 0 {
		return service.BatchResult{}
	}

	// ReconcileMany logs each failure itself.
	res := s.financials.ReconcileMany(ctx, ids)
	log.Info().
		Int("candidates", len(ids)).
		Int("reconciled", res.Reconciled).
		Int("changed", res.Changed).
		Int("failed", len(res.Failed)).
		Msg("overdue sweep complete")
	return res
}
