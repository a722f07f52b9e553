package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/apierror"
	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/money"
	"github.com/Karthikx21/Alagarcater-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PaymentService is the write and read side of the payment ledger.
type PaymentService interface {
	// AppendPayment records one payment. replayed is true when the request
	// carried an idempotency key already used on this order with the same
	// amount and method; the original record is returned and nothing is written.
	AppendPayment(ctx context.Context, orderID uuid.UUID, req dto.AppendPaymentRequest) (rec *model.PaymentRecord, replayed bool, err error)
	// ListPayments returns the order's payments lazily, most recent first.
	ListPayments(ctx context.Context, orderID uuid.UUID) (iter.Seq2[model.PaymentRecord, error], error)
	TotalPaid(ctx context.Context, orderID uuid.UUID) (money.Money, error)
	// SubmitPayment appends and then reconciles, so the caller sees the
	// order's new totals in the same response.
	SubmitPayment(ctx context.Context, orderID uuid.UUID, req dto.AppendPaymentRequest) (*PaymentOutcome, error)
}

type PaymentOutcome struct {
	Payment  *model.PaymentRecord
	Order    *model.Order
	Replayed bool
}

type paymentService struct {
	orders     repository.OrderRepository
	payments   repository.PaymentRepository
	financials FinancialService
	jobs       JobDispatcher
	now        Clock
}

func NewPaymentService(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	financials FinancialService,
	jobs JobDispatcher,
	clock Clock,
) PaymentService {
	return &paymentService{
		orders:     orders,
		payments:   payments,
		financials: financials,
		jobs:       jobs,
		now:        clock.orDefault(),
	}
}

// ── Append ───────────────────────────────────────────────────────────────────

func (s *paymentService) AppendPayment(ctx context.Context, orderID uuid.UUID, req dto.AppendPaymentRequest) (*model.PaymentRecord, bool, error) {
	amount, err := money.Parse(strings.TrimSpace(req.Amount))
	if err != nil {
		return nil, false, validationf("amount: %v", err)
	}
	if !amount.IsPositive() {
		return nil, false, validationf("amount must be greater than zero, got %s", amount)
	}
	method := model.PaymentMethod(strings.ToLower(strings.TrimSpace(req.Method)))
	if !method.Valid() {
		return nil, false, validationf("unknown payment method %q", req.Method)
	}

	paymentDate := s.now()
	if req.PaymentDate != nil && !req.PaymentDate.IsZero() {
		paymentDate = *req.PaymentDate
	}

	var key *string
	if req.IdempotencyKey != nil {
		if k := strings.TrimSpace(*req.IdempotencyKey); k != "" {
			key = &k
		}
	}

	rec := &model.PaymentRecord{
		ID:             uuid.New(),
		OrderID:        orderID,
		Amount:         amount,
		Method:         method,
		PaymentDate:    paymentDate.UTC(),
		Notes:          req.Notes,
		ReceiptNumber:  req.ReceiptNumber,
		IdempotencyKey: key,
	}

	var existing *model.PaymentRecord
	err = runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if _, err := s.orders.FindByIDForUpdate(ctx, tx, orderID); err != nil {
			return notFound(err, "order", orderID)
		}
		if key != nil {
			prev, err := s.payments.FindByIdempotencyKey(ctx, tx, orderID, *key)
			switch {
			case err == nil:
				existing = prev
				return nil
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return fmt.Errorf("lookup idempotency key: %w", err)
			}
		}
		paid, err := s.payments.SumByOrder(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("sum payments: %w", err)
		}
		if paid.Add(amount).ExceedsMax() {
			return validationf("amount %s would take payments on order %s past the maximum of %s", amount, orderID, money.Max)
		}
		return s.payments.Create(ctx, tx, rec)
	})

	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrDuplicatedKey) && key != nil:
		// Lost the race on the unique (order_id, idempotency_key) index.
		prev, ferr := s.payments.FindByIdempotencyKey(ctx, nil, orderID, *key)
		if ferr != nil {
			return nil, false, fmt.Errorf("append payment to order %s: %w", orderID, ferr)
		}
		existing = prev
	case errors.Is(err, apierror.ErrValidation):
		return nil, false, err
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return nil, false, notFound(gorm.ErrRecordNotFound, "order", orderID)
	default:
		return nil, false, fmt.Errorf("append payment to order %s: %w", orderID, err)
	}

	if existing != nil {
		if !existing.Amount.Equal(amount) || existing.Method != method {
			return nil, false, conflictf("idempotency key %q was already used for a different payment on order %s", *key, orderID)
		}
		log.Info().
			Str("order_id", orderID.String()).
			Str("payment_id", existing.ID.String()).
			Msg("payment replayed by idempotency key")
		return existing, true, nil
	}

	log.Info().
		Str("order_id", orderID.String()).
		Str("payment_id", rec.ID.String()).
		Str("amount", rec.Amount.String()).
		Str("method", string(rec.Method)).
		Msg("payment recorded")
	return rec, false, nil
}

// ── Read ─────────────────────────────────────────────────────────────────────

func (s *paymentService) ListPayments(ctx context.Context, orderID uuid.UUID) (iter.Seq2[model.PaymentRecord, error], error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return nil, notFound(err, "order", orderID)
	}
	return s.payments.Stream(ctx, orderID), nil
}

func (s *paymentService) TotalPaid(ctx context.Context, orderID uuid.UUID) (money.Money, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return money.Zero, notFound(err, "order", orderID)
	}
	sum, err := s.payments.SumByOrder(ctx, nil, orderID)
	if err != nil {
		return money.Zero, fmt.Errorf("total paid for order %s: %w", orderID, err)
	}
	return sum, nil
}

// ── Submit ───────────────────────────────────────────────────────────────────

func (s *paymentService) SubmitPayment(ctx context.Context, orderID uuid.UUID, req dto.AppendPaymentRequest) (*PaymentOutcome, error) {
	rec, replayed, err := s.AppendPayment(ctx, orderID, req)
	if err != nil {
		return nil, err
	}

	order, err := s.financials.Reconcile(ctx, orderID)
	if err != nil {
		log.Error().Err(err).
			Str("order_id", orderID.String()).
			Str("payment_id", rec.ID.String()).
			Msg("reconcile after payment failed, scheduling retry")
		s.enqueueReconcile(ctx, orderID, "payment "+rec.ID.String())
		return nil, fmt.Errorf("payment %s recorded but order totals were not refreshed: %w", rec.ID, err)
	}

	if !replayed {
		s.enqueueReceipt(ctx, rec, order)
	}
	return &PaymentOutcome{Payment: rec, Order: order, Replayed: replayed}, nil
}

func (s *paymentService) enqueueReconcile(ctx context.Context, orderID uuid.UUID, reason string) {
	if s.jobs == nil {
		return
	}
	job := dto.ReconcileJob{OrderID: orderID.String(), Reason: reason}
	if err := s.jobs.EnqueueReconcile(context.WithoutCancel(ctx), job); err != nil {
		log.Error().Err(err).Str("order_id", job.OrderID).Msg("could not enqueue reconcile job")
	}
}

func (s *paymentService) enqueueReceipt(ctx context.Context, rec *model.PaymentRecord, order *model.Order) {
	if s.jobs == nil || order.Customer == nil || order.Customer.Email == nil || *order.Customer.Email == "" {
		return
	}
	job := dto.PaymentReceiptJob{
		ToEmail:       *order.Customer.Email,
		CustomerName:  order.Customer.Name,
		OrderID:       order.ID.String(),
		PaymentID:     rec.ID.String(),
		Amount:        rec.Amount.String(),
		Method:        string(rec.Method),
		PaymentDate:   rec.PaymentDate.Format(time.DateOnly),
		Total:         order.Total.String(),
		AmountPaid:    order.AmountPaid.String(),
		AmountDue:     order.AmountDue.String(),
		PaymentStatus: string(order.PaymentStatus),
	}
	if rec.ReceiptNumber != nil {
		job.ReceiptNumber = *rec.ReceiptNumber
	}
	if err := s.jobs.EnqueuePaymentReceipt(context.WithoutCancel(ctx), job); err != nil {
		log.Warn().Err(err).Str("payment_id", job.PaymentID).Msg("could not enqueue payment receipt")
	}
}
