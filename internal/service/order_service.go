package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/money"
	"github.com/Karthikx21/Alagarcater-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DeletePolicy decides what DeleteOrder does with an order that has payments.
type DeletePolicy string

const (
	// DeleteCascade removes the order together with its ledger.
	DeleteCascade DeletePolicy = "cascade"
	// DeleteReject refuses to delete an order that has any payment.
	DeleteReject DeletePolicy = "reject"
)

func (p DeletePolicy) Valid() bool { return p == DeleteCascade || p == DeleteReject }

type OrderService interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*model.Order, error)
	// GetOrder reconciles before returning, so a read heals totals left stale
	// by an earlier failed reconcile.
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
	SetPaymentOverride(ctx context.Context, id uuid.UUID, req dto.PaymentOverrideRequest) (*model.Order, error)
	ClearPaymentOverride(ctx context.Context, id uuid.UUID) (*model.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	// Editable is CanEdit evaluated at the service clock.
	Editable(o *model.Order) bool
}

type orderService struct {
	orders     repository.OrderRepository
	payments   repository.PaymentRepository
	customers  repository.CustomerRepository
	menu       repository.MenuItemRepository
	financials FinancialService
	policy     DeletePolicy
	now        Clock
}

func NewOrderService(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	customers repository.CustomerRepository,
	menu repository.MenuItemRepository,
	financials FinancialService,
	policy DeletePolicy,
	clock Clock,
) OrderService {
	if !policy.Valid() {
		policy = DeleteCascade
	}
	return &orderService{
		orders:     orders,
		payments:   payments,
		customers:  customers,
		menu:       menu,
		financials: financials,
		policy:     policy,
		now:        clock.orDefault(),
	}
}

func (s *orderService) Editable(o *model.Order) bool { return CanEdit(o, s.now()) }

// ── Create / Read ────────────────────────────────────────────────────────────

func (s *orderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, validationf("an order needs at least one item")
	}
	customerID, err := s.resolveCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := s.checkEventDate(req.EventDate); err != nil {
		return nil, err
	}
	if req.GuestCount < 0 {
		return nil, validationf("guest_count cannot be negative")
	}
	items, total, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		EventDate:     utcPtr(req.EventDate),
		GuestCount:    req.GuestCount,
		Venue:         trimPtr(req.Venue),
		Notes:         trimPtr(req.Notes),
		Status:        model.OrderNew,
		Total:         total,
		AmountPaid:    money.Zero,
		AmountDue:     total,
		PaymentStatus: model.PaymentPending,
		Items:         items,
	}
	if err := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		return s.orders.Create(ctx, tx, order)
	}); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	log.Info().Str("order_id", order.ID.String()).Str("total", total.String()).Msg("order created")

	return s.reconciledOrStored(ctx, order.ID)
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.financials.Reconcile(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// ── Edit ─────────────────────────────────────────────────────────────────────

func (s *orderService) UpdateOrder(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*model.Order, error) {
	if req.Items != nil && len(req.Items) == 0 {
		return nil, validationf("an order needs at least one item")
	}
	if err := s.checkEventDate(req.EventDate); err != nil {
		return nil, err
	}
	if req.GuestCount != nil && *req.GuestCount < 0 {
		return nil, validationf("guest_count cannot be negative")
	}
	customerID, err := s.resolveCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	var (
		items []model.OrderItem
		total money.Money
	)
	if req.Items != nil {
		if items, total, err = s.priceItems(ctx, req.Items); err != nil {
			return nil, err
		}
	}

	var affectsFinancials bool
	err = runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		o, err := s.orders.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, "order", id)
		}
		if err := EnsureEditable(o, s.now()); err != nil {
			return err
		}
		if customerID != nil {
			o.CustomerID = customerID
		}
		if req.EventDate != nil {
			o.EventDate = utcPtr(req.EventDate)
			affectsFinancials = true
		}
		if req.GuestCount != nil {
			o.GuestCount = *req.GuestCount
		}
		if req.Venue != nil {
			o.Venue = trimPtr(req.Venue)
		}
		if req.Notes != nil {
			o.Notes = trimPtr(req.Notes)
		}
		if req.Items != nil {
			affectsFinancials = affectsFinancials || !total.Equal(o.Total)
			o.Items = items
			o.Total = total
		}
		return s.orders.Update(ctx, tx, o, req.Items != nil)
	})
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", id, err)
	}

	if affectsFinancials {
		return s.reconciledOrStored(ctx, id)
	}
	return s.load(ctx, id)
}

// UpdateStatus moves the fulfillment status. Cancelling also sets the
// payment status to the cancelled override.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, validationf("unknown order status %q", status)
	}
	var from model.OrderStatus
	err := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		o, err := s.orders.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, "order", id)
		}
		if err := EnsureEditable(o, s.now()); err != nil {
			return err
		}
		from = o.Status
		o.Status = status
		if err := s.orders.Update(ctx, tx, o, false); err != nil {
			return err
		}
		if status == model.OrderCancelled {
			return s.orders.UpdatePaymentStatus(ctx, tx, id, model.PaymentCancelled)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update status of order %s: %w", id, err)
	}
	log.Info().Str("order_id", id.String()).Str("from", string(from)).Str("to", string(status)).Msg("order status changed")
	return s.reconciledOrStored(ctx, id)
}

// ── Payment overrides ────────────────────────────────────────────────────────

func (s *orderService) SetPaymentOverride(ctx context.Context, id uuid.UUID, req dto.PaymentOverrideRequest) (*model.Order, error) {
	status := model.PaymentStatus(req.Status)
	if !status.IsOverride() {
		return nil, validationf("payment status %q cannot be set manually", req.Status)
	}
	err := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if _, err := s.orders.FindByIDForUpdate(ctx, tx, id); err != nil {
			return notFound(err, "order", id)
		}
		if status == model.PaymentRefunded {
			paid, err := s.payments.SumByOrder(ctx, tx, id)
			if err != nil {
				return fmt.Errorf("sum payments: %w", err)
			}
			if !paid.IsPositive() {
				return conflictf("order %s has no payments to refund", id)
			}
		}
		return s.orders.UpdatePaymentStatus(ctx, tx, id, status)
	})
	if err != nil {
		return nil, fmt.Errorf("set payment override on order %s: %w", id, err)
	}
	ev := log.Info().Str("order_id", id.String()).Str("status", string(status))
	if req.Reason != nil {
		ev = ev.Str("reason", *req.Reason)
	}
	ev.Msg("payment status overridden")
	return s.reconciledOrStored(ctx, id)
}

// ClearPaymentOverride hands the payment status back to the classifier.
// Only editable orders can be reopened.
func (s *orderService) ClearPaymentOverride(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	err := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		o, err := s.orders.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, "order", id)
		}
		if !o.PaymentStatus.IsOverride() {
			return conflictf("order %s has no payment override", id)
		}
		if err := EnsureEditable(o, s.now()); err != nil {
			return err
		}
		return s.orders.UpdatePaymentStatus(ctx, tx, id, model.PaymentPending)
	})
	if err != nil {
		return nil, fmt.Errorf("clear payment override on order %s: %w", id, err)
	}
	log.Info().Str("order_id", id.String()).Msg("payment override cleared")
	return s.financials.Reconcile(ctx, id)
}

// ── Delete ───────────────────────────────────────────────────────────────────

func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	var payments int64
	err := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if _, err := s.orders.FindByIDForUpdate(ctx, tx, id); err != nil {
			return notFound(err, "order", id)
		}
		n, err := s.payments.CountByOrder(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("count payments: %w", err)
		}
		if n > 0 && s.policy == DeleteReject {
			return conflictf("order %s has %d payment(s) and cannot be deleted", id, n)
		}
		payments = n
		return notFound(s.orders.Delete(ctx, tx, id), "order", id)
	})
	if err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	log.Info().Str("order_id", id.String()).Int64("payments_removed", payments).Msg("order deleted")
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// priceItems snapshots name and price of each menu item into order lines.
func (s *orderService) priceItems(ctx context.Context, reqs []dto.OrderItemRequest) ([]model.OrderItem, money.Money, error) {
	ids := make([]uuid.UUID, 0, len(reqs))
	for _, r := range reqs {
		id, err := uuid.Parse(r.MenuItemID)
		if err != nil {
			return nil, money.Zero, validationf("menu_item_id %q is not a valid id", r.MenuItemID)
		}
		if r.Quantity < 1 {
			return nil, money.Zero, validationf("quantity for menu item %s must be at least 1", id)
		}
		ids = append(ids, id)
	}
	found, err := s.menu.FindByIDs(ctx, ids)
	if err != nil {
		return nil, money.Zero, fmt.Errorf("load menu items: %w", err)
	}
	byID := make(map[uuid.UUID]model.MenuItem, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}

	items := make([]model.OrderItem, 0, len(reqs))
	total := money.Zero
	for i, r := range reqs {
		m, ok := byID[ids[i]]
		if !ok {
			return nil, money.Zero, validationf("menu item %s does not exist", ids[i])
		}
		if !m.Active {
			return nil, money.Zero, validationf("menu item %q is not available", m.Name)
		}
		menuID := m.ID
		subtotal := m.Price.MulInt(int64(r.Quantity))
		items = append(items, model.OrderItem{
			ID:         uuid.New(),
			MenuItemID: &menuID,
			Name:       m.Name,
			UnitPrice:  m.Price,
			Quantity:   r.Quantity,
			Subtotal:   subtotal,
		})
		total = total.Add(subtotal)
		if total.ExceedsMax() {
			return nil, money.Zero, validationf("order total exceeds the maximum of %s", money.Max)
		}
	}
	return items, total, nil
}

func (s *orderService) resolveCustomer(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, validationf("customer_id %q is not a valid id", *raw)
	}
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("customer %s does not exist", id)
		}
		return nil, fmt.Errorf("load customer: %w", err)
	}
	return &id, nil
}

func (s *orderService) checkEventDate(d *time.Time) error {
	if d != nil && !d.IsZero() && d.Before(s.now()) {
		return validationf("event_date %s is in the past", d.Format(time.RFC3339))
	}
	return nil
}

// reconciledOrStored reconciles after a write. A failed reconcile is logged
// and the stored order returned; the next read heals it.
func (s *orderService) reconciledOrStored(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, err := s.financials.Reconcile(ctx, id)
	if err == nil {
		return o, nil
	}
	log.Warn().Err(err).Str("order_id", id.String()).Msg("reconcile after write failed")
	return s.load(ctx, id)
}

func (s *orderService) load(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return o, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
