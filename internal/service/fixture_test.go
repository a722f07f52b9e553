package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/repository/memrepo"
	"github.com/Karthikx21/Alagarcater-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// ── Test doubles ─────────────────────────────────────────────────────────────

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingDispatcher struct {
	mu         sync.Mutex
	reconciles []dto.ReconcileJob
	receipts   []dto.PaymentReceiptJob
}

func (d *recordingDispatcher) EnqueueReconcile(_ context.Context, job dto.ReconcileJob) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reconciles = append(d.reconciles, job)
	return nil
}

func (d *recordingDispatcher) EnqueuePaymentReceipt(_ context.Context, job dto.PaymentReceiptJob) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.receipts = append(d.receipts, job)
	return nil
}

var _ service.JobDispatcher = (*recordingDispatcher)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	store      *memrepo.Store
	clock      *fakeClock
	jobs       *recordingDispatcher
	financials service.FinancialService
	payments   service.PaymentService
	orders     service.OrderService
	customers  service.CustomerService
	menu       service.MenuService
}

func newFixture(t *testing.T, policy service.DeletePolicy) *fixture {
	t.Helper()
	store := memrepo.New()
	clock := &fakeClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	jobs := &recordingDispatcher{}

	fin := service.NewFinancialService(store.Orders(), store.Payments(), clock.Now)
	return &fixture{
		store:      store,
		clock:      clock,
		jobs:       jobs,
		financials: fin,
		payments:   service.NewPaymentService(store.Orders(), store.Payments(), fin, jobs, clock.Now),
		orders: service.NewOrderService(store.Orders(), store.Payments(), store.Customers(),
			store.MenuItems(), fin, policy, clock.Now),
		customers: service.NewCustomerService(store.Customers()),
		menu:      service.NewMenuService(store.MenuItems()),
	}
}

func (f *fixture) menuItem(t *testing.T, name, price string) *model.MenuItem {
	t.Helper()
	m, err := f.menu.Create(context.Background(), dto.CreateMenuItemRequest{Name: name, Price: price})
	require.NoError(t, err)
	return m
}

// order creates an order of qty x price with the event `in` from now.
func (f *fixture) order(t *testing.T, price string, qty int, in time.Duration) *model.Order {
	t.Helper()
	m := f.menuItem(t, "dish-"+uuid.NewString()[:8], price)
	event := f.clock.Now().Add(in)
	o, err := f.orders.CreateOrder(context.Background(), dto.CreateOrderRequest{
		EventDate: &event,
		Items:     []dto.OrderItemRequest{{MenuItemID: m.ID.String(), Quantity: qty}},
	})
	require.NoError(t, err)
	return o
}

func payReq(amount string) dto.AppendPaymentRequest {
	return dto.AppendPaymentRequest{Amount: amount, Method: "cash"}
}

func strPtr(s string) *string { return &s }
