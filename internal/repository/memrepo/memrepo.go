// Package memrepo is an in-memory implementation of the repository
// interfaces. It backs unit tests and local experiments; transactions are
// not emulated (services call their tx functions with a nil *gorm.DB) but
// every method is safe for concurrent use.
package memrepo

import (
	"cmp"
	"context"
	"errors"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/money"
	"github.com/Karthikx21/Alagarcater-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInjected is returned by operations failed on purpose through
// SetFailFinancialUpdates and SetFailSums.
var ErrInjected = errors.New("memrepo: injected failure")

// Store holds all tables. The zero value is not usable; call New.
type Store struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]model.Order
	payments  []model.PaymentRecord
	customers map[uuid.UUID]model.Customer
	menu      map[uuid.UUID]model.MenuItem

	failFinancialUpdates int
	failSums             int
}

func New() *Store {
	return &Store{
		orders:    make(map[uuid.UUID]model.Order),
		customers: make(map[uuid.UUID]model.Customer),
		menu:      make(map[uuid.UUID]model.MenuItem),
	}
}

func (s *Store) Orders() repository.OrderRepository { return orderRepo{s} }
func (s *Store) Payments() repository.PaymentRepository { return paymentRepo{s} }
func (s *Store) Customers() repository.CustomerRepository { return customerRepo{s} }
func (s *Store) MenuItems() repository.MenuItemRepository { return menuRepo{s} }

// SetFailFinancialUpdates makes the next n UpdateFinancials calls fail.
func (s *Store) SetFailFinancialUpdates(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFinancialUpdates = n
}

// SetFailSums makes the next n SumByOrder calls fail.
func (s *Store) SetFailSums(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSums = n
}

// PaymentCount returns the number of ledger rows across all orders.
func (s *Store) PaymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

func cloneOrder(o model.Order) model.Order {
	o.Items = slices.Clone(o.Items)
	o.Payments = nil
	o.Customer = nil
	return o
}

// ── Orders ───────────────────────────────────────────────────────────────────

type orderRepo struct{ s *Store }

var _ repository.OrderRepository = orderRepo{}

func (r orderRepo) DB() *gorm.DB { return nil }

func (r orderRepo) Create(_ context.Context, _ *gorm.DB, o *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := time.Now()
	o.CreatedAt, o.UpdatedAt = now, now
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	r.s.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r orderRepo) find(id uuid.UUID) (*model.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := cloneOrder(o)
	if out.CustomerID != nil {
		if c, ok := r.s.customers[*out.CustomerID]; ok {
			out.Customer = &c
		}
	}
	return &out, nil
}

func (r orderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(id)
}

func (r orderRepo) FindByIDForUpdate(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(id)
}

func (r orderRepo) Update(_ context.Context, _ *gorm.DB, o *model.Order, replaceItems bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.orders[o.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.CustomerID = o.CustomerID
	cur.EventDate = o.EventDate
	cur.GuestCount = o.GuestCount
	cur.Venue = o.Venue
	cur.Notes = o.Notes
	cur.Status = o.Status
	cur.Total = o.Total
	cur.UpdatedAt = time.Now()
	if replaceItems {
		for i := range o.Items {
			if o.Items[i].ID == uuid.Nil {
				o.Items[i].ID = uuid.New()
			}
			o.Items[i].OrderID = o.ID
		}
		cur.Items = slices.Clone(o.Items)
	}
	r.s.orders[o.ID] = cur
	return nil
}

func (r orderRepo) UpdateFinancials(_ context.Context, _ *gorm.DB, id uuid.UUID, f model.Financials) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failFinancialUpdates > 0 {
		r.s.failFinancialUpdates--
		return ErrInjected
	}
	cur, ok := r.s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.AmountPaid = f.AmountPaid
	cur.AmountDue = f.AmountDue
	cur.PaymentStatus = f.PaymentStatus
	cur.UpdatedAt = time.Now()
	r.s.orders[id] = cur
	return nil
}

func (r orderRepo) UpdatePaymentStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, status model.PaymentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.PaymentStatus = status
	cur.UpdatedAt = time.Now()
	r.s.orders[id] = cur
	return nil
}

func (r orderRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.payments = slices.DeleteFunc(r.s.payments, func(p model.PaymentRecord) bool { return p.OrderID == id })
	delete(r.s.orders, id)
	return nil
}

func (r orderRepo) List(_ context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []model.Order
	for id, o := range r.s.orders {
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && string(o.PaymentStatus) != filter.PaymentStatus {
			continue
		}
		if filter.CustomerID != "" && (o.CustomerID == nil || o.CustomerID.String() != filter.CustomerID) {
			continue
		}
		found, _ := r.find(id)
		all = append(all, *found)
	}
	slices.SortFunc(all, func(a, b model.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return paginate(all, filter.Page, filter.Limit), int64(len(all)), nil
}

func (r orderRepo) ListReclassifyCandidates(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var due []model.Order
	for _, o := range r.s.orders {
		if o.EventDate == nil || !o.EventDate.Before(now) {
			continue
		}
		if o.PaymentStatus != model.PaymentPending && o.PaymentStatus != model.PaymentPartial {
			continue
		}
		due = append(due, o)
	}
	slices.SortFunc(due, func(a, b model.Order) int { return a.EventDate.Compare(*b.EventDate) })
	ids := make([]uuid.UUID, 0, len(due))
	for _, o := range due {
		if len(ids) == limit {
			break
		}
		ids = append(ids, o.ID)
	}
	return ids, nil
}

// ── Payments ─────────────────────────────────────────────────────────────────

type paymentRepo struct{ s *Store }

var _ repository.PaymentRepository = paymentRepo{}

func (r paymentRepo) Create(_ context.Context, _ *gorm.DB, p *model.PaymentRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[p.OrderID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if p.IdempotencyKey != nil {
		for _, existing := range r.s.payments {
			if existing.OrderID == p.OrderID && existing.IdempotencyKey != nil && *existing.IdempotencyKey == *p.IdempotencyKey {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.s.payments = append(r.s.payments, *p)
	return nil
}

func (r paymentRepo) FindByIdempotencyKey(_ context.Context, _ *gorm.DB, orderID uuid.UUID, key string) (*model.PaymentRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.OrderID == orderID && p.IdempotencyKey != nil && *p.IdempotencyKey == key {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r paymentRepo) Stream(_ context.Context, orderID uuid.UUID) iter.Seq2[model.PaymentRecord, error] {
	return func(yield func(model.PaymentRecord, error) bool) {
		r.s.mu.Lock()
		var rows []model.PaymentRecord
		for _, p := range r.s.payments {
			if p.OrderID == orderID {
				rows = append(rows, p)
			}
		}
		r.s.mu.Unlock()

		slices.SortStableFunc(rows, func(a, b model.PaymentRecord) int {
			return cmp.Or(b.PaymentDate.Compare(a.PaymentDate), b.CreatedAt.Compare(a.CreatedAt))
		})
		for _, p := range rows {
			if !yield(p, nil) {
				return
			}
		}
	}
}

func (r paymentRepo) SumByOrder(_ context.Context, _ *gorm.DB, orderID uuid.UUID) (money.Money, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSums > 0 {
		r.s.failSums--
		return money.Zero, ErrInjected
	}
	var amounts []money.Money
	for _, p := range r.s.payments {
		if p.OrderID == orderID {
			amounts = append(amounts, p.Amount)
		}
	}
	return money.Sum(amounts...), nil
}

func (r paymentRepo) CountByOrder(_ context.Context, _ *gorm.DB, orderID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.payments {
		if p.OrderID == orderID {
			n++
		}
	}
	return n, nil
}

// ── Customers ────────────────────────────────────────────────────────────────

type customerRepo struct{ s *Store }

var _ repository.CustomerRepository = customerRepo{}

func (r customerRepo) Create(_ context.Context, c *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.s.customers[c.ID] = *c
	return nil
}

func (r customerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r customerRepo) List(_ context.Context, filter dto.CustomerFilter) ([]model.Customer, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(filter.Q))
	var all []model.Customer
	for _, c := range r.s.customers {
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(c.Phone, q) {
			continue
		}
		all = append(all, c)
	}
	slices.SortFunc(all, func(a, b model.Customer) int { return strings.Compare(a.Name, b.Name) })
	return paginate(all, filter.Page, filter.Limit), int64(len(all)), nil
}

func (r customerRepo) Update(_ context.Context, c *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c.UpdatedAt = time.Now()
	r.s.customers[c.ID] = *c
	return nil
}

// ── Menu ─────────────────────────────────────────────────────────────────────

type menuRepo struct{ s *Store }

var _ repository.MenuItemRepository = menuRepo{}

func (r menuRepo) Create(_ context.Context, m *model.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.menu {
		if strings.EqualFold(existing.Name, m.Name) {
			return gorm.ErrDuplicatedKey
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now
	r.s.menu[m.ID] = *m
	return nil
}

func (r menuRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.menu[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r menuRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.MenuItem
	for _, id := range ids {
		if m, ok := r.s.menu[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r menuRepo) List(_ context.Context, includeInactive bool) ([]model.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.MenuItem
	for _, m := range r.s.menu {
		if !includeInactive && !m.Active {
			continue
		}
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b model.MenuItem) int {
		return cmp.Or(strings.Compare(a.Category, b.Category), strings.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (r menuRepo) Update(_ context.Context, m *model.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.menu[m.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.UpdatedAt = time.Now()
	r.s.menu[m.ID] = *m
	return nil
}

func paginate[T any](all []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return all
	}
	start := (page - 1) * limit
	if start >= len(all) {
		return nil
	}
	return all[start:min(start+limit, len(all))]
}
