package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/apierror"
	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/money"
	"github.com/Karthikx21/Alagarcater-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const week = 7 * 24 * time.Hour

func TestSubmitPayment_PartialThenPaidThenOverpaid(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	ctx := context.Background()
	o := f.order(t, "100.00", 10, week)
	assert.Equal(t, "1000.00", o.Total.String())
	assert.Equal(t, model.PaymentPending, o.PaymentStatus)

	steps := []struct {
		amount, paid, due string
		status            model.PaymentStatus
	}{
		{"400", "400.00", "600.00", model.PaymentPartial},
		{"600.00", "1000.00", "0.00", model.PaymentPaid},
		{"50", "1050.00", "0.00", model.PaymentPaid},
	}
	for _, s := range steps {
		out, err := f.payments.SubmitPayment(ctx, o.ID, payReq(s.amount))
		require.NoError(t, err)
		assert.False(t, out.Replayed)
		assert.Equal(t, s.paid, out.Order.AmountPaid.String())
		assert.Equal(t, s.due, out.Order.AmountDue.String())
		assert.Equal(t, s.status, out.Order.PaymentStatus)
	}

	total, err := f.payments.TotalPaid(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "1050.00", total.String())
}

func TestAppendPayment_RejectsBadAmounts(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	o := f.order(t, "100", 1, week)

	for _, amount := range []string{"0", "0.00", "-5.00", "abc", "", "1.234", "1e20", "10000000000.00"} {
		_, _, err := f.payments.AppendPayment(context.Background(), o.ID, payReq(amount))
		assert.ErrorIs(t, err, apierror.ErrValidation, "amount %q", amount)
	}
	assert.Equal(t, 0, f.store.PaymentCount())
}

func TestAppendPayment_CapsLedgerSum(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	ctx := context.Background()
	o := f.order(t, "9999999999.99", 1, week)

	out, err := f.payments.SubmitPayment(ctx, o.ID, payReq("9999999999.00"))
	require.NoError(t, err)
	assert.Equal(t, "0.99", out.Order.AmountDue.String())

	_, err = f.payments.SubmitPayment(ctx, o.ID, payReq("1.00"))
	assert.ErrorIs(t, err, apierror.ErrValidation)
	assert.Equal(t, 1, f.store.PaymentCount())

	out, err = f.payments.SubmitPayment(ctx, o.ID, payReq("0.99"))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, out.Order.PaymentStatus)
}

func TestReconcile_SumAboveMaxIsConflict(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	ctx := context.Background()
	o := f.order(t, "100", 1, week)

	for _, amount := range []string{"9999999999.99", "0.01"} {
		require.NoError(t, f.store.Payments().Create(ctx, nil, &model.PaymentRecord{
			OrderID:     o.ID,
			Amount:      money.MustParse(amount),
			Method:      model.MethodCash,
			PaymentDate: f.clock.Now(),
		}))
	}

	_, err := f.financials.Reconcile(ctx, o.ID)
	assert.ErrorIs(t, err, apierror.ErrConflict)
	stored, err := f.store.Orders().FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", stored.AmountPaid.String(), "nothing is written")
}

func TestAppendPayment_RejectsUnknownMethod(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	o := f.order(t, "100", 1, week)

	_, _, err := f.payments.AppendPayment(context.Background(), o.ID, dto.AppendPaymentRequest{Amount: "10", Method: "barter"})
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestAppendPayment_UnknownOrder(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)

	_, _, err := f.payments.AppendPayment(context.Background(), uuid.New(), payReq("10"))
	assert.ErrorIs(t, err, apierror.ErrNotFound)
	assert.Equal(t, 0, f.store.PaymentCount())
}

func TestAppendPayment_DefaultsAndBackdating(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	ctx := context.Background()
	o := f.order(t, "100", 1, week)

	rec, _, err := f.payments.AppendPayment(ctx, o.ID, payReq("10"))
	require.NoError(t, err)
	assert.True(t, rec.PaymentDate.Equal(f.clock.Now()))

	earlier := f.clock.Now().Add(-48 * time.Hour)
	req := payReq("10")
	req.PaymentDate = &earlier
	rec, _, err = f.payments.AppendPayment(ctx, o.ID, req)
	require.NoError(t, err)
	assert.True(t, rec.PaymentDate.Equal(earlier))
}

func TestAppendPayment_IdempotencyKey(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	ctx := context.Background()
	o := f.order(t, "100", 10, week)

	req := payReq("250")
	req.IdempotencyKey = strPtr("till-42-0001")

	first, replayed, err := f.payments.AppendPayment(ctx, o.ID, req)
	require.NoError(t, err)
	assert.False(t, replayed)

	second, replayed, err := f.payments.AppendPayment(ctx, o.ID, req)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.store.PaymentCount())

	req.Amount = "300"
	_, _, err = f.payments.AppendPayment(ctx, o.ID, req)
	assert.ErrorIs(t, err, apierror.ErrConflict)

	// Keys are scoped to the order.
	other := f.order(t, "100", 1, week)
	req.Amount = "250"
	_, replayed, err = f.payments.AppendPayment(ctx, other.ID, req)
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, 2, f.store.PaymentCount())
}

func TestSubmitPayment_ReplayDoesNotResendReceipt(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	ctx := context.Background()
	c, err := f.customers.Create(ctx, dto.CreateCustomerRequest{Name: "Meena", Phone: "9840012345", Email: strPtr("Meena@Example.com")})
	require.NoError(t, err)
	m := f.menuItem(t, "Veg thali", "250")
	event := f.clock.Now().Add(week)
	cid := c.ID.String()
	o, err := f.orders.CreateOrder(ctx, dto.CreateOrderRequest{
		CustomerID: &cid,
		EventDate:  &event,
		Items:      []dto.OrderItemRequest{{MenuItemID: m.ID.String(), Quantity: 4}},
	})
	require.NoError(t, err)

	req := payReq("500")
	req.IdempotencyKey = strPtr("receipt-key-1")
	_, err = f.payments.SubmitPayment(ctx, o.ID, req)
	require.NoError(t, err)
	out, err := f.payments.SubmitPayment(ctx, o.ID, req)
	require.NoError(t, err)
	assert.True(t, out.Replayed)

	require.Len(t, f.jobs.receipts, 1)
	r := f.jobs.receipts[0]
	assert.Equal(t, "meena@example.com", r.ToEmail)
	assert.Equal(t, "500.00", r.Amount)
	assert.Equal(t, "500.00", r.AmountDue)
	assert.Equal(t, string(model.PaymentPartial), r.PaymentStatus)
}

func TestConcurrentAppendsConverge(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	ctx := context.Background()
	o := f.order(t, "100", 10, week)

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.payments.SubmitPayment(ctx, o.ID, payReq("12.50"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := f.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "500.00", got.AmountPaid.String())
	assert.Equal(t, "500.00", got.AmountDue.String())
	assert.Equal(t, model.PaymentPartial, got.PaymentStatus)
	assert.Equal(t, n, f.store.PaymentCount())
}

func TestSubmitPayment_FailedReconcileSelfHeals(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	ctx := context.Background()
	o := f.order(t, "100", 10, week)

	f.store.SetFailFinancialUpdates(1)
	_, err := f.payments.SubmitPayment(ctx, o.ID, payReq("300"))
	require.Error(t, err)
	assert.Equal(t, 500, apierror.Status(err))
	assert.Equal(t, 1, f.store.PaymentCount(), "payment stays recorded")
	require.Len(t, f.jobs.reconciles, 1)
	assert.Equal(t, o.ID.String(), f.jobs.reconciles[0].OrderID)

	got, err := f.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "300.00", got.AmountPaid.String())
	assert.Equal(t, "700.00", got.AmountDue.String())
	assert.Equal(t, model.PaymentPartial, got.PaymentStatus)
}

func TestReconcile_IsIdempotent(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	ctx := context.Background()
	o := f.order(t, "100", 10, week)
	_, _, err := f.payments.AppendPayment(ctx, o.ID, payReq("100"))
	require.NoError(t, err)

	first := f.financials.ReconcileMany(ctx, []uuid.UUID{o.ID})
	assert.Equal(t, 1, first.Changed)
	second := f.financials.ReconcileMany(ctx, []uuid.UUID{o.ID})
	assert.Equal(t, 1, second.Reconciled)
	assert.Equal(t, 0, second.Changed)
}

func TestReconcileMany_IsolatesFailures(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	ctx := context.Background()
	a := f.order(t, "100", 1, week)
	b := f.order(t, "100", 1, week)
	missing := uuid.New()

	res := f.financials.ReconcileMany(ctx, []uuid.UUID{a.ID, missing, b.ID})
	assert.Equal(t, 2, res.Reconciled)
	require.Contains(t, res.Failed, missing)
	assert.ErrorIs(t, res.Failed[missing], apierror.ErrNotFound)
}

func TestOverdueAfterEventDate(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	ctx := context.Background()
	o := f.order(t, "100", 10, 48*time.Hour)

	_, err := f.payments.SubmitPayment(ctx, o.ID, payReq("200"))
	require.NoError(t, err)

	f.clock.Advance(72 * time.Hour)
	got, err := f.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentOverdue, got.PaymentStatus)

	out, err := f.payments.SubmitPayment(ctx, o.ID, payReq("800"))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, out.Order.PaymentStatus, "fully paid wins over overdue")
}

func TestOverrideSurvivesNewPayments(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	ctx := context.Background()
	o := f.order(t, "100", 10, week)
	_, err := f.payments.SubmitPayment(ctx, o.ID, payReq("100"))
	require.NoError(t, err)

	_, err = f.orders.SetPaymentOverride(ctx, o.ID, dto.PaymentOverrideRequest{Status: "refunded"})
	require.NoError(t, err)

	out, err := f.payments.SubmitPayment(ctx, o.ID, payReq("900"))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRefunded, out.Order.PaymentStatus)
	assert.Equal(t, "1000.00", out.Order.AmountPaid.String())
	assert.Equal(t, "0.00", out.Order.AmountDue.String())
}

func TestListPayments(t *testing.T) {
	f := newFixture(t, service.DeleteCascade)
	ctx := context.Background()
	o := f.order(t, "100", 10, week)

	for i, amount := range []string{"10", "20", "30"} {
		d := f.clock.Now().Add(time.Duration(i) * time.Hour)
		req := payReq(amount)
		req.PaymentDate = &d
		_, _, err := f.payments.AppendPayment(ctx, o.ID, req)
		require.NoError(t, err)
	}

	seq, err := f.payments.ListPayments(ctx, o.ID)
	require.NoError(t, err)
	var amounts []string
	for p, err := range seq {
		require.NoError(t, err)
		amounts = append(amounts, p.Amount.String())
	}
	assert.Equal(t, []string{"30.00", "20.00", "10.00"}, amounts)

	_, err = f.payments.ListPayments(ctx, uuid.New())
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}
