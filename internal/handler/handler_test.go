package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/middleware"
	"github.com/Karthikx21/Alagarcater-sub000/internal/repository/memrepo"
	"github.com/Karthikx21/Alagarcater-sub000/internal/router"
	"github.com/Karthikx21/Alagarcater-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type api struct {
	t      *testing.T
	engine *gin.Engine
	now    time.Time
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memrepo.New()
	a := &api{t: t, now: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svcs := router.NewServices(router.Repositories{
		Orders:    store.Orders(),
		Payments:  store.Payments(),
		Customers: store.Customers(),
		Menu:      store.MenuItems(),
	}, nil, service.DeleteReject, func() time.Time { return a.now })

	a.engine = gin.New()
	a.engine.Use(middleware.RequestID(), middleware.Recovery())
	router.Register(a.engine.Group("/v1"), svcs)
	return a
}

func (a *api) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// order creates a menu item and an order of qty x price through the API.
func (a *api) order(price string, qty int) dto.OrderResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/v1/menu-items", map[string]any{"name": "Item " + uuid.NewString()[:6], "price": price})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[dto.MenuItemResponse](a.t, w)

	event := a.now.Add(72 * time.Hour)
	w = a.do(http.MethodPost, "/v1/orders", map[string]any{
		"event_date":  event,
		"guest_count": qty,
		"items":       []map[string]any{{"menu_item_id": item.ID, "quantity": qty}},
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.OrderResponse](a.t, w)
}

func TestPaymentFlowOverHTTP(t *testing.T) {
	a := newAPI(t)
	o := a.order("100.00", 10)
	assert.Equal(t, "1000.00", o.Total.String())
	assert.True(t, o.Editable)

	w := a.do(http.MethodPost, "/v1/orders/"+o.ID+"/payments", map[string]any{"amount": "400", "method": "upi"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"amount_due":"600.00"`)
	assert.Contains(t, w.Body.String(), `"payment_status":"partial"`)

	w = a.do(http.MethodPost, "/v1/orders/"+o.ID+"/payments", map[string]any{"amount": "600.00", "method": "cash"})
	require.Equal(t, http.StatusCreated, w.Code)
	out := decode[dto.SubmitPaymentResponse](t, w)
	assert.Equal(t, "paid", out.Order.PaymentStatus)
	assert.Equal(t, "0.00", out.Order.AmountDue.String())

	w = a.do(http.MethodGet, "/v1/orders/"+o.ID+"/payments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.PaymentListResponse](t, w)
	assert.Len(t, list.Data, 2)
	assert.Equal(t, "1000.00", list.TotalPaid.String())
}

func TestSubmitPayment_Errors(t *testing.T) {
	a := newAPI(t)
	o := a.order("100", 1)

	cases := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"zero amount", "/v1/orders/" + o.ID + "/payments", map[string]any{"amount": "0", "method": "cash"}, http.StatusBadRequest},
		{"negative amount", "/v1/orders/" + o.ID + "/payments", map[string]any{"amount": "-5.00", "method": "cash"}, http.StatusBadRequest},
		{"exponent amount", "/v1/orders/" + o.ID + "/payments", map[string]any{"amount": "1e20", "method": "cash"}, http.StatusBadRequest},
		{"amount above column range", "/v1/orders/" + o.ID + "/payments", map[string]any{"amount": "10000000000.00", "method": "cash"}, http.StatusBadRequest},
		{"missing method", "/v1/orders/" + o.ID + "/payments", map[string]any{"amount": "5"}, http.StatusBadRequest},
		{"malformed json", "/v1/orders/" + o.ID + "/payments", `{"amount":`, http.StatusBadRequest},
		{"bad order id", "/v1/orders/not-a-uuid/payments", map[string]any{"amount": "5", "method": "cash"}, http.StatusBadRequest},
		{"unknown order", "/v1/orders/" + uuid.NewString() + "/payments", map[string]any{"amount": "5", "method": "cash"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := a.do(http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}

	w := a.do(http.MethodPost, "/v1/orders/"+o.ID+"/payments", map[string]any{"amount": "5"})
	errBody := decode[map[string]any](t, w)
	assert.Equal(t, map[string]any{"method": "required"}, errBody["fields"])
}

func TestSubmitPayment_IdempotencyHeader(t *testing.T) {
	a := newAPI(t)
	o := a.order("100", 10)
	path := "/v1/orders/" + o.ID + "/payments"
	body := map[string]any{"amount": "250", "method": "card"}

	first := a.do(http.MethodPost, path, body, "Idempotency-Key", "pos-7f3a-0001")
	require.Equal(t, http.StatusCreated, first.Code)
	replay := a.do(http.MethodPost, path, body, "Idempotency-Key", "pos-7f3a-0001")
	require.Equal(t, http.StatusOK, replay.Code)
	assert.True(t, decode[dto.SubmitPaymentResponse](t, replay).Replayed)
	assert.Equal(t,
		decode[dto.SubmitPaymentResponse](t, first).Payment.ID,
		decode[dto.SubmitPaymentResponse](t, replay).Payment.ID)

	conflict := a.do(http.MethodPost, path, map[string]any{"amount": "999", "method": "card"}, "Idempotency-Key", "pos-7f3a-0001")
	assert.Equal(t, http.StatusConflict, conflict.Code)
}

func TestOrderEditGateOverHTTP(t *testing.T) {
	a := newAPI(t)
	o := a.order("100", 2)

	w := a.do(http.MethodGet, "/v1/orders/"+o.ID+"/editable", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[dto.EditableResponse](t, w).Editable)

	w = a.do(http.MethodPatch, "/v1/orders/"+o.ID+"/status", map[string]any{"status": "delivered"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[dto.OrderResponse](t, w).Editable)

	w = a.do(http.MethodPut, "/v1/orders/"+o.ID, map[string]any{"guest_count": 3})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPatch, "/v1/orders/"+o.ID+"/status", map[string]any{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderOverrideAndReconcileOverHTTP(t *testing.T) {
	a := newAPI(t)
	o := a.order("100", 10)
	a.do(http.MethodPost, "/v1/orders/"+o.ID+"/payments", map[string]any{"amount": "100", "method": "cash"})

	w := a.do(http.MethodPost, "/v1/orders/"+o.ID+"/payment-override", map[string]any{"status": "refunded", "reason": "event moved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "refunded", decode[dto.OrderResponse](t, w).PaymentStatus)

	w = a.do(http.MethodPost, "/v1/orders/"+o.ID+"/reconcile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "refunded", decode[dto.OrderResponse](t, w).PaymentStatus)

	w = a.do(http.MethodDelete, "/v1/orders/"+o.ID+"/payment-override", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", decode[dto.OrderResponse](t, w).PaymentStatus)
}

func TestDeleteOrderOverHTTP(t *testing.T) {
	a := newAPI(t)
	paid := a.order("100", 1)
	a.do(http.MethodPost, "/v1/orders/"+paid.ID+"/payments", map[string]any{"amount": "10", "method": "cash"})
	assert.Equal(t, http.StatusConflict, a.do(http.MethodDelete, "/v1/orders/"+paid.ID, nil).Code)

	unpaid := a.order("100", 1)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/v1/orders/"+unpaid.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/v1/orders/"+unpaid.ID, nil).Code)
}

func TestCustomersAndListing(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodPost, "/v1/customers", map[string]any{"name": "Lakshmi", "phone": "9000012345", "email": "lakshmi@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	c := decode[dto.CustomerResponse](t, w)

	w = a.do(http.MethodPost, "/v1/customers", map[string]any{"name": "X", "phone": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/v1/customers?q=laks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[dto.CustomerListResponse](t, w).Total)

	w = a.do(http.MethodGet, "/v1/customers/"+c.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	a.order("50", 2)
	w = a.do(http.MethodGet, "/v1/orders?payment_status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode[dto.OrderListResponse](t, w)
	assert.EqualValues(t, 1, orders.Total)
	assert.Equal(t, 50, orders.Limit)

	w = a.do(http.MethodGet, "/v1/orders?payment_status=settled", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
