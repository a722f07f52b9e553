package handler

import (
	"net/http"
	"strings"

	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/money"
	"github.com/Karthikx21/Alagarcater-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader may carry the key instead of the request body.
const IdempotencyKeyHeader = "Idempotency-Key"

type PaymentsHandler struct {
	svc    service.PaymentService
	orders service.OrderService
}

func NewPaymentsHandler(svc service.PaymentService, orders service.OrderService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc, orders: orders}
}

// Submit godoc
// @Summary Records a payment and returns the reconciled order
// @Description A repeated Idempotency-Key with the same amount and method
// @Description returns the original payment with replayed=true.
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param Idempotency-Key header string false "Client retry key"
// @Param body body dto.AppendPaymentRequest true "Payment"
// @Success 201 {object} dto.SubmitPaymentResponse
// @Success 200 {object} dto.SubmitPaymentResponse "replay"
// @Failure 400 {object} apierror.ValidationError
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/{id}/payments [post]
func (h *PaymentsHandler) Submit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AppendPaymentRequest
	// Set before binding so a key in the body wins over the header.
	if key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)); key != "" {
		req.IdempotencyKey = &key
	}
	if !bindAndValidate(c, &req) {
		return
	}

	out, err := h.svc.SubmitPayment(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusCreated
	if out.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, dto.SubmitPaymentResponse{
		Payment:  dto.NewPaymentResponse(out.Payment),
		Order:    dto.NewOrderResponse(out.Order, h.orders.Editable(out.Order)),
		Replayed: out.Replayed,
	})
}

// List godoc
// @Summary Lists the payments of an order, most recent first
// @Tags payments
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.PaymentListResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/orders/{id}/payments [get]
func (h *PaymentsHandler) List(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	seq, err := h.svc.ListPayments(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := dto.PaymentListResponse{OrderID: id.String(), Data: []dto.PaymentResponse{}, TotalPaid: money.Zero}
	for p, err := range seq {
		if err != nil {
			writeError(c, err)
			return
		}
		resp.Data = append(resp.Data, dto.NewPaymentResponse(&p))
		resp.TotalPaid = resp.TotalPaid.Add(p.Amount)
	}
	c.JSON(http.StatusOK, resp)
}
