package handler

import (
	"net/http"

	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct {
	svc        service.OrderService
	financials service.FinancialService
}

func NewOrdersHandler(svc service.OrderService, financials service.FinancialService) *OrdersHandler {
	return &OrdersHandler{svc: svc, financials: financials}
}

func (h *OrdersHandler) respond(c *gin.Context, status int, o *model.Order) {
	c.JSON(status, dto.NewOrderResponse(o, h.svc.Editable(o)))
}

// Create godoc
// @Summary Creates an order priced from the menu
// @Tags orders
// @Accept json
// @Produce json
// @Param body body dto.CreateOrderRequest true "Order"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	o, err := h.svc.CreateOrder(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, o)
}

// Get godoc
// @Summary Returns an order with freshly reconciled totals
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/orders/{id} [get]
func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(c, http.StatusOK, o)
}

// List godoc
// @Summary Lists orders
// @Tags orders
// @Produce json
// @Param status query string false "Fulfillment status"
// @Param payment_status query string false "Payment status"
// @Param customer_id query string false "Customer ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.OrderListResponse
// @Router /v1/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if !bindQuery(c, &filter) {
		return
	}
	orders, total, err := h.svc.ListOrders(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := dto.OrderListResponse{
		Data:  make([]dto.OrderResponse, 0, len(orders)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range orders {
		resp.Data = append(resp.Data, dto.NewOrderResponse(&orders[i], h.svc.Editable(&orders[i])))
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Edits an order while it is still editable
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body dto.UpdateOrderRequest true "Changes"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/{id} [put]
func (h *OrdersHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	o, err := h.svc.UpdateOrder(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(c, http.StatusOK, o)
}

// Delete godoc
// @Summary Deletes an order and, depending on policy, its payments
// @Tags orders
// @Param id path string true "Order ID"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/{id} [delete]
func (h *OrdersHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Editable godoc
// @Summary Reports whether the order can still be edited
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.EditableResponse
// @Router /v1/orders/{id}/editable [get]
func (h *OrdersHandler) Editable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EditableResponse{OrderID: o.ID.String(), Editable: h.svc.Editable(o)})
}

// UpdateStatus godoc
// @Summary Moves the fulfillment status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body dto.UpdateStatusRequest true "Status"
// @Success 200 {object} dto.OrderResponse
// @Router /v1/orders/{id}/status [patch]
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	o, err := h.svc.UpdateStatus(c.Request.Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(c, http.StatusOK, o)
}

// SetPaymentOverride godoc
// @Summary Marks the order payment as cancelled or refunded
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body dto.PaymentOverrideRequest true "Override"
// @Success 200 {object} dto.OrderResponse
// @Router /v1/orders/{id}/payment-override [post]
func (h *OrdersHandler) SetPaymentOverride(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PaymentOverrideRequest
	if !bindAndValidate(c, &req) {
		return
	}
	o, err := h.svc.SetPaymentOverride(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(c, http.StatusOK, o)
}

// ClearPaymentOverride godoc
// @Summary Returns payment status to ledger-derived classification
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Router /v1/orders/{id}/payment-override [delete]
func (h *OrdersHandler) ClearPaymentOverride(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.svc.ClearPaymentOverride(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(c, http.StatusOK, o)
}

// Reconcile godoc
// @Summary Recomputes amount paid, amount due and payment status
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Router /v1/orders/{id}/reconcile [post]
func (h *OrdersHandler) Reconcile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.financials.Reconcile(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(c, http.StatusOK, o)
}
