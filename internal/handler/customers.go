package handler

import (
	"net/http"

	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// Create godoc
// @Summary Registers a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param body body dto.CreateCustomerRequest true "Customer"
// @Success 201 {object} dto.CustomerResponse
// @Router /v1/customers [post]
func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cust, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCustomerResponse(cust))
}

// Get godoc
// @Summary Returns a customer
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Router /v1/customers/{id} [get]
func (h *CustomersHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cust, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCustomerResponse(cust))
}

// List godoc
// @Summary Searches customers by name or phone
// @Tags customers
// @Produce json
// @Param q query string false "Search"
// @Success 200 {object} dto.CustomerListResponse
// @Router /v1/customers [get]
func (h *CustomersHandler) List(c *gin.Context) {
	var filter dto.CustomerFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := dto.CustomerListResponse{
		Data:  make([]dto.CustomerResponse, 0, len(list)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range list {
		resp.Data = append(resp.Data, dto.NewCustomerResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Updates customer details
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param body body dto.UpdateCustomerRequest true "Changes"
// @Success 200 {object} dto.CustomerResponse
// @Router /v1/customers/{id} [put]
func (h *CustomersHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cust, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCustomerResponse(cust))
}
