package handler

import (
	"net/http"

	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct{ svc service.MenuService }

func NewMenuHandler(svc service.MenuService) *MenuHandler { return &MenuHandler{svc: svc} }

// Create godoc
// @Summary Adds a menu item
// @Tags menu
// @Accept json
// @Produce json
// @Param body body dto.CreateMenuItemRequest true "Menu item"
// @Success 201 {object} dto.MenuItemResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/menu-items [post]
func (h *MenuHandler) Create(c *gin.Context) {
	var req dto.CreateMenuItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewMenuItemResponse(m))
}

// List godoc
// @Summary Lists menu items
// @Tags menu
// @Produce json
// @Param all query bool false "Include inactive items"
// @Success 200 {array} dto.MenuItemResponse
// @Router /v1/menu-items [get]
func (h *MenuHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("all") == "true")
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.MenuItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.NewMenuItemResponse(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Updates a menu item; existing orders keep their prices
// @Tags menu
// @Accept json
// @Produce json
// @Param id path string true "Menu item ID"
// @Param body body dto.UpdateMenuItemRequest true "Changes"
// @Success 200 {object} dto.MenuItemResponse
// @Router /v1/menu-items/{id} [put]
func (h *MenuHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateMenuItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMenuItemResponse(m))
}
