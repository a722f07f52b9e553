package dto

import (
	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/money"
)

type CreateMenuItemRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=120"`
	Category string `json:"category" validate:"omitempty,max=50"`
	Price    string `json:"price"    validate:"required"`
	Unit     string `json:"unit"     validate:"omitempty,oneof=plate kg piece service"`
}

type UpdateMenuItemRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=2,max=120"`
	Category *string `json:"category" validate:"omitempty,max=50"`
	Price    *string `json:"price"`
	Unit     *string `json:"unit"     validate:"omitempty,oneof=plate kg piece service"`
	Active   *bool   `json:"active"`
}

type MenuItemResponse struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Price    money.Money `json:"price"`
	Unit     string      `json:"unit"`
	Active   bool        `json:"active"`
}

func NewMenuItemResponse(m *model.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:       m.ID.String(),
		Name:     m.Name,
		Category: m.Category,
		Price:    m.Price,
		Unit:     m.Unit,
		Active:   m.Active,
	}
}
