package dto

import (
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
)

type CustomerFilter struct {
	Q     string `form:"q"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateCustomerRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=120"`
	Phone   string  `json:"phone"   validate:"required,min=7,max=20"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=2,max=120"`
	Phone   *string `json:"phone"   validate:"omitempty,min=7,max=20"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

type CustomerResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	CreatedAt string  `json:"created_at"`
}

type CustomerListResponse struct {
	Data  []CustomerResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

func NewCustomerResponse(c *model.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
