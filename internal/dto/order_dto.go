package dto

import (
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/money"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

// OrderFilter is bound from the query string of GET /v1/orders.
type OrderFilter struct {
	Status        string `form:"status"         validate:"omitempty,oneof=new confirmed in_preparation ready delivered cancelled"`
	PaymentStatus string `form:"payment_status" validate:"omitempty,oneof=pending partial paid overdue refunded cancelled"`
	CustomerID    string `form:"customer_id"    validate:"omitempty,uuid"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity"     validate:"required,min=1"`
}

type CreateOrderRequest struct {
	CustomerID *string            `json:"customer_id" validate:"omitempty,uuid"`
	EventDate  *time.Time         `json:"event_date"`
	GuestCount int                `json:"guest_count" validate:"min=0"`
	Venue      *string            `json:"venue"       validate:"omitempty,max=255"`
	Notes      *string            `json:"notes"       validate:"omitempty,max=2000"`
	Items      []OrderItemRequest `json:"items"       validate:"required,min=1,dive"`
}

// UpdateOrderRequest is a partial update: nil fields are left untouched.
// A non-nil Items replaces the whole item list and re-prices the order.
type UpdateOrderRequest struct {
	CustomerID *string            `json:"customer_id" validate:"omitempty,uuid"`
	EventDate  *time.Time         `json:"event_date"`
	GuestCount *int               `json:"guest_count" validate:"omitempty,min=0"`
	Venue      *string            `json:"venue"       validate:"omitempty,max=255"`
	Notes      *string            `json:"notes"       validate:"omitempty,max=2000"`
	Items      []OrderItemRequest `json:"items"       validate:"omitempty,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new confirmed in_preparation ready delivered cancelled"`
}

type PaymentOverrideRequest struct {
	Status string  `json:"status" validate:"required,oneof=cancelled refunded"`
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ID         string      `json:"id"`
	MenuItemID *string     `json:"menu_item_id"`
	Name       string      `json:"name"`
	UnitPrice  money.Money `json:"unit_price"`
	Quantity   int         `json:"quantity"`
	Subtotal   money.Money `json:"subtotal"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	CustomerID    *string             `json:"customer_id"`
	Customer      *CustomerResponse   `json:"customer,omitempty"`
	EventDate     *string             `json:"event_date"`
	GuestCount    int                 `json:"guest_count"`
	Venue         *string             `json:"venue"`
	Notes         *string             `json:"notes"`
	Status        string              `json:"status"`
	Total         money.Money         `json:"total"`
	AmountPaid    money.Money         `json:"amount_paid"`
	AmountDue     money.Money         `json:"amount_due"`
	PaymentStatus string              `json:"payment_status"`
	Editable      bool                `json:"editable"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     string              `json:"created_at"`
	UpdatedAt     string              `json:"updated_at"`
}

type EditableResponse struct {
	OrderID  string `json:"order_id"`
	Editable bool   `json:"editable"`
}

// NewOrderResponse converts an order; editable is the mutation gate result
// computed by the caller.
func NewOrderResponse(o *model.Order, editable bool) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID.String(),
		GuestCount:    o.GuestCount,
		Venue:         o.Venue,
		Notes:         o.Notes,
		Status:        string(o.Status),
		Total:         o.Total,
		AmountPaid:    o.AmountPaid,
		AmountDue:     o.AmountDue,
		PaymentStatus: string(o.PaymentStatus),
		Editable:      editable,
		Items:         make([]OrderItemResponse, 0, len(o.Items)),
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     o.UpdatedAt.Format(time.RFC3339),
	}
	if o.CustomerID != nil {
		id := o.CustomerID.String()
		resp.CustomerID = &id
	}
	if o.Customer != nil {
		c := NewCustomerResponse(o.Customer)
		resp.Customer = &c
	}
	if o.EventDate != nil {
		d := o.EventDate.Format(time.RFC3339)
		resp.EventDate = &d
	}
	for _, it := range o.Items {
		item := OrderItemResponse{
			ID:        it.ID.String(),
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		}
		if it.MenuItemID != nil {
			mid := it.MenuItemID.String()
			item.MenuItemID = &mid
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}
