package service

import (
	"fmt"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/apierror"
	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
)

// CanEdit reports whether items, guest count, event date, customer fields
// and fulfillment status of the order may still change.
func CanEdit(o *model.Order, now time.Time) bool {
	return editBlockReason(o, now) == ""
}

// EnsureEditable is CanEdit as an error for service methods.
func EnsureEditable(o *model.Order, now time.Time) error {
	if reason := editBlockReason(o, now); reason != "" {
		return fmt.Errorf("%w: order %s can no longer be edited: %s", apierror.ErrConflict, o.ID, reason)
	}
	return nil
}

func editBlockReason(o *model.Order, now time.Time) string {
	switch o.Status {
	case model.OrderCancelled:
		return "order is cancelled"
	case model.OrderDelivered:
		return "order is delivered"
	}
	if o.EventDate != nil && o.EventDate.Before(now) {
		return "event date has passed"
	}
	return ""
}
