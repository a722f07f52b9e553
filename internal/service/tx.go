package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/apierror"
	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Clock returns the current time. Services take one so tests can move time
// across an event date.
type Clock func() time.Time

func (c Clock) orDefault() Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// JobDispatcher enqueues background work. A nil dispatcher disables it.
type JobDispatcher interface {
	EnqueueReconcile(ctx context.Context, job dto.ReconcileJob) error
	EnqueuePaymentReceipt(ctx context.Context, job dto.PaymentReceiptJob) error
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (in-memory repositories).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// notFound turns gorm.ErrRecordNotFound into apierror.ErrNotFound and passes
// every other error through.
func notFound(err error, what string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", apierror.ErrNotFound, what, id)
	}
	return err
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{apierror.ErrValidation}, args...)...)
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{apierror.ErrConflict}, args...)...)
}
