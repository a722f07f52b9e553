package repository

import (
	"context"
	"iter"

	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRepository is the append-only payment ledger. It has no Update
// method; records leave the table only when their order is deleted.
type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.PaymentRecord) error
	FindByIdempotencyKey(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, key string) (*model.PaymentRecord, error)
	// Stream yields the order's payments, most recent payment_date first.
	// Each range over the sequence runs a fresh query.
	Stream(ctx context.Context, orderID uuid.UUID) iter.Seq2[model.PaymentRecord, error]
	// SumByOrder always recomputes SUM(amount); there is no cached balance.
	SumByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (money.Money, error)
	CountByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int64, error)
}

type paymentRepo struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) PaymentRepository { return &paymentRepo{db: db} }

func (r *paymentRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *paymentRepo) Create(ctx context.Context, tx *gorm.DB, p *model.PaymentRecord) error {
	return r.conn(tx).WithContext(ctx).Create(p).Error
}

func (r *paymentRepo) FindByIdempotencyKey(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, key string) (*model.PaymentRecord, error) {
	var p model.PaymentRecord
	err := r.conn(tx).WithContext(ctx).
		Where("order_id = ? AND idempotency_key = ?", orderID, key).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) Stream(ctx context.Context, orderID uuid.UUID) iter.Seq2[model.PaymentRecord, error] {
	return func(yield func(model.PaymentRecord, error) bool) {
		rows, err := r.db.WithContext(ctx).Model(&model.PaymentRecord{}).
			Where("order_id = ?", orderID).
			Order("payment_date DESC, created_at DESC").
			Rows()
		if err != nil {
			yield(model.PaymentRecord{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var p model.PaymentRecord
			if err := r.db.ScanRows(rows, &p); err != nil {
				yield(model.PaymentRecord{}, err)
				return
			}
			if !yield(p, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(model.PaymentRecord{}, err)
		}
	}
}

func (r *paymentRepo) SumByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (money.Money, error) {
	var sum decimal.Decimal
	row := r.conn(tx).WithContext(ctx).Model(&model.PaymentRecord{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("order_id = ?", orderID).
		Row()
	if err := row.Scan(&sum); err != nil {
		return money.Zero, err
	}
	return money.FromDecimal(sum), nil
}

func (r *paymentRepo) CountByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int64, error) {
	var n int64
	err := r.conn(tx).WithContext(ctx).Model(&model.PaymentRecord{}).Where("order_id = ?", orderID).Count(&n).Error
	return n, err
}
