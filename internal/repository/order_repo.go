package repository

import (
	"context"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository persists orders and their item snapshots.
// Methods taking a tx run on it when non-nil, otherwise on the base DB.
type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// FindByIDForUpdate loads the order with SELECT ... FOR UPDATE. Every
	// ledger append and reconcile of the same order serializes on this lock.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	// Update writes the editable fields and the total. It never writes the
	// derived financial columns; replaceItems swaps the item snapshot.
	Update(ctx context.Context, tx *gorm.DB, o *model.Order, replaceItems bool) error
	UpdateFinancials(ctx context.Context, tx *gorm.DB, id uuid.UUID, f model.Financials) error
	UpdatePaymentStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status model.PaymentStatus) error
	// Delete removes the order together with its payments and items.
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	// ListReclassifyCandidates returns orders whose event date passed while
	// they were still pending or partial, oldest event first.
	ListReclassifyCandidates(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	return r.conn(tx).WithContext(ctx).Omit("Customer", "Payments").Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Items").Preload("Customer").First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.conn(tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").Preload("Customer").
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) Update(ctx context.Context, tx *gorm.DB, o *model.Order, replaceItems bool) error {
	db := r.conn(tx).WithContext(ctx)
	err := db.Model(&model.Order{}).Where("id = ?", o.ID).Updates(map[string]any{
		"customer_id": o.CustomerID,
		"event_date":  o.EventDate,
		"guest_count": o.GuestCount,
		"venue":       o.Venue,
		"notes":       o.Notes,
		"status":      o.Status,
		"total":       o.Total,
		"updated_at":  time.Now(),
	}).Error
	if err != nil || !replaceItems {
		return err
	}
	if err := db.Where("order_id = ?", o.ID).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	if len(o.Items) == 0 {
		return nil
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	return db.Create(&o.Items).Error
}

func (r *orderRepo) UpdateFinancials(ctx context.Context, tx *gorm.DB, id uuid.UUID, f model.Financials) error {
	return r.conn(tx).WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(map[string]any{
		"amount_paid":    f.AmountPaid,
		"amount_due":     f.AmountDue,
		"payment_status": f.PaymentStatus,
		"updated_at":     time.Now(),
	}).Error
}

func (r *orderRepo) UpdatePaymentStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status model.PaymentStatus) error {
	return r.conn(tx).WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(map[string]any{
		"payment_status": status,
		"updated_at":     time.Now(),
	}).Error
}

func (r *orderRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := r.conn(tx).WithContext(ctx)
	// FK cascades cover this too; explicit deletes keep it working on
	// schemas created before the constraint existed.
	if err := db.Where("order_id = ?", id).Delete(&model.PaymentRecord{}).Error; err != nil {
		return err
	}
	if err := db.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Order{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").Preload("Customer").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepo) ListReclassifyCandidates(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("event_date IS NOT NULL AND event_date < ?", now).
		Where("payment_status IN ?", []model.PaymentStatus{model.PaymentPending, model.PaymentPartial}).
		Order("event_date ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}
