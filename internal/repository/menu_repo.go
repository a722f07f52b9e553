package repository

import (
	"context"

	"github.com/Karthikx21/Alagarcater-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuItemRepository interface {
	Create(ctx context.Context, m *model.MenuItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.MenuItem, error)
	List(ctx context.Context, includeInactive bool) ([]model.MenuItem, error)
	Update(ctx context.Context, m *model.MenuItem) error
}

type menuItemRepo struct{ db *gorm.DB }

func NewMenuItemRepository(db *gorm.DB) MenuItemRepository { return &menuItemRepo{db: db} }

func (r *menuItemRepo) Create(ctx context.Context, m *model.MenuItem) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *menuItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	var m model.MenuItem
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *menuItemRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *menuItemRepo) List(ctx context.Context, includeInactive bool) ([]model.MenuItem, error) {
	var items []model.MenuItem
	q := r.db.WithContext(ctx).Model(&model.MenuItem{})
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	err := q.Order("category ASC, name ASC").Find(&items).Error
	return items, err
}

// Update uses Select("*") so that Active=false is written (GORM skips zero
// values otherwise).
func (r *menuItemRepo) Update(ctx context.Context, m *model.MenuItem) error {
	return r.db.WithContext(ctx).Model(m).Select("*").Omit("created_at").Updates(m).Error
}
