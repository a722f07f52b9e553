package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/money"
	"github.com/Karthikx21/Alagarcater-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuService interface {
	Create(ctx context.Context, req dto.CreateMenuItemRequest) (*model.MenuItem, error)
	List(ctx context.Context, includeInactive bool) ([]model.MenuItem, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateMenuItemRequest) (*model.MenuItem, error)
}

type menuService struct {
	repo repository.MenuItemRepository
}

func NewMenuService(repo repository.MenuItemRepository) MenuService {
	return &menuService{repo: repo}
}

func (s *menuService) Create(ctx context.Context, req dto.CreateMenuItemRequest) (*model.MenuItem, error) {
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}
	m := &model.MenuItem{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Category: defaultString(strings.TrimSpace(req.Category), "general"),
		Price:    price,
		Unit:     defaultString(req.Unit, "plate"),
		Active:   true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("a menu item named %q already exists", m.Name)
		}
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return m, nil
}

func (s *menuService) List(ctx context.Context, includeInactive bool) ([]model.MenuItem, error) {
	items, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

// Update never touches existing orders: order lines keep the name and price
// captured when they were priced.
func (s *menuService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateMenuItemRequest) (*model.MenuItem, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "menu item", id)
	}
	if req.Name != nil {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		m.Category = defaultString(strings.TrimSpace(*req.Category), "general")
	}
	if req.Price != nil {
		if m.Price, err = parsePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Unit != nil {
		m.Unit = defaultString(*req.Unit, "plate")
	}
	if req.Active != nil {
		m.Active = *req.Active
	}
	if err := s.repo.Update(ctx, m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("a menu item named %q already exists", m.Name)
		}
		return nil, fmt.Errorf("update menu item %s: %w", id, err)
	}
	return m, nil
}

func parsePrice(raw string) (money.Money, error) {
	p, err := money.Parse(strings.TrimSpace(raw))
	if err != nil {
		return money.Zero, validationf("price: %v", err)
	}
	if !p.IsPositive() {
		return money.Zero, validationf("price must be greater than zero")
	}
	return p, nil
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
