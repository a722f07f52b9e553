package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/model"
	"github.com/Karthikx21/Alagarcater-sub000/internal/repository"

	"github.com/google/uuid"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*model.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, filter dto.CustomerFilter) ([]model.Customer, int64, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*model.Customer, error)
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*model.Customer, error) {
	c := &model.Customer{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Email:   lowerPtr(trimPtr(req.Email)),
		Address: trimPtr(req.Address),
	}
	if c.Name == "" || c.Phone == "" {
		return nil, validationf("name and phone are required")
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	return c, nil
}

func (s *customerService) List(ctx context.Context, filter dto.CustomerFilter) ([]model.Customer, int64, error) {
	filter.Q = strings.TrimSpace(filter.Q)
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return list, total, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*model.Customer, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if c.Name = strings.TrimSpace(*req.Name); c.Name == "" {
			return nil, validationf("name cannot be empty")
		}
	}
	if req.Phone != nil {
		if c.Phone = strings.TrimSpace(*req.Phone); c.Phone == "" {
			return nil, validationf("phone cannot be empty")
		}
	}
	if req.Email != nil {
		c.Email = lowerPtr(trimPtr(req.Email))
	}
	if req.Address != nil {
		c.Address = trimPtr(req.Address)
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update customer %s: %w", id, err)
	}
	return c, nil
}

func lowerPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(*s)
	return &v
}
