package products

import (
	"context"
	"fmt"

	"github.com/pharmapulse/pharmapulse/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	if filters.Lifecycle != "" && filters.Lifecycle != LifecycleActive && filters.Lifecycle != LifecycleArchived {
		return nil, 0, fmt.Errorf("%w: unknown lifecycle %q", shared.ErrValidation, filters.Lifecycle)
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if product.UnitPrice.IsNegative() {
		return Product{}, fmt.Errorf("%w: unit_price must not be negative", shared.ErrValidation)
	}
	product.Lifecycle = LifecycleActive
	return s.repo.Create(ctx, product)
}

func (s *Service) Update(ctx context.Context, id int64, product Product) (Product, error) {
	if product.UnitPrice.IsNegative() {
		return Product{}, fmt.Errorf("%w: unit_price must not be negative", shared.ErrValidation)
	}
	if err := s.repo.Update(ctx, id, product); err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

// Archive soft-deletes a product so historical sales keep their reference.
func (s *Service) Archive(ctx context.Context, id int64) error {
	return s.repo.SetLifecycle(ctx, id, LifecycleArchived)
}

// Restore reactivates an archived product.
func (s *Service) Restore(ctx context.Context, id int64) error {
	return s.repo.SetLifecycle(ctx, id, LifecycleActive)
}
