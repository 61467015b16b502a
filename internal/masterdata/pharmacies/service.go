package pharmacies

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

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Pharmacy, int, error) {
	if filters.PharmacyType != "" && !ValidType(filters.PharmacyType) {
		return nil, 0, fmt.Errorf("%w: unknown pharmacy_type %q", shared.ErrValidation, filters.PharmacyType)
	}
	if filters.Lifecycle != "" && filters.Lifecycle != LifecycleActive && filters.Lifecycle != LifecycleArchived {
		return nil, 0, fmt.Errorf("%w: unknown lifecycle %q", shared.ErrValidation, filters.Lifecycle)
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Pharmacy, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, pharmacy Pharmacy) (Pharmacy, error) {
	if pharmacy.PharmacyType == "" {
		pharmacy.PharmacyType = TypeIndependent
	}
	if !ValidType(pharmacy.PharmacyType) {
		return Pharmacy{}, fmt.Errorf("%w: unknown pharmacy_type %q", shared.ErrValidation, pharmacy.PharmacyType)
	}
	pharmacy.Lifecycle = LifecycleActive
	return s.repo.Create(ctx, pharmacy)
}

func (s *Service) Update(ctx context.Context, id int64, pharmacy Pharmacy) (Pharmacy, error) {
	if !ValidType(pharmacy.PharmacyType) {
		return Pharmacy{}, fmt.Errorf("%w: unknown pharmacy_type %q", shared.ErrValidation, pharmacy.PharmacyType)
	}
	if err := s.repo.Update(ctx, id, pharmacy); err != nil {
		return Pharmacy{}, err
	}
	return s.repo.Get(ctx, id)
}

// Archive soft-deletes a pharmacy so historical sales keep their reference.
func (s *Service) Archive(ctx context.Context, id int64) error {
	return s.repo.SetLifecycle(ctx, id, LifecycleArchived)
}

// Restore reactivates an archived pharmacy.
func (s *Service) Restore(ctx context.Context, id int64) error {
	return s.repo.SetLifecycle(ctx, id, LifecycleActive)
}
