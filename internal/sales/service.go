package sales

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pharmapulse/pharmapulse/internal/shared"
)

// AnalyticsInvalidator clears derived analytics caches after a sale
// mutation. A nil invalidator disables invalidation.
type AnalyticsInvalidator interface {
	Bump(ctx context.Context) error
}

// Service provides business logic for sale transactions.
type Service struct {
	repo       Repository
	invalidate AnalyticsInvalidator
}

func NewService(repo Repository, invalidate AnalyticsInvalidator) *Service {
	return &Service{repo: repo, invalidate: invalidate}
}

func (s *Service) bump(ctx context.Context) {
	if s.invalidate == nil {
		return
	}
	// Best effort: stale analytics expire via TTL anyway.
	_ = s.invalidate.Bump(ctx)
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Sale, int, error) {
	if !filters.From.IsZero() && !filters.To.IsZero() && filters.From.After(filters.To) {
		return nil, 0, fmt.Errorf("%w: from must not be after to", shared.ErrValidation)
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Sale, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateSaleRequest, createdBy int64) (Sale, error) {
	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return Sale{}, fmt.Errorf("%w: unit_price must be a decimal number", shared.ErrValidation)
	}
	discount, err := optionalDecimal(req.DiscountAmount)
	if err != nil {
		return Sale{}, fmt.Errorf("%w: discount_amount must be a decimal number", shared.ErrValidation)
	}
	tax, err := optionalDecimal(req.TaxAmount)
	if err != nil {
		return Sale{}, fmt.Errorf("%w: tax_amount must be a decimal number", shared.ErrValidation)
	}
	if unitPrice.IsNegative() || discount.IsNegative() || tax.IsNegative() {
		return Sale{}, fmt.Errorf("%w: amounts must not be negative", shared.ErrValidation)
	}

	sale := Sale{
		ProductID:      req.ProductID,
		PharmacyID:     req.PharmacyID,
		Quantity:       req.Quantity,
		UnitPrice:      unitPrice,
		DiscountAmount: discount,
		TaxAmount:      tax,
		OccurredAt:     req.OccurredAt,
		Lifecycle:      LifecycleActive,
		CreatedBy:      createdBy,
	}
	sale.Recalculate()
	created, err := s.repo.Create(ctx, sale)
	if err != nil {
		return Sale{}, err
	}
	s.bump(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateSaleRequest) (Sale, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Sale{}, err
	}
	if existing.Lifecycle != LifecycleActive {
		return Sale{}, fmt.Errorf("%w: archived sales are immutable", shared.ErrValidation)
	}

	merged, err := merge(existing, req)
	if err != nil {
		return Sale{}, fmt.Errorf("%w: amounts must be decimal numbers", shared.ErrValidation)
	}
	if merged.UnitPrice.IsNegative() || merged.DiscountAmount.IsNegative() || merged.TaxAmount.IsNegative() {
		return Sale{}, fmt.Errorf("%w: amounts must not be negative", shared.ErrValidation)
	}
	if err := s.repo.Update(ctx, merged); err != nil {
		return Sale{}, err
	}
	s.bump(ctx)
	return merged, nil
}

// Archive soft-deletes a sale, removing it from analytics and reports.
func (s *Service) Archive(ctx context.Context, id int64) error {
	if err := s.repo.SetLifecycle(ctx, id, LifecycleArchived); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// Restore brings an archived sale back into circulation.
func (s *Service) Restore(ctx context.Context, id int64) error {
	if err := s.repo.SetLifecycle(ctx, id, LifecycleActive); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

func optionalDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
