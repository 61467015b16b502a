package products

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmapulse/pharmapulse/internal/shared"
)

type mockRepository struct {
	products map[int64]*Product
	nextID   int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{products: make(map[int64]*Product), nextID: 1}
}

func (m *mockRepository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	result := []Product{}
	for _, p := range m.products {
		if filters.Lifecycle != "" && p.Lifecycle != filters.Lifecycle {
			continue
		}
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		result = append(result, *p)
	}
	return result, len(result), nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Product, error) {
	p, ok := m.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return *p, nil
}

func (m *mockRepository) Create(ctx context.Context, product Product) (Product, error) {
	product.ID = m.nextID
	m.nextID++
	m.products[product.ID] = &product
	return product, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, product Product) error {
	existing, ok := m.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	product.ID = id
	product.Lifecycle = existing.Lifecycle
	m.products[id] = &product
	return nil
}

func (m *mockRepository) SetLifecycle(ctx context.Context, id int64, lifecycle string) error {
	p, ok := m.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Lifecycle = lifecycle
	return nil
}

func sampleProduct() Product {
	return Product{
		Code:      "AMX-500",
		Name:      "Amoxicillin 500mg",
		Category:  "antibiotic",
		UnitPrice: decimal.RequireFromString("12.50"),
	}
}

func TestCreateForcesActiveLifecycle(t *testing.T) {
	svc := NewService(newMockRepository())

	p := sampleProduct()
	p.Lifecycle = LifecycleArchived
	created, err := svc.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, LifecycleActive, created.Lifecycle)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc := NewService(newMockRepository())

	p := sampleProduct()
	p.UnitPrice = decimal.RequireFromString("-1")
	_, err := svc.Create(context.Background(), p)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestArchiveKeepsProductOnRecord(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleProduct())
	require.NoError(t, err)

	require.NoError(t, svc.Archive(ctx, created.ID))
	archived, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, LifecycleArchived, archived.Lifecycle)

	active, _, err := svc.List(ctx, ListFilters{Lifecycle: LifecycleActive})
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, svc.Restore(ctx, created.ID))
	restored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, LifecycleActive, restored.Lifecycle)
}

func TestListRejectsUnknownLifecycle(t *testing.T) {
	svc := NewService(newMockRepository())

	_, _, err := svc.List(context.Background(), ListFilters{Lifecycle: "deleted"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateReturnsFreshRecord(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleProduct())
	require.NoError(t, err)

	changed := created
	changed.UnitPrice = decimal.RequireFromString("13.75")
	updated, err := svc.Update(ctx, created.ID, changed)
	require.NoError(t, err)
	assert.True(t, updated.UnitPrice.Equal(decimal.RequireFromString("13.75")))

	_, err = svc.Update(ctx, 404, changed)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
