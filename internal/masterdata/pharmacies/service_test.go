package pharmacies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmapulse/pharmapulse/internal/shared"
)

type mockRepository struct {
	pharmacies map[int64]*Pharmacy
	nextID     int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{pharmacies: make(map[int64]*Pharmacy), nextID: 1}
}

func (m *mockRepository) List(ctx context.Context, filters ListFilters) ([]Pharmacy, int, error) {
	result := []Pharmacy{}
	for _, p := range m.pharmacies {
		if filters.Lifecycle != "" && p.Lifecycle != filters.Lifecycle {
			continue
		}
		if filters.PharmacyType != "" && p.PharmacyType != filters.PharmacyType {
			continue
		}
		result = append(result, *p)
	}
	return result, len(result), nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Pharmacy, error) {
	p, ok := m.pharmacies[id]
	if !ok {
		return Pharmacy{}, shared.ErrNotFound
	}
	return *p, nil
}

func (m *mockRepository) Create(ctx context.Context, pharmacy Pharmacy) (Pharmacy, error) {
	pharmacy.ID = m.nextID
	m.nextID++
	m.pharmacies[pharmacy.ID] = &pharmacy
	return pharmacy, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, pharmacy Pharmacy) error {
	existing, ok := m.pharmacies[id]
	if !ok {
		return shared.ErrNotFound
	}
	pharmacy.ID = id
	pharmacy.Lifecycle = existing.Lifecycle
	m.pharmacies[id] = &pharmacy
	return nil
}

func (m *mockRepository) SetLifecycle(ctx context.Context, id int64, lifecycle string) error {
	p, ok := m.pharmacies[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Lifecycle = lifecycle
	return nil
}

func samplePharmacy() Pharmacy {
	return Pharmacy{
		Code:         "PH-001",
		Name:         "Central Drugstore",
		City:         "Austin",
		State:        "TX",
		PharmacyType: TypeChain,
		ChainName:    "MediMart",
	}
}

func TestCreateDefaultsTypeAndForcesActiveLifecycle(t *testing.T) {
	svc := NewService(newMockRepository())

	p := samplePharmacy()
	p.PharmacyType = ""
	p.Lifecycle = LifecycleArchived
	created, err := svc.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, TypeIndependent, created.PharmacyType)
	assert.Equal(t, LifecycleActive, created.Lifecycle)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := NewService(newMockRepository())

	p := samplePharmacy()
	p.PharmacyType = "franchise"
	_, err := svc.Create(context.Background(), p)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateValidatesTypeAndReturnsFreshRecord(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, samplePharmacy())
	require.NoError(t, err)

	changed := created
	changed.PharmacyType = "franchise"
	_, err = svc.Update(ctx, created.ID, changed)
	assert.ErrorIs(t, err, shared.ErrValidation)

	changed.PharmacyType = TypeHospital
	updated, err := svc.Update(ctx, created.ID, changed)
	require.NoError(t, err)
	assert.Equal(t, TypeHospital, updated.PharmacyType)

	_, err = svc.Update(ctx, 404, changed)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestArchiveKeepsPharmacyOnRecord(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, samplePharmacy())
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

func TestListRejectsUnknownFilters(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()

	_, _, err := svc.List(ctx, ListFilters{PharmacyType: "franchise"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, _, err = svc.List(ctx, ListFilters{Lifecycle: "deleted"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestLocationFormatting(t *testing.T) {
	assert.Equal(t, "Austin, TX", Pharmacy{City: "Austin", State: "TX"}.Location())
	assert.Equal(t, "Austin", Pharmacy{City: "Austin"}.Location())
	assert.Equal(t, "TX", Pharmacy{State: "TX"}.Location())
}
