package suppliers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	suppliers map[string]Supplier

	listError   error
	createError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{suppliers: make(map[string]Supplier)}
}

func (m *mockRepository) List(ctx context.Context, ownerID string, filters ListFilters) ([]Supplier, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var out []Supplier
	for _, s := range m.suppliers {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, ownerID, id string) (Supplier, error) {
	s, ok := m.suppliers[id]
	if !ok || s.OwnerID != ownerID {
		return Supplier{}, ErrNotFound
	}
	return s, nil
}

func (m *mockRepository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	if m.createError != nil {
		return Supplier{}, m.createError
	}
	supplier.ID = uuid.NewString()
	supplier.CreatedAt = time.Now().UTC()
	m.suppliers[supplier.ID] = supplier
	return supplier, nil
}

func (m *mockRepository) Update(ctx context.Context, supplier Supplier) (bool, error) {
	existing, ok := m.suppliers[supplier.ID]
	if !ok || existing.OwnerID != supplier.OwnerID {
		return false, nil
	}
	supplier.CreatedAt = existing.CreatedAt
	m.suppliers[supplier.ID] = supplier
	return true, nil
}

func (m *mockRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	s, ok := m.suppliers[id]
	if !ok || s.OwnerID != ownerID {
		return false, nil
	}
	delete(m.suppliers, id)
	return true, nil
}

func TestCreateSupplierRequiresName(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), Supplier{OwnerID: "owner-1", Name: "   "})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCreateSupplierRejectsRatingOutOfRange(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), Supplier{OwnerID: "owner-1", Name: "Mehta Textiles", Rating: 6})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCreateAndGetSupplier(t *testing.T) {
	svc := NewService(newMockRepository())

	created, err := svc.Create(context.Background(), Supplier{
		OwnerID:       "owner-1",
		Name:          "Mehta Textiles",
		ContactPerson: "Ravi Mehta",
		Rating:        4,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.Get(context.Background(), "owner-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mehta Textiles", got.Name)
	assert.Equal(t, 4, got.Rating)
}

func TestGetSupplierScopedToOwner(t *testing.T) {
	svc := NewService(newMockRepository())

	created, err := svc.Create(context.Background(), Supplier{OwnerID: "owner-1", Name: "Mehta Textiles"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "owner-2", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMissingSupplier(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Update(context.Background(), Supplier{
		ID:      uuid.NewString(),
		OwnerID: "owner-1",
		Name:    "Mehta Textiles",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSupplier(t *testing.T) {
	svc := NewService(newMockRepository())

	created, err := svc.Create(context.Background(), Supplier{OwnerID: "owner-1", Name: "Mehta Textiles"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "owner-1", created.ID))
	err = svc.Delete(context.Background(), "owner-1", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSurfacesRepositoryError(t *testing.T) {
	repo := newMockRepository()
	repo.listError = errors.New("connection refused")
	svc := NewService(repo)

	_, err := svc.List(context.Background(), "owner-1", ListFilters{})
	assert.Error(t, err)
}
