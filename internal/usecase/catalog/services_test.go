package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

type fakeRepo struct {
	services map[uint]*models.Service
	deleted  []uint
	nextID   uint
	saveErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: map[uint]*models.Service{
			10: {ID: 10, BarberID: 1, Name: "Cut", DurationMinutes: 30, Price: 500},
			20: {ID: 20, BarberID: 2, Name: "Shave", DurationMinutes: 20, Price: 300},
		},
		nextID: 20,
	}
}

func (r *fakeRepo) ListServices(_ context.Context, barberID uint) ([]models.Service, error) {
	var out []models.Service
	for _, s := range r.services {
		if s.BarberID == barberID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetService(_ context.Context, barberID, serviceID uint) (*models.Service, error) {
	s, ok := r.services[serviceID]
	if !ok || s.BarberID != barberID {
		return nil, httperr.NotFound("service_not_found")
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) CreateService(_ context.Context, s *models.Service) error {
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.services[s.ID] = &cp
	return nil
}

func (r *fakeRepo) SaveService(_ context.Context, s *models.Service) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *s
	r.services[s.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteService(_ context.Context, s *models.Service) error {
	delete(r.services, s.ID)
	r.deleted = append(r.deleted, s.ID)
	return nil
}

type recordingInvalidator struct {
	mu      sync.Mutex
	barbers []uint
}

func (c *recordingInvalidator) Invalidate(_ context.Context, barberID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.barbers = append(c.barbers, barberID)
}

func ptr[T any](v T) *T { return &v }

func TestUpdateServiceInvalidatesOnDurationChange(t *testing.T) {
	tests := []struct {
		name       string
		patch      ServicePatch
		invalidate bool
	}{
		{"new duration", ServicePatch{DurationMinutes: ptr(45)}, true},
		{"same duration", ServicePatch{DurationMinutes: ptr(30)}, false},
		{"price only", ServicePatch{Price: ptr(650.0)}, false},
		{"name only", ServicePatch{Name: ptr("Skin fade")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			cache := &recordingInvalidator{}

			svc, err := NewServices(repo, cache, nil).Update(context.Background(), 1, 10, tt.patch)
			require.NoError(t, err)
			assert.Equal(t, *svc, *repo.services[10])

			if tt.invalidate {
				assert.Equal(t, []uint{1}, cache.barbers)
			} else {
				assert.Empty(t, cache.barbers)
			}
		})
	}
}

func TestUpdateServiceValidation(t *testing.T) {
	tests := []struct {
		name  string
		patch ServicePatch
		code  string
	}{
		{"blank name", ServicePatch{Name: ptr("  ")}, "invalid_name"},
		{"negative price", ServicePatch{Price: ptr(-1.0)}, "invalid_price"},
		{"zero duration", ServicePatch{DurationMinutes: ptr(0)}, "invalid_duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			cache := &recordingInvalidator{}

			_, err := NewServices(repo, cache, nil).Update(context.Background(), 1, 10, tt.patch)
			assert.True(t, httperr.IsBusiness(err, tt.code))
			assert.Equal(t, 30, repo.services[10].DurationMinutes)
			assert.Empty(t, cache.barbers)
		})
	}
}

func TestUpdateServiceOfAnotherBarber(t *testing.T) {
	repo := newFakeRepo()
	cache := &recordingInvalidator{}

	_, err := NewServices(repo, cache, nil).Update(context.Background(), 1, 20, ServicePatch{DurationMinutes: ptr(60)})
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))
	assert.Equal(t, 20, repo.services[20].DurationMinutes)
	assert.Empty(t, cache.barbers)
}

func TestUpdateServiceStorageFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.saveErr = errors.New("connection reset")
	cache := &recordingInvalidator{}

	_, err := NewServices(repo, cache, nil).Update(context.Background(), 1, 10, ServicePatch{DurationMinutes: ptr(60)})
	assert.True(t, httperr.IsKind(err, httperr.KindUpstreamUnavailable))
	assert.Empty(t, cache.barbers)
}

func TestDeleteServiceInvalidates(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	cache := &recordingInvalidator{}
	uc := NewServices(repo, cache, nil)

	require.NoError(t, uc.Delete(ctx, 1, 10))
	assert.Equal(t, []uint{10}, repo.deleted)
	assert.Equal(t, []uint{1}, cache.barbers)

	err := uc.Delete(ctx, 1, 20)
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))
	assert.Equal(t, []uint{1}, cache.barbers)
}

func TestCreateService(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	uc := NewServices(repo, nil, nil)

	svc, err := uc.Create(ctx, 1, NewService{Name: " Beard trim ", Price: 200, DurationMinutes: 15})
	require.NoError(t, err)
	assert.Equal(t, "Beard trim", svc.Name)
	assert.Equal(t, uint(1), svc.BarberID)

	list, err := uc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = uc.Create(ctx, 1, NewService{Name: "Cut", DurationMinutes: 0})
	assert.True(t, httperr.IsBusiness(err, "invalid_duration"))
}
