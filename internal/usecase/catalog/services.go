package catalog

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

// Repository stores a barber's services. GetService returns
// httperr.NotFound("service_not_found") for another barber's service.
type Repository interface {
	ListServices(ctx context.Context, barberID uint) ([]models.Service, error)
	GetService(ctx context.Context, barberID, serviceID uint) (*models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	SaveService(ctx context.Context, s *models.Service) error
	DeleteService(ctx context.Context, s *models.Service) error
}

// Invalidator drops cached availability of a barber.
type Invalidator interface {
	Invalidate(ctx context.Context, barberID uint)
}

type NewService struct {
	Name            string
	Description     string
	Price           float64
	DurationMinutes int
}

// ServicePatch changes only the fields that are set.
type ServicePatch struct {
	Name            *string
	Description     *string
	Price           *float64
	DurationMinutes *int
}

type Services struct {
	repo  Repository
	cache Invalidator
	audit *audit.Dispatcher
}

func NewServices(repo Repository, cache Invalidator, audit *audit.Dispatcher) *Services {
	return &Services{repo: repo, cache: cache, audit: audit}
}

func (uc *Services) List(ctx context.Context, barberID uint) ([]models.Service, error) {
	services, err := uc.repo.ListServices(ctx, barberID)
	if err != nil {
		return nil, storageError(err)
	}
	return services, nil
}

func (uc *Services) Create(
	ctx context.Context,
	barberID uint,
	in NewService,
) (*models.Service, error) {

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, httperr.InvalidInput("invalid_name")
	}
	if in.Price < 0 {
		return nil, httperr.InvalidInput("invalid_price")
	}
	if in.DurationMinutes <= 0 {
		return nil, httperr.InvalidInput("invalid_duration")
	}

	svc := &models.Service{
		BarberID:        barberID,
		Name:            name,
		Description:     strings.TrimSpace(in.Description),
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
	}
	if err := uc.repo.CreateService(ctx, svc); err != nil {
		return nil, storageError(err)
	}

	uc.record(barberID, "service_created", svc.ID, map[string]any{"name": svc.Name})
	return svc, nil
}

// Update applies patch. Cached slot lists are keyed per service and depend
// on its duration, so a duration change drops them.
func (uc *Services) Update(
	ctx context.Context,
	barberID uint,
	serviceID uint,
	patch ServicePatch,
) (*models.Service, error) {

	svc, err := uc.repo.GetService(ctx, barberID, serviceID)
	if err != nil {
		return nil, storageError(err)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, httperr.InvalidInput("invalid_name")
		}
		svc.Name = name
	}
	if patch.Description != nil {
		svc.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, httperr.InvalidInput("invalid_price")
		}
		svc.Price = *patch.Price
	}

	durationChanged := false
	if patch.DurationMinutes != nil {
		if *patch.DurationMinutes <= 0 {
			return nil, httperr.InvalidInput("invalid_duration")
		}
		durationChanged = *patch.DurationMinutes != svc.DurationMinutes
		svc.DurationMinutes = *patch.DurationMinutes
	}

	if err := uc.repo.SaveService(ctx, svc); err != nil {
		return nil, storageError(err)
	}

	if durationChanged {
		uc.invalidate(ctx, barberID)
	}

	uc.record(barberID, "service_updated", svc.ID, nil)
	return svc, nil
}

// Delete soft-deletes; existing bookings keep their snapshot.
func (uc *Services) Delete(
	ctx context.Context,
	barberID uint,
	serviceID uint,
) error {

	svc, err := uc.repo.GetService(ctx, barberID, serviceID)
	if err != nil {
		return storageError(err)
	}

	if err := uc.repo.DeleteService(ctx, svc); err != nil {
		return storageError(err)
	}

	uc.invalidate(ctx, barberID)
	uc.record(barberID, "service_deleted", svc.ID, map[string]any{"name": svc.Name})
	return nil
}

func (uc *Services) invalidate(ctx context.Context, barberID uint) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, barberID)
	}
}

func (uc *Services) record(barberID uint, action string, serviceID uint, meta any) {
	uc.audit.Dispatch(audit.Event{
		BarberID:  barberID,
		ActorID:   &barberID,
		ActorRole: string(domain.ActorBarber),
		Action:    action,
		Entity:    "service",
		EntityID:  &serviceID,
		Metadata:  meta,
	})
}

func storageError(err error) error {
	if httperr.KindOf(err) != "" {
		return err
	}
	return httperr.Upstream("service_failed", err)
}
