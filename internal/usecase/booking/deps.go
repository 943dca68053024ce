package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

// AvailabilityCache is satisfied by cache.AvailabilityCache. Implementations
// must treat their own failures as misses. Get reports the generation it
// looked under and Set stores under exactly that generation.
type AvailabilityCache interface {
	Get(ctx context.Context, barberID, serviceID uint, date string) (*domain.Availability, int64, bool)
	Set(ctx context.Context, barberID, serviceID uint, date string, gen int64, a *domain.Availability)
	Invalidate(ctx context.Context, barberID uint)
}

// Notifier is satisfied by notify.Notifier.
type Notifier interface {
	BookingConfirmed(b models.Booking, barber models.Barber)
	BookingCancelled(b models.Booking, barber models.Barber)
}

type noCache struct{}

func (noCache) Get(context.Context, uint, uint, string) (*domain.Availability, int64, bool) {
	return nil, -1, false
}
func (noCache) Set(context.Context, uint, uint, string, int64, *domain.Availability) {}
func (noCache) Invalidate(context.Context, uint)                                     {}

type noNotifier struct{}

func (noNotifier) BookingConfirmed(models.Booking, models.Barber) {}
func (noNotifier) BookingCancelled(models.Booking, models.Barber) {}

func orNoCache(c AvailabilityCache) AvailabilityCache {
	if c == nil {
		return noCache{}
	}
	return c
}

func orNoNotifier(n Notifier) Notifier {
	if n == nil {
		return noNotifier{}
	}
	return n
}

func ptr[T any](v T) *T {
	return &v
}

var systemNow = time.Now
