package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

type CancelBooking struct {
	repo     domain.Repository
	cache    AvailabilityCache
	notifier Notifier
	audit    *audit.Dispatcher
	now      func() time.Time
}

func NewCancelBooking(
	repo domain.Repository,
	cache AvailabilityCache,
	notifier Notifier,
	audit *audit.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:     repo,
		cache:    orNoCache(cache),
		notifier: orNoNotifier(notifier),
		audit:    audit,
		now:      systemNow,
	}
}

// ByBarber cancels any booking of the barber's own calendar.
func (uc *CancelBooking) ByBarber(
	ctx context.Context,
	barberID uint,
	bookingID uint,
) (*models.Booking, error) {

	barber, err := uc.repo.GetBarber(ctx, barberID)
	if err != nil {
		return nil, lookupError(err, "booking_failed")
	}

	bk, err := uc.repo.GetBookingForBarber(ctx, bookingID, barberID)
	if err != nil {
		return nil, lookupError(err, "booking_failed")
	}

	if err := uc.apply(ctx, bk, domain.ActorBarber, &barberID); err != nil {
		return nil, err
	}

	uc.notifier.BookingCancelled(*bk, *barber)
	return bk, nil
}

// ByClient cancels one of the client's own bookings.
func (uc *CancelBooking) ByClient(
	ctx context.Context,
	clientID uint,
	bookingID uint,
) (*models.Booking, error) {

	bk, err := uc.repo.GetBookingForClient(ctx, bookingID, clientID)
	if err != nil {
		return nil, lookupError(err, "booking_failed")
	}

	if err := uc.apply(ctx, bk, domain.ActorClient, &clientID); err != nil {
		return nil, err
	}

	uc.notifier.BookingCancelled(*bk, bk.Barber)
	return bk, nil
}

func (uc *CancelBooking) apply(
	ctx context.Context,
	bk *models.Booking,
	by domain.Actor,
	actorID *uint,
) error {

	if err := domain.Cancel(bk, by, uc.now()); err != nil {
		return err
	}

	if err := uc.repo.UpdateBooking(ctx, bk); err != nil {
		return lookupError(err, "booking_failed")
	}

	uc.cache.Invalidate(ctx, bk.BarberID)

	uc.audit.Dispatch(audit.Event{
		BarberID:  bk.BarberID,
		ActorID:   actorID,
		ActorRole: string(by),
		Action:    "booking_cancelled",
		Entity:    "booking",
		EntityID:  ptr(bk.ID),
	})
	return nil
}
