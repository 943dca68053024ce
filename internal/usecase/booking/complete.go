package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

type CompleteBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCompleteBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteBooking {
	return &CompleteBooking{
		repo:  repo,
		audit: audit,
		now:   systemNow,
	}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	barberID uint,
	bookingID uint,
) (*models.Booking, error) {

	bk, err := uc.repo.GetBookingForBarber(ctx, bookingID, barberID)
	if err != nil {
		return nil, lookupError(err, "booking_failed")
	}

	if err := domain.Complete(bk, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, bk); err != nil {
		return nil, lookupError(err, "booking_failed")
	}

	uc.audit.Dispatch(audit.Event{
		BarberID:  barberID,
		ActorID:   &barberID,
		ActorRole: string(domain.ActorBarber),
		Action:    "booking_completed",
		Entity:    "booking",
		EntityID:  ptr(bk.ID),
	})

	return bk, nil
}
