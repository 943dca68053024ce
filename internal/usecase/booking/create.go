package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	BarberID  uint
	ServiceID uint

	// nil for guest bookings
	ClientID *uint

	ClientName  string
	ClientEmail string
	ClientPhone string

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	cache    AvailabilityCache
	notifier Notifier
	audit    *audit.Dispatcher
	now      func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	cache AvailabilityCache,
	notifier Notifier,
	audit *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		cache:    orNoCache(cache),
		notifier: orNoNotifier(notifier),
		audit:    audit,
		now:      systemNow,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	name := strings.TrimSpace(in.ClientName)
	if name == "" {
		return nil, httperr.InvalidInput("invalid_client_name")
	}

	date, err := time.Parse(domain.DateLayout, in.Date)
	if err != nil {
		return nil, httperr.InvalidInput("invalid_date")
	}
	if _, err := domain.ParseClock(in.Time); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Barber + barber-local start
	// --------------------------------------------------
	barber, err := uc.repo.GetBarber(ctx, in.BarberID)
	if err != nil {
		return nil, lookupError(err, "booking_failed")
	}

	start, err := timezone.ParseDateTime(barber.Timezone, in.Date, in.Time)
	if err != nil {
		return nil, httperr.InvalidInput("invalid_time")
	}
	if !start.After(uc.now()) {
		return nil, httperr.InvalidInput("too_soon")
	}

	// --------------------------------------------------
	// 3. Service (snapshot taken now)
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.BarberID, in.ServiceID)
	if err != nil {
		return nil, lookupError(err, "booking_failed")
	}
	if svc.DurationMinutes <= 0 {
		return nil, httperr.InvalidInput("invalid_duration")
	}

	bk := &models.Booking{
		Reference:       uuid.New(),
		BarberID:        barber.ID,
		ClientID:        in.ClientID,
		ServiceID:       svc.ID,
		ClientName:      name,
		ClientEmail:     strings.ToLower(strings.TrimSpace(in.ClientEmail)),
		ClientPhone:     strings.TrimSpace(in.ClientPhone),
		AppointmentDate: datatypes.Date(date),
		AppointmentTime: in.Time,
		DurationMinutes: svc.DurationMinutes,
		ServiceName:     svc.Name,
		Price:           svc.Price,
		StartsAt:        start,
		EndsAt:          start.Add(time.Duration(svc.DurationMinutes) * time.Minute),
		Status:          string(domain.InitialStatus()),
		Notes:           strings.TrimSpace(in.Notes),
	}

	// --------------------------------------------------
	// 4. Re-check the slot and insert under the barber lock
	// --------------------------------------------------
	err = uc.repo.RunInTx(ctx, func(tx domain.Repository) error {
		if err := tx.LockBarber(ctx, barber.ID); err != nil {
			return err
		}

		schedule, err := tx.GetWorkingHours(ctx, barber.ID)
		if err != nil {
			return err
		}

		existing, err := tx.ListConfirmedBookings(ctx, barber.ID, date)
		if err != nil {
			return err
		}

		slots, err := domain.ComputeSlots(schedule, date, svc.DurationMinutes, existing)
		if err != nil {
			return err
		}
		if !domain.Contains(slots, in.Time) {
			return httperr.Conflict("slot_unavailable")
		}

		return tx.CreateBooking(ctx, bk)
	})
	if err != nil {
		if httperr.IsKind(err, httperr.KindConflictOnWrite) {
			zap.L().Info("booking rejected, slot taken",
				zap.Uint("barber_id", barber.ID),
				zap.String("date", in.Date),
				zap.String("time", in.Time),
			)
		}
		return nil, lookupError(err, "booking_failed")
	}

	// --------------------------------------------------
	// 5. Side effects
	// --------------------------------------------------
	bk.Barber = *barber
	uc.cache.Invalidate(ctx, barber.ID)
	uc.notifier.BookingConfirmed(*bk, *barber)

	uc.audit.Dispatch(audit.Event{
		BarberID:  barber.ID,
		ActorID:   in.ClientID,
		ActorRole: string(domain.ActorClient),
		Action:    "booking_created",
		Entity:    "booking",
		EntityID:  ptr(bk.ID),
		Metadata: map[string]any{
			"reference": bk.Reference.String(),
			"date":      in.Date,
			"time":      in.Time,
			"service":   svc.Name,
		},
	})

	return bk, nil
}
