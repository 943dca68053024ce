package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	cache AvailabilityCache
	now   func() time.Time
}

func NewGetAvailability(repo domain.Repository, cache AvailabilityCache) *GetAvailability {
	return &GetAvailability{
		repo:  repo,
		cache: orNoCache(cache),
		now:   systemNow,
	}
}

// Execute returns the free start times of a service on a date. A barber
// that does not work that day gets Closed with a reason rather than an
// error, so callers can tell "closed" from "full" from "unknown".
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.Availability, error) {

	barber, err := uc.repo.GetBarber(ctx, in.BarberID)
	if err != nil {
		return nil, lookupError(err, "availability_failed")
	}

	svc, err := uc.repo.GetService(ctx, in.BarberID, in.ServiceID)
	if err != nil {
		return nil, lookupError(err, "availability_failed")
	}
	if svc.DurationMinutes <= 0 {
		return nil, httperr.InvalidInput("invalid_duration")
	}

	date := in.Date.Format(domain.DateLayout)
	out := &domain.Availability{
		Date:            date,
		ServiceID:       svc.ID,
		DurationMinutes: svc.DurationMinutes,
		Slots:           []string{},
	}

	now := uc.now().In(timezone.Location(barber.Timezone))
	today := now.Format(domain.DateLayout)
	if date < today {
		out.Closed = true
		out.Reason = domain.ClosedPastDate
		return out, nil
	}

	cached, gen, ok := uc.cache.Get(ctx, in.BarberID, in.ServiceID, date)
	if !ok {
		cached, err = uc.compute(ctx, in, out)
		if err != nil {
			return nil, err
		}
		uc.cache.Set(ctx, in.BarberID, in.ServiceID, date, gen, cached)
	}

	res := *cached
	if date == today {
		res.Slots = dropStarted(res.Slots, domain.Clock(now.Hour()*60+now.Minute()))
	}
	return &res, nil
}

func (uc *GetAvailability) compute(
	ctx context.Context,
	in domain.AvailabilityInput,
	base *domain.Availability,
) (*domain.Availability, error) {

	schedule, err := uc.repo.GetWorkingHours(ctx, in.BarberID)
	if err != nil {
		return nil, lookupError(err, "availability_failed")
	}

	out := *base
	if reason := domain.ClosedReasonFor(schedule, in.Date); reason != "" {
		out.Closed = true
		out.Reason = reason
		return &out, nil
	}

	existing, err := uc.repo.ListConfirmedBookings(ctx, in.BarberID, in.Date)
	if err != nil {
		return nil, httperr.Upstream("availability_failed", err)
	}

	slots, err := domain.ComputeSlots(schedule, in.Date, base.DurationMinutes, existing)
	if err != nil {
		return nil, err
	}
	out.Slots = slots
	return &out, nil
}

// dropStarted removes slots at or before the current minute.
func dropStarted(slots []string, now domain.Clock) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		c, err := domain.ParseClock(s)
		if err != nil || c <= now {
			continue
		}
		out = append(out, s)
	}
	return out
}

// lookupError keeps business errors (not found, bad input) and reports
// everything else as the storage being unavailable.
func lookupError(err error, code string) error {
	if httperr.KindOf(err) != "" {
		return err
	}
	return httperr.Upstream(code, err)
}
