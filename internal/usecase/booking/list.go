package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/dto"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

type ListBookings struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo, now: systemNow}
}

// ByDate lists every booking of one calendar day, any status.
func (uc *ListBookings) ByDate(
	ctx context.Context,
	barberID uint,
	date time.Time,
) ([]dto.BookingListDTO, error) {

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return uc.period(ctx, barberID, start, start.AddDate(0, 0, 1))
}

func (uc *ListBookings) ByMonth(
	ctx context.Context,
	barberID uint,
	year int,
	month int,
) ([]dto.BookingListDTO, error) {

	if month < 1 || month > 12 || year < 1 {
		return nil, httperr.InvalidInput("invalid_date")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return uc.period(ctx, barberID, start, start.AddDate(0, 1, 0))
}

func (uc *ListBookings) period(
	ctx context.Context,
	barberID uint,
	from time.Time,
	to time.Time,
) ([]dto.BookingListDTO, error) {

	bookings, err := uc.repo.ListBookingsForPeriod(ctx, barberID, from, to)
	if err != nil {
		return nil, httperr.Upstream("bookings_unavailable", err)
	}
	return dto.FromBookings(bookings, false), nil
}

// ForClient lists a client's bookings. "Today" is the date in the default
// zone.
func (uc *ListBookings) ForClient(
	ctx context.Context,
	clientID uint,
	filter domain.ClientFilter,
) ([]dto.BookingListDTO, error) {

	today := timezone.StartOfDay(uc.now().In(timezone.Location("")))
	bookings, err := uc.repo.ListBookingsForClient(ctx, clientID, filter, today)
	if err != nil {
		return nil, httperr.Upstream("bookings_unavailable", err)
	}
	return dto.FromBookings(bookings, true), nil
}
