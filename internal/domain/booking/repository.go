package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barberbook/internal/models"
)

type Repository interface {
	// RunInTx runs fn against a repository bound to one transaction.
	RunInTx(
		ctx context.Context,
		fn func(repo Repository) error,
	) error

	// -------- Barber --------
	GetBarber(
		ctx context.Context,
		barberID uint,
	) (*models.Barber, error)

	// LockBarber serializes writers of one barber's calendar.
	LockBarber(
		ctx context.Context,
		barberID uint,
	) error

	// GetWorkingHours returns nil, nil when the barber never saved hours.
	GetWorkingHours(
		ctx context.Context,
		barberID uint,
	) (WorkingHoursSchedule, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		barberID uint,
		serviceID uint,
	) (*models.Service, error)

	ListServices(
		ctx context.Context,
		barberID uint,
	) ([]models.Service, error)

	// -------- Booking (availability) --------
	ListConfirmedBookings(
		ctx context.Context,
		barberID uint,
		date time.Time,
	) ([]BookedInterval, error)

	// -------- Booking (create / state change) --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBookingForBarber(
		ctx context.Context,
		bookingID uint,
		barberID uint,
	) (*models.Booking, error)

	GetBookingForClient(
		ctx context.Context,
		bookingID uint,
		clientID uint,
	) (*models.Booking, error)

	// -------- Booking (listing) --------
	ListBookingsForPeriod(
		ctx context.Context,
		barberID uint,
		from time.Time,
		to time.Time,
	) ([]models.Booking, error)

	ListBookingsForClient(
		ctx context.Context,
		clientID uint,
		filter ClientFilter,
		today time.Time,
	) ([]models.Booking, error)

	ListBookingsStartingBetween(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.Booking, error)

	MarkReminderSent(
		ctx context.Context,
		bookingID uint,
		at time.Time,
	) error
}

// ClientFilter selects which of a client's bookings to list.
type ClientFilter string

const (
	FilterUpcoming ClientFilter = "upcoming"
	FilterPast     ClientFilter = "past"
	FilterAll      ClientFilter = "all"
)

func ParseClientFilter(s string) ClientFilter {
	switch ClientFilter(s) {
	case FilterUpcoming, FilterPast:
		return ClientFilter(s)
	}
	return FilterAll
}
