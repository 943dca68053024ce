package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

const pgUniqueViolation = "23505"

// fallbackDuration applies to legacy rows with no snapshot whose service
// row is gone.
const fallbackDuration = 30

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func (r *BookingGormRepository) RunInTx(
	ctx context.Context,
	fn func(repo domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *BookingGormRepository) GetBarber(
	ctx context.Context,
	barberID uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).First(&barber, barberID).Error; err != nil {
		return nil, notFoundOr(err, "barber_not_found")
	}
	return &barber, nil
}

func (r *BookingGormRepository) LockBarber(
	ctx context.Context,
	barberID uint,
) error {

	var barber models.Barber
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&barber, barberID).Error
	return notFoundOr(err, "barber_not_found")
}

func (r *BookingGormRepository) GetWorkingHours(
	ctx context.Context,
	barberID uint,
) (domain.WorkingHoursSchedule, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Select("id", "working_hours").
		First(&barber, barberID).Error; err != nil {
		return nil, notFoundOr(err, "barber_not_found")
	}

	return DecodeWorkingHours(barber.WorkingHours)
}

// DecodeWorkingHours reads the jsonb column. Empty or JSON null means the
// barber never saved a schedule.
func DecodeWorkingHours(raw []byte) (domain.WorkingHoursSchedule, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var days map[string]domain.DaySchedule
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, httperr.InvalidInput("invalid_working_hours")
	}
	if days == nil {
		return nil, nil
	}

	schedule := make(domain.WorkingHoursSchedule, len(days))
	for k, v := range days {
		schedule[k] = v
	}
	return schedule, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	barberID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", serviceID, barberID).
		First(&svc).Error; err != nil {
		return nil, notFoundOr(err, "service_not_found")
	}
	return &svc, nil
}

func (r *BookingGormRepository) ListServices(
	ctx context.Context,
	barberID uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("name ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Booking (availability)
// --------------------------------------------------

type bookedRow struct {
	AppointmentTime string
	Duration        int
}

func (r *BookingGormRepository) ListConfirmedBookings(
	ctx context.Context,
	barberID uint,
	date time.Time,
) ([]domain.BookedInterval, error) {

	var rows []bookedRow
	// raw join so soft-deleted services still resolve a duration
	if err := r.db.WithContext(ctx).
		Table("bookings").
		Select(
			"bookings.appointment_time AS appointment_time, "+
				"COALESCE(NULLIF(bookings.duration_minutes, 0), services.duration_minutes, ?) AS duration",
			fallbackDuration,
		).
		Joins("LEFT JOIN services ON services.id = bookings.service_id").
		Where(
			"bookings.barber_id = ? AND bookings.appointment_date = ? AND bookings.status = ?",
			barberID,
			date.Format(domain.DateLayout),
			string(domain.StatusConfirmed),
		).
		Order("bookings.appointment_time ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.BookedInterval, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.BookedInterval{
			Time:            row.AppointmentTime,
			DurationMinutes: row.Duration,
		})
	}
	return out, nil
}

// --------------------------------------------------
// Booking (create / state change)
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return mapWriteError(r.db.WithContext(ctx).Create(b).Error)
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return mapWriteError(r.db.WithContext(ctx).
		Model(b).
		Select("status", "cancelled_at", "cancelled_by", "completed_at", "updated_at").
		Updates(b).Error)
}

func (r *BookingGormRepository) GetBookingForBarber(
	ctx context.Context,
	bookingID uint,
	barberID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("id = ? AND barber_id = ?", bookingID, barberID).
		First(&b).Error; err != nil {
		return nil, notFoundOr(err, "booking_not_found")
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingForClient(
	ctx context.Context,
	bookingID uint,
	clientID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Where("id = ? AND client_id = ?", bookingID, clientID).
		First(&b).Error; err != nil {
		return nil, notFoundOr(err, "booking_not_found")
	}
	return &b, nil
}

// --------------------------------------------------
// Booking (listing)
// --------------------------------------------------

func (r *BookingGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	barberID uint,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where(
			"barber_id = ? AND appointment_date >= ? AND appointment_date < ?",
			barberID,
			from.Format(domain.DateLayout),
			to.Format(domain.DateLayout),
		).
		Order("appointment_date ASC, appointment_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForClient(
	ctx context.Context,
	clientID uint,
	filter domain.ClientFilter,
	today time.Time,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("Barber").
		Where("client_id = ?", clientID)

	day := today.Format(domain.DateLayout)
	switch filter {
	case domain.FilterUpcoming:
		q = q.Where("appointment_date >= ? AND status = ?", day, string(domain.StatusConfirmed)).
			Order("appointment_date ASC, appointment_time ASC")
	case domain.FilterPast:
		q = q.Where("(appointment_date < ? OR status <> ?)", day, string(domain.StatusConfirmed)).
			Order("appointment_date DESC, appointment_time DESC")
	default:
		q = q.Order("appointment_date DESC, appointment_time DESC")
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsStartingBetween(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Barber").
		Where(
			"status = ? AND reminder_sent_at IS NULL AND starts_at >= ? AND starts_at < ?",
			string(domain.StatusConfirmed),
			from,
			to,
		).
		Order("starts_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) MarkReminderSent(
	ctx context.Context,
	bookingID uint,
	at time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("reminder_sent_at", at).Error
}

// --------------------------------------------------
// Errors
// --------------------------------------------------

func notFoundOr(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFound(code)
	}
	return err
}

// mapWriteError turns a hit on the confirmed-slot index into a conflict.
func mapWriteError(err error) error {
	if IsUniqueViolation(err) {
		return httperr.Conflict("time_conflict")
	}
	return err
}

// IsUniqueViolation reports whether err comes from a unique index.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
