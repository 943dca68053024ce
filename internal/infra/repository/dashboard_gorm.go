package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

type BarberStats struct {
	TodayBookings    int64   `json:"today_bookings"`
	UpcomingBookings int64   `json:"upcoming_bookings"`
	TotalBookings    int64   `json:"total_bookings"`
	ActiveServices   int64   `json:"active_services"`
	CompletedRevenue float64 `json:"completed_revenue"`
	AverageRating    float64 `json:"average_rating"`
	ReviewCount      int     `json:"review_count"`
}

type ClientStats struct {
	UpcomingBookings  int64 `json:"upcoming_bookings"`
	CompletedBookings int64 `json:"completed_bookings"`
	Favorites         int64 `json:"favorites"`
	Reviews           int64 `json:"reviews"`
}

// DashboardGormRepository answers the counter queries of both dashboards.
type DashboardGormRepository struct {
	db *gorm.DB
}

func NewDashboardGormRepository(db *gorm.DB) *DashboardGormRepository {
	return &DashboardGormRepository{db: db}
}

// BarberStats counts a barber's calendar. today is the barber-local date.
func (r *DashboardGormRepository) BarberStats(
	ctx context.Context,
	barberID uint,
	today time.Time,
) (*BarberStats, error) {

	db := r.db.WithContext(ctx)
	day := today.Format(domain.DateLayout)
	var out BarberStats

	bookings := func() *gorm.DB {
		return db.Model(&models.Booking{}).Where("barber_id = ?", barberID)
	}

	if err := bookings().
		Where("appointment_date = ? AND status = ?", day, string(domain.StatusConfirmed)).
		Count(&out.TodayBookings).Error; err != nil {
		return nil, err
	}

	if err := bookings().
		Where("appointment_date >= ? AND status = ?", day, string(domain.StatusConfirmed)).
		Count(&out.UpcomingBookings).Error; err != nil {
		return nil, err
	}

	if err := bookings().Count(&out.TotalBookings).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Service{}).
		Where("barber_id = ?", barberID).
		Count(&out.ActiveServices).Error; err != nil {
		return nil, err
	}

	if err := bookings().
		Where("status = ?", string(domain.StatusCompleted)).
		Select("COALESCE(SUM(price), 0)").
		Scan(&out.CompletedRevenue).Error; err != nil {
		return nil, err
	}

	var barber models.Barber
	if err := db.Select("average_rating", "review_count").
		First(&barber, barberID).Error; err != nil {
		return nil, notFoundOr(err, "barber_not_found")
	}
	out.AverageRating = barber.AverageRating
	out.ReviewCount = barber.ReviewCount

	return &out, nil
}

func (r *DashboardGormRepository) ClientStats(
	ctx context.Context,
	clientID uint,
	today time.Time,
) (*ClientStats, error) {

	db := r.db.WithContext(ctx)
	day := today.Format(domain.DateLayout)
	var out ClientStats

	if err := db.Model(&models.Booking{}).
		Where("client_id = ? AND appointment_date >= ? AND status = ?", clientID, day, string(domain.StatusConfirmed)).
		Count(&out.UpcomingBookings).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Booking{}).
		Where("client_id = ? AND status = ?", clientID, string(domain.StatusCompleted)).
		Count(&out.CompletedBookings).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Favorite{}).
		Where("client_id = ?", clientID).
		Count(&out.Favorites).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Review{}).
		Where("client_id = ?", clientID).
		Count(&out.Reviews).Error; err != nil {
		return nil, err
	}

	return &out, nil
}
