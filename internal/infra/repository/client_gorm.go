package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
	ucClient "github.com/BruksfildServices01/barberbook/internal/usecase/client"
)

// ClientGormRepository backs reviews and favorites.
type ClientGormRepository struct {
	db *gorm.DB
}

func NewClientGormRepository(db *gorm.DB) *ClientGormRepository {
	return &ClientGormRepository{db: db}
}

func (r *ClientGormRepository) RunInTx(
	ctx context.Context,
	fn func(repo ucClient.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ClientGormRepository{db: tx})
	})
}

func (r *ClientGormRepository) GetBookingForClient(
	ctx context.Context,
	bookingID uint,
	clientID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND client_id = ?", bookingID, clientID).
		First(&b).Error; err != nil {
		return nil, notFoundOr(err, "booking_not_found")
	}
	return &b, nil
}

// --------------------------------------------------
// Reviews
// --------------------------------------------------

func (r *ClientGormRepository) CreateReview(
	ctx context.Context,
	review *models.Review,
) error {
	err := r.db.WithContext(ctx).Create(review).Error
	if IsUniqueViolation(err) {
		return httperr.Conflict("review_exists")
	}
	return err
}

func (r *ClientGormRepository) LockBarber(
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

func (r *ClientGormRepository) ListRatings(
	ctx context.Context,
	barberID uint,
) ([]int, error) {

	var ratings []int
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("barber_id = ?", barberID).
		Pluck("rating", &ratings).Error
	return ratings, err
}

func (r *ClientGormRepository) UpdateRating(
	ctx context.Context,
	barberID uint,
	average float64,
	count int,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", barberID).
		Updates(map[string]any{
			"average_rating": average,
			"review_count":   count,
		}).Error
}

// --------------------------------------------------
// Favorites
// --------------------------------------------------

func (r *ClientGormRepository) AddFavorite(
	ctx context.Context,
	f *models.Favorite,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Compile-time check
var _ ucClient.Repository = (*ClientGormRepository)(nil)
