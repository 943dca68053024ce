package client

import (
	"context"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

// Repository is what reviews and favorites need from storage. Not-found
// lookups come back as httperr.NotFound and a second review of the same
// booking as httperr.Conflict("review_exists").
type Repository interface {
	RunInTx(ctx context.Context, fn func(repo Repository) error) error

	GetBookingForClient(ctx context.Context, bookingID, clientID uint) (*models.Booking, error)
	CreateReview(ctx context.Context, r *models.Review) error

	LockBarber(ctx context.Context, barberID uint) error
	ListRatings(ctx context.Context, barberID uint) ([]int, error)
	UpdateRating(ctx context.Context, barberID uint, average float64, count int) error

	// AddFavorite reports false when the pair already existed.
	AddFavorite(ctx context.Context, f *models.Favorite) (bool, error)
}

// storageError keeps business errors and reports everything else as the
// storage being unavailable.
func storageError(err error, code string) error {
	if httperr.KindOf(err) != "" {
		return err
	}
	return httperr.Upstream(code, err)
}
