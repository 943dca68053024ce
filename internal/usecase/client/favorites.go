package client

import (
	"context"

	"github.com/BruksfildServices01/barberbook/internal/models"
)

type Favorites struct {
	repo    Repository
	barbers BarberLookup
}

// BarberLookup is satisfied by the booking repository.
type BarberLookup interface {
	GetBarber(ctx context.Context, barberID uint) (*models.Barber, error)
}

func NewFavorites(repo Repository, barbers BarberLookup) *Favorites {
	return &Favorites{repo: repo, barbers: barbers}
}

// Add is idempotent: adding a barber twice leaves one favorite and reports
// created=false the second time.
func (uc *Favorites) Add(
	ctx context.Context,
	clientID uint,
	barberID uint,
) (bool, error) {

	if _, err := uc.barbers.GetBarber(ctx, barberID); err != nil {
		return false, storageError(err, "favorite_failed")
	}

	created, err := uc.repo.AddFavorite(ctx, &models.Favorite{
		ClientID: clientID,
		BarberID: barberID,
	})
	if err != nil {
		return false, storageError(err, "favorite_failed")
	}
	return created, nil
}
