package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

type rating struct {
	average float64
	count   int
}

// fakeRepo keeps reviews and favorites in memory. RunInTx works on a copy
// and only commits it when fn succeeds, like a rolled back transaction.
type fakeRepo struct {
	mu sync.Mutex

	bookings  map[uint]models.Booking
	barbers   map[uint]bool
	reviews   []models.Review
	ratings   map[uint]rating
	favorites map[string]bool
	locked    []uint

	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings:  map[uint]models.Booking{},
		barbers:   map[uint]bool{1: true},
		ratings:   map[uint]rating{},
		favorites: map[string]bool{},
	}
}

func (r *fakeRepo) RunInTx(_ context.Context, fn func(Repository) error) error {
	r.mu.Lock()
	tx := &fakeRepo{
		bookings:  r.bookings,
		barbers:   r.barbers,
		reviews:   append([]models.Review(nil), r.reviews...),
		ratings:   map[uint]rating{},
		favorites: r.favorites,
		createErr: r.createErr,
	}
	for k, v := range r.ratings {
		tx.ratings[k] = v
	}
	r.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = tx.reviews
	r.ratings = tx.ratings
	r.locked = append(r.locked, tx.locked...)
	return nil
}

func (r *fakeRepo) GetBookingForClient(_ context.Context, bookingID, clientID uint) (*models.Booking, error) {
	b, ok := r.bookings[bookingID]
	if !ok || b.ClientID == nil || *b.ClientID != clientID {
		return nil, httperr.NotFound("booking_not_found")
	}
	return &b, nil
}

func (r *fakeRepo) CreateReview(_ context.Context, review *models.Review) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.reviews {
		if existing.BookingID == review.BookingID {
			return httperr.Conflict("review_exists")
		}
	}
	review.ID = uint(len(r.reviews) + 1)
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *fakeRepo) LockBarber(_ context.Context, barberID uint) error {
	if !r.barbers[barberID] {
		return httperr.NotFound("barber_not_found")
	}
	r.locked = append(r.locked, barberID)
	return nil
}

func (r *fakeRepo) ListRatings(_ context.Context, barberID uint) ([]int, error) {
	var out []int
	for _, rv := range r.reviews {
		if rv.BarberID == barberID {
			out = append(out, rv.Rating)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateRating(_ context.Context, barberID uint, average float64, count int) error {
	r.ratings[barberID] = rating{average: average, count: count}
	return nil
}

func (r *fakeRepo) AddFavorite(_ context.Context, f *models.Favorite) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%d/%d", f.ClientID, f.BarberID)
	if r.favorites[key] {
		return false, nil
	}
	r.favorites[key] = true
	return true, nil
}

func (r *fakeRepo) GetBarber(_ context.Context, barberID uint) (*models.Barber, error) {
	if !r.barbers[barberID] {
		return nil, httperr.NotFound("barber_not_found")
	}
	return &models.Barber{ID: barberID}, nil
}

func (r *fakeRepo) addBooking(id, clientID uint, status string) {
	r.bookings[id] = models.Booking{ID: id, BarberID: 1, ClientID: &clientID, Status: status}
}
