package client

import (
	"context"
	"math"
	"strings"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

const (
	MinRating = 1
	MaxRating = 5
)

type CreateReviewInput struct {
	ClientID  uint
	BookingID uint
	Rating    int
	Comment   string
}

type CreateReview struct {
	repo  Repository
	audit *audit.Dispatcher
}

func NewCreateReview(repo Repository, audit *audit.Dispatcher) *CreateReview {
	return &CreateReview{repo: repo, audit: audit}
}

// Execute accepts one review per completed booking of the client and
// refreshes the barber's rating in the same transaction.
func (uc *CreateReview) Execute(
	ctx context.Context,
	in CreateReviewInput,
) (*models.Review, error) {

	if in.Rating < MinRating || in.Rating > MaxRating {
		return nil, httperr.InvalidInput("invalid_rating")
	}

	var review models.Review
	err := uc.repo.RunInTx(ctx, func(tx Repository) error {
		bk, err := tx.GetBookingForClient(ctx, in.BookingID, in.ClientID)
		if err != nil {
			return err
		}

		if bk.Status != string(domain.StatusCompleted) {
			return httperr.InvalidState("not_reviewable")
		}

		review = models.Review{
			BarberID:  bk.BarberID,
			ClientID:  in.ClientID,
			BookingID: bk.ID,
			Rating:    in.Rating,
			Comment:   strings.TrimSpace(in.Comment),
		}
		if err := tx.CreateReview(ctx, &review); err != nil {
			return err
		}

		return refreshRating(ctx, tx, bk.BarberID)
	})
	if err != nil {
		return nil, storageError(err, "review_failed")
	}

	uc.audit.Dispatch(audit.Event{
		BarberID:  review.BarberID,
		ActorID:   &in.ClientID,
		ActorRole: string(domain.ActorClient),
		Action:    "review_created",
		Entity:    "review",
		EntityID:  &review.ID,
		Metadata:  map[string]any{"rating": review.Rating},
	})

	return &review, nil
}

// refreshRating recomputes the barber's average from every review, holding
// the barber row so concurrent reviews do not lose updates.
func refreshRating(ctx context.Context, tx Repository, barberID uint) error {
	if err := tx.LockBarber(ctx, barberID); err != nil {
		return err
	}

	ratings, err := tx.ListRatings(ctx, barberID)
	if err != nil {
		return err
	}

	avg, count := Summarize(ratings)
	return tx.UpdateRating(ctx, barberID, avg, count)
}

// Summarize returns the mean rounded to two decimals and the number of
// ratings. No ratings gives 0, 0.
func Summarize(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	return math.Round(avg*100) / 100, len(ratings)
}
