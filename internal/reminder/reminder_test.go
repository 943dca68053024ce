package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

// stubRepo implements only what the job touches.
type stubRepo struct {
	domain.Repository

	bookings []models.Booking
	from, to time.Time
	marked   []uint
	listErr  error
}

func (r *stubRepo) ListBookingsStartingBetween(_ context.Context, from, to time.Time) ([]models.Booking, error) {
	r.from, r.to = from, to
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ReminderSentAt == nil && !b.StartsAt.Before(from) && b.StartsAt.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubRepo) MarkReminderSent(_ context.Context, id uint, at time.Time) error {
	r.marked = append(r.marked, id)
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			r.bookings[i].ReminderSentAt = &at
		}
	}
	return nil
}

type stubSender struct {
	sent []uint
	fail map[uint]bool
}

func (s *stubSender) Reminder(b *models.Booking, _ *models.Barber) error {
	if s.fail[b.ID] {
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, b.ID)
	return nil
}

func TestRunSendsOncePerBooking(t *testing.T) {
	now := time.Date(2030, 6, 3, 8, 0, 0, 0, time.UTC)
	repo := &stubRepo{bookings: []models.Booking{
		{ID: 1, StartsAt: now.Add(30 * time.Minute)},
		{ID: 2, StartsAt: now.Add(2 * time.Hour)},
		{ID: 3, StartsAt: now.Add(59 * time.Minute)},
	}}
	sender := &stubSender{}

	job := NewJob(repo, sender, time.Hour)
	job.now = func() time.Time { return now }

	assert.Equal(t, 2, job.Run(context.Background()))
	assert.Equal(t, []uint{1, 3}, sender.sent)
	assert.Equal(t, []uint{1, 3}, repo.marked)
	assert.True(t, repo.to.Sub(repo.from) == time.Hour)

	assert.Equal(t, 0, job.Run(context.Background()))
}

func TestRunRetriesFailedSendsNextRound(t *testing.T) {
	now := time.Date(2030, 6, 3, 8, 0, 0, 0, time.UTC)
	repo := &stubRepo{bookings: []models.Booking{{ID: 1, StartsAt: now.Add(10 * time.Minute)}}}
	sender := &stubSender{fail: map[uint]bool{1: true}}

	job := NewJob(repo, sender, time.Hour)
	job.now = func() time.Time { return now }

	assert.Equal(t, 0, job.Run(context.Background()))
	assert.Empty(t, repo.marked)

	sender.fail = nil
	assert.Equal(t, 1, job.Run(context.Background()))
}

func TestRunSurvivesQueryError(t *testing.T) {
	repo := &stubRepo{listErr: errors.New("db down")}
	job := NewJob(repo, &stubSender{}, 0)

	assert.Equal(t, time.Hour, job.lead)
	assert.Equal(t, 0, job.Run(context.Background()))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	job := NewJob(&stubRepo{}, &stubSender{}, time.Hour)

	_, err := job.Start("every now and then")
	assert.Error(t, err)

	c, err := job.Start("@every 1h")
	require.NoError(t, err)
	c.Stop()
}
