package booking

import (
	"time"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

// Actor is who triggered a state change.
type Actor string

const (
	ActorClient Actor = "client"
	ActorBarber Actor = "barber"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(b *models.Booking, by Actor, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	b.CancelledBy = string(by)
	return nil
}

// Complete marks a booking as served. Appointments that have not started
// yet cannot be completed.
func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}
	if now.Before(b.StartsAt) {
		return httperr.InvalidState("appointment_not_begun")
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}
