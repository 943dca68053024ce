package booking

import "github.com/BruksfildServices01/barberbook/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(s), nil
	}
	return "", httperr.InvalidInput("invalid_status")
}

// ===============================
// Validations
// ===============================

// CanCancel only lets confirmed bookings be cancelled.
func CanCancel(current Status) error {
	if current != StatusConfirmed {
		return httperr.InvalidState("invalid_state")
	}
	return nil
}

// CanComplete only lets confirmed bookings be completed.
func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.InvalidState("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusConfirmed
}
