package booking

import "time"

type AvailabilityInput struct {
	BarberID  uint
	ServiceID uint
	Date      time.Time
}

// ClosedReason explains an empty result that is not caused by bookings.
type ClosedReason string

const (
	ClosedNotConfigured ClosedReason = "not_configured"
	ClosedDayOff        ClosedReason = "day_off"
	ClosedPastDate      ClosedReason = "past_date"
)

type Availability struct {
	Date            string       `json:"date"`
	ServiceID       uint         `json:"service_id"`
	DurationMinutes int          `json:"duration_minutes"`
	Slots           []string     `json:"slots"`
	Closed          bool         `json:"closed"`
	Reason          ClosedReason `json:"reason,omitempty"`
}

// ClosedReasonFor tells why schedule has no window on date, or "" when the
// barber works that day.
func ClosedReasonFor(schedule WorkingHoursSchedule, date time.Time) ClosedReason {
	if schedule == nil {
		return ClosedNotConfigured
	}
	day, ok := schedule.ForDate(date)
	if !ok || !day.Enabled {
		return ClosedDayOff
	}
	return ""
}
