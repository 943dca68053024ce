package booking

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
)

var weekdayKeys = [7]string{
	time.Sunday:    "sunday",
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
}

// WeekdayKey returns the schedule key for d ("monday" ... "sunday").
func WeekdayKey(d time.Weekday) string {
	return weekdayKeys[d]
}

func isWeekdayKey(key string) bool {
	for _, k := range weekdayKeys {
		if k == key {
			return true
		}
	}
	return false
}

type DaySchedule struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// NewDaySchedule validates a single day. Disabled days keep their hours so
// the settings page can show them, but an enabled day must open before it
// closes.
func NewDaySchedule(enabled bool, start, end string) (DaySchedule, error) {
	d := DaySchedule{Enabled: enabled, Start: start, End: end}
	if err := d.Validate(); err != nil {
		return DaySchedule{}, err
	}
	return d, nil
}

func (d DaySchedule) Validate() error {
	if !d.Enabled && d.Start == "" && d.End == "" {
		return nil
	}

	start, err := ParseClock(d.Start)
	if err != nil {
		return err
	}
	end, err := ParseClock(d.End)
	if err != nil {
		return err
	}

	if d.Enabled && start >= end {
		return httperr.InvalidInput("start_after_end")
	}
	return nil
}

// WorkingHoursSchedule maps weekday names to the hours of that day.
type WorkingHoursSchedule map[string]DaySchedule

// NewWorkingHoursSchedule validates every day and rejects keys that are
// not weekday names.
func NewWorkingHoursSchedule(days map[string]DaySchedule) (WorkingHoursSchedule, error) {
	s := make(WorkingHoursSchedule, len(days))
	for key, day := range days {
		k := strings.ToLower(strings.TrimSpace(key))
		if !isWeekdayKey(k) {
			return nil, httperr.InvalidInput("invalid_weekday")
		}
		if err := day.Validate(); err != nil {
			return nil, err
		}
		s[k] = day
	}
	return s, nil
}

// ForDate returns the schedule of date's weekday.
func (s WorkingHoursSchedule) ForDate(date time.Time) (DaySchedule, bool) {
	if s == nil {
		return DaySchedule{}, false
	}
	d, ok := s[WeekdayKey(date.Weekday())]
	return d, ok
}

// DefaultWorkingHours is what a barber sees before saving any hours.
func DefaultWorkingHours() WorkingHoursSchedule {
	weekday := DaySchedule{Enabled: true, Start: "09:00", End: "17:00"}
	weekend := DaySchedule{Enabled: false, Start: "10:00", End: "16:00"}

	return WorkingHoursSchedule{
		"monday":    weekday,
		"tuesday":   weekday,
		"wednesday": weekday,
		"thursday":  weekday,
		"friday":    weekday,
		"saturday":  weekend,
		"sunday":    weekend,
	}
}
