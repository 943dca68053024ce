package booking

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
)

const (
	TimeLayout = "15:04"
	DateLayout = "2006-01-02"
)

// Clock is a wall-clock time of day, in minutes since midnight.
type Clock int

// ParseClock accepts only the zero-padded "HH:MM" form. time.Parse alone
// would also take "9:30", which then never matches a computed slot.
func ParseClock(hm string) (Clock, error) {
	t, err := time.Parse(TimeLayout, hm)
	if err != nil {
		return 0, httperr.InvalidInput("invalid_time")
	}
	c := Clock(t.Hour()*60 + t.Minute())
	if c.String() != hm {
		return 0, httperr.InvalidInput("invalid_time")
	}
	return c, nil
}

func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On anchors c to the calendar day of date, in date's location.
func (c Clock) On(date time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		int(c)/60, int(c)%60, 0, 0,
		date.Location(),
	)
}
