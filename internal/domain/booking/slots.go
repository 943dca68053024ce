package booking

import (
	"time"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
)

// SlotStep is the distance between two candidate start times.
const SlotStep = 30

// BookedInterval is a confirmed booking reduced to what blocks a slot.
type BookedInterval struct {
	Time            string
	DurationMinutes int
}

type interval struct {
	start Clock
	end   Clock
}

// ComputeSlots returns the ascending start times ("HH:MM") on date at which
// a service of durationMinutes fits inside the day's working window without
// overlapping any of existing. Intervals that only touch do not overlap.
//
// A nil schedule or a disabled day yields no slots. Inputs are not modified.
func ComputeSlots(
	schedule WorkingHoursSchedule,
	date time.Time,
	durationMinutes int,
	existing []BookedInterval,
) ([]string, error) {

	if durationMinutes <= 0 {
		return nil, httperr.InvalidInput("invalid_duration")
	}

	day, ok := schedule.ForDate(date)
	if !ok || !day.Enabled {
		return []string{}, nil
	}

	windowStart, err := ParseClock(day.Start)
	if err != nil {
		return nil, err
	}
	windowEnd, err := ParseClock(day.End)
	if err != nil {
		return nil, err
	}

	busy := make([]interval, 0, len(existing))
	for _, b := range existing {
		if b.DurationMinutes <= 0 {
			return nil, httperr.InvalidInput("invalid_duration")
		}
		start, err := ParseClock(b.Time)
		if err != nil {
			return nil, err
		}
		busy = append(busy, interval{start: start, end: start.Add(b.DurationMinutes)})
	}

	slots := []string{}
	for t := windowStart; ; t = t.Add(SlotStep) {
		slotEnd := t.Add(durationMinutes)
		if slotEnd > windowEnd {
			break
		}
		if isFree(t, slotEnd, busy) {
			slots = append(slots, t.String())
		}
	}

	return slots, nil
}

func isFree(start, end Clock, busy []interval) bool {
	for _, b := range busy {
		if start < b.end && end > b.start {
			return false
		}
	}
	return true
}

// Contains reports whether hm is one of slots.
func Contains(slots []string, hm string) bool {
	for _, s := range slots {
		if s == hm {
			return true
		}
	}
	return false
}
