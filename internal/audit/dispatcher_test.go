package audit

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type memorySink struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *memorySink) Log(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("db down")
	}
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(sink)

	d.Dispatch(Event{BarberID: 1, Action: "booking_created"})
	d.Dispatch(Event{BarberID: 1, Action: "booking_cancelled"})
	d.Close()

	if assert.Len(t, sink.events, 2) {
		assert.Equal(t, "booking_created", sink.events[0].Action)
		assert.Equal(t, "booking_cancelled", sink.events[1].Action)
	}
}

func TestDispatcherSurvivesSinkErrors(t *testing.T) {
	sink := &memorySink{fail: true}
	d := NewDispatcher(sink)

	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "booking_created"})
		d.Close()
	})
	assert.Empty(t, sink.events)
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Dispatch(Event{Action: "x"}) })
}
