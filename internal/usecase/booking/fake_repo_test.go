package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

// fakeRepo is an in-memory domain.Repository. RunInTx holds one mutex, which
// is what the row lock gives us in postgres.
type fakeRepo struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	barbers  map[uint]*models.Barber
	hours    map[uint]domain.WorkingHoursSchedule
	services map[uint]*models.Service
	bookings []*models.Booking
	nextID   uint

	barberErr error
	hoursErr  error
	listErr   error
	createErr error
	updateErr error
	locked    int

	// afterList runs once ListConfirmedBookings has read its rows.
	afterList func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		barbers:  map[uint]*models.Barber{},
		hours:    map[uint]domain.WorkingHoursSchedule{},
		services: map[uint]*models.Service{},
	}
}

func (r *fakeRepo) RunInTx(ctx context.Context, fn func(repo domain.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(r)
}

func (r *fakeRepo) GetBarber(_ context.Context, id uint) (*models.Barber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.barberErr != nil {
		return nil, r.barberErr
	}
	b, ok := r.barbers[id]
	if !ok {
		return nil, httperr.NotFound("barber_not_found")
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) LockBarber(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.barbers[id]; !ok {
		return httperr.NotFound("barber_not_found")
	}
	r.locked++
	return nil
}

func (r *fakeRepo) GetWorkingHours(_ context.Context, id uint) (domain.WorkingHoursSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hoursErr != nil {
		return nil, r.hoursErr
	}
	return r.hours[id], nil
}

func (r *fakeRepo) GetService(_ context.Context, barberID, serviceID uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[serviceID]
	if !ok || s.BarberID != barberID {
		return nil, httperr.NotFound("service_not_found")
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) ListServices(_ context.Context, barberID uint) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Service
	for _, s := range r.services {
		if s.BarberID == barberID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListConfirmedBookings(_ context.Context, barberID uint, date time.Time) ([]domain.BookedInterval, error) {
	if r.afterList != nil {
		defer r.afterList()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	day := date.Format(domain.DateLayout)
	var out []domain.BookedInterval
	for _, b := range r.bookings {
		if b.BarberID == barberID &&
			b.Status == string(domain.StatusConfirmed) &&
			time.Time(b.AppointmentDate).Format(domain.DateLayout) == day {
			out = append(out, domain.BookedInterval{Time: b.AppointmentTime, DurationMinutes: b.DurationMinutes})
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	b.ID = r.nextID
	cp := *b
	r.bookings = append(r.bookings, &cp)
	return nil
}

func (r *fakeRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	for i, existing := range r.bookings {
		if existing.ID == b.ID {
			cp := *b
			r.bookings[i] = &cp
			return nil
		}
	}
	return httperr.NotFound("booking_not_found")
}

func (r *fakeRepo) find(match func(*models.Booking) bool) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if match(b) {
			cp := *b
			if barber, ok := r.barbers[b.BarberID]; ok {
				cp.Barber = *barber
			}
			return &cp, nil
		}
	}
	return nil, httperr.NotFound("booking_not_found")
}

func (r *fakeRepo) GetBookingForBarber(_ context.Context, bookingID, barberID uint) (*models.Booking, error) {
	return r.find(func(b *models.Booking) bool { return b.ID == bookingID && b.BarberID == barberID })
}

func (r *fakeRepo) GetBookingForClient(_ context.Context, bookingID, clientID uint) (*models.Booking, error) {
	return r.find(func(b *models.Booking) bool {
		return b.ID == bookingID && b.ClientID != nil && *b.ClientID == clientID
	})
}

func (r *fakeRepo) ListBookingsForPeriod(_ context.Context, barberID uint, from, to time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lo, hi := from.Format(domain.DateLayout), to.Format(domain.DateLayout)
	var out []models.Booking
	for _, b := range r.bookings {
		d := time.Time(b.AppointmentDate).Format(domain.DateLayout)
		if b.BarberID == barberID && d >= lo && d < hi {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *fakeRepo) ListBookingsForClient(_ context.Context, clientID uint, filter domain.ClientFilter, today time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day := today.Format(domain.DateLayout)
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ClientID == nil || *b.ClientID != clientID {
			continue
		}
		d := time.Time(b.AppointmentDate).Format(domain.DateLayout)
		upcoming := d >= day && b.Status == string(domain.StatusConfirmed)
		switch filter {
		case domain.FilterUpcoming:
			if !upcoming {
				continue
			}
		case domain.FilterPast:
			if upcoming {
				continue
			}
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeRepo) ListBookingsStartingBetween(_ context.Context, from, to time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == string(domain.StatusConfirmed) && b.ReminderSentAt == nil &&
			!b.StartsAt.Before(from) && b.StartsAt.Before(to) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) MarkReminderSent(_ context.Context, id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			b.ReminderSentAt = &at
			return nil
		}
	}
	return httperr.NotFound("booking_not_found")
}

// seed adds one barber (Nairobi, Mon 09:00-11:00) with a 30 and a 60 minute
// service.
func (r *fakeRepo) seed() {
	r.barbers[1] = &models.Barber{ID: 1, Name: "Otieno", ShopName: "Kinyozi", Timezone: "Africa/Nairobi"}
	r.hours[1] = domain.WorkingHoursSchedule{
		"monday": {Enabled: true, Start: "09:00", End: "11:00"},
		"sunday": {Enabled: false, Start: "10:00", End: "12:00"},
	}
	r.services[10] = &models.Service{ID: 10, BarberID: 1, Name: "Cut", DurationMinutes: 30, Price: 500}
	r.services[11] = &models.Service{ID: 11, BarberID: 1, Name: "Cut & beard", DurationMinutes: 60, Price: 900}
}

func (r *fakeRepo) addBooking(barberID uint, clientID *uint, date, hm string, minutes int, status domain.Status) *models.Booking {
	d, _ := time.Parse(domain.DateLayout, date)
	loc, _ := time.LoadLocation("Africa/Nairobi")
	start, _ := time.ParseInLocation("2006-01-02 15:04", date+" "+hm, loc)
	b := &models.Booking{
		BarberID:        barberID,
		ClientID:        clientID,
		ClientName:      "Seeded",
		AppointmentDate: datatypes.Date(d),
		AppointmentTime: hm,
		DurationMinutes: minutes,
		StartsAt:        start,
		EndsAt:          start.Add(time.Duration(minutes) * time.Minute),
		Status:          string(status),
	}
	_ = r.CreateBooking(context.Background(), b)
	return b
}

// recordingCache mirrors the generation scheme of the redis cache: entries
// are keyed by the barber's generation and Invalidate bumps it.
type recordingCache struct {
	mu          sync.Mutex
	gens        map[uint]int64
	store       map[string]*domain.Availability
	invalidated []uint
}

func newRecordingCache() *recordingCache {
	return &recordingCache{gens: map[uint]int64{}, store: map[string]*domain.Availability{}}
}

func cacheKey(barberID, serviceID uint, date string, gen int64) string {
	return fmt.Sprintf("%d/%d/%s/%d", barberID, serviceID, date, gen)
}

func (c *recordingCache) Get(_ context.Context, barberID, serviceID uint, date string) (*domain.Availability, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gens[barberID]
	a, ok := c.store[cacheKey(barberID, serviceID, date, gen)]
	return a, gen, ok
}

func (c *recordingCache) Set(_ context.Context, barberID, serviceID uint, date string, gen int64, a *domain.Availability) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[cacheKey(barberID, serviceID, date, gen)] = a
}

func (c *recordingCache) Invalidate(_ context.Context, barberID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, barberID)
	c.gens[barberID]++
}

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []models.Booking
	cancelled []models.Booking
}

func (n *recordingNotifier) BookingConfirmed(b models.Booking, _ models.Barber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, b)
}

func (n *recordingNotifier) BookingCancelled(b models.Booking, _ models.Barber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, b)
}

// fixedNow returns a clock frozen at the given Nairobi wall time.
func fixedNow(date, hm string) func() time.Time {
	loc, _ := time.LoadLocation("Africa/Nairobi")
	t, _ := time.ParseInLocation("2006-01-02 15:04", date+" "+hm, loc)
	return func() time.Time { return t }
}
