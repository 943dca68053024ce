package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barberbook/internal/config"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/middleware"
	"github.com/BruksfildServices01/barberbook/internal/models"
	ucBooking "github.com/BruksfildServices01/barberbook/internal/usecase/booking"
)

// 2030-06-03 is a Monday.
const monday = "2030-06-03"

// memRepo implements the parts of domain.Repository the booking routes
// touch. Anything else panics through the nil embedded interface.
type memRepo struct {
	domain.Repository

	mu       sync.Mutex
	barber   models.Barber
	hours    domain.WorkingHoursSchedule
	service  models.Service
	bookings []models.Booking
}

func newMemRepo() *memRepo {
	return &memRepo{
		barber: models.Barber{ID: 1, Name: "Otieno", ShopName: "Kinyozi", Phone: "0712345678", Timezone: "Africa/Nairobi"},
		hours: domain.WorkingHoursSchedule{
			"monday": {Enabled: true, Start: "09:00", End: "10:30"},
			"sunday": {Enabled: false},
		},
		service: models.Service{ID: 10, BarberID: 1, Name: "Cut", DurationMinutes: 30, Price: 500},
	}
}

func (r *memRepo) RunInTx(_ context.Context, fn func(domain.Repository) error) error {
	return fn(r)
}

func (r *memRepo) GetBarber(_ context.Context, id uint) (*models.Barber, error) {
	if id != r.barber.ID {
		return nil, httperr.NotFound("barber_not_found")
	}
	b := r.barber
	return &b, nil
}

func (r *memRepo) LockBarber(context.Context, uint) error { return nil }

func (r *memRepo) GetWorkingHours(context.Context, uint) (domain.WorkingHoursSchedule, error) {
	return r.hours, nil
}

func (r *memRepo) GetService(_ context.Context, barberID, serviceID uint) (*models.Service, error) {
	if serviceID != r.service.ID || barberID != r.service.BarberID {
		return nil, httperr.NotFound("service_not_found")
	}
	s := r.service
	return &s, nil
}

func (r *memRepo) ListConfirmedBookings(_ context.Context, _ uint, date time.Time) ([]domain.BookedInterval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.BookedInterval
	for _, b := range r.bookings {
		if b.Status == string(domain.StatusConfirmed) &&
			time.Time(b.AppointmentDate).Format(domain.DateLayout) == date.Format(domain.DateLayout) {
			out = append(out, domain.BookedInterval{Time: b.AppointmentTime, DurationMinutes: b.DurationMinutes})
		}
	}
	return out, nil
}

func (r *memRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = uint(len(r.bookings) + 1)
	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *memRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID-1] = *b
	return nil
}

func (r *memRepo) GetBookingForClient(_ context.Context, bookingID, clientID uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == bookingID && b.ClientID != nil && *b.ClientID == clientID {
			b.Barber = r.barber
			return &b, nil
		}
	}
	return nil, httperr.NotFound("booking_not_found")
}

func (r *memRepo) seedBooking(hm string, clientID *uint) {
	d, _ := time.Parse(domain.DateLayout, monday)
	_ = r.CreateBooking(context.Background(), &models.Booking{
		BarberID:        1,
		ClientID:        clientID,
		ClientName:      "Seeded",
		AppointmentDate: datatypes.Date(d),
		AppointmentTime: hm,
		DurationMinutes: 30,
		StartsAt:        time.Date(2030, 6, 3, 9, 0, 0, 0, time.UTC),
		Status:          string(domain.StatusConfirmed),
	})
}

const testSecret = "test-secret"

func newBookingRouter(repo *memRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: testSecret}

	h := NewBookingHandler(
		ucBooking.NewGetAvailability(repo, nil),
		ucBooking.NewCreateBooking(repo, nil, nil, nil),
		ucBooking.NewCancelBooking(repo, nil, nil, nil),
		ucBooking.NewCompleteBooking(repo, nil),
		ucBooking.NewListBookings(repo),
	)

	r := gin.New()
	r.GET("/barbers/:id/availability", h.Availability)
	r.POST("/barbers/:id/bookings", middleware.OptionalAuth(cfg), h.Create)

	client := r.Group("/client", middleware.AuthMiddleware(cfg), middleware.RequireRole(middleware.RoleClient))
	client.PATCH("/bookings/:id/cancel", h.CancelByClient)
	return r
}

func do(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAvailabilityEndpoint(t *testing.T) {
	repo := newMemRepo()
	repo.seedBooking("09:30", nil)
	r := newBookingRouter(repo)

	w := do(r, http.MethodGet, "/barbers/1/availability?date="+monday+"&service_id=10", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[domain.Availability](t, w)
	assert.Equal(t, []string{"09:00", "10:00"}, got.Slots)
	assert.False(t, got.Closed)
	assert.Equal(t, 30, got.DurationMinutes)
}

func TestAvailabilityEndpointClosedDay(t *testing.T) {
	r := newBookingRouter(newMemRepo())

	w := do(r, http.MethodGet, "/barbers/1/availability?date=2030-06-02&service_id=10", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[domain.Availability](t, w)
	assert.True(t, got.Closed)
	assert.Equal(t, domain.ClosedDayOff, got.Reason)
	assert.Empty(t, got.Slots)
}

func TestAvailabilityEndpointErrors(t *testing.T) {
	r := newBookingRouter(newMemRepo())

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"bad date", "/barbers/1/availability?date=03-06-2030&service_id=10", http.StatusBadRequest, "invalid_date"},
		{"missing service", "/barbers/1/availability?date=" + monday, http.StatusBadRequest, "invalid_service_id"},
		{"unknown barber", "/barbers/9/availability?date=" + monday + "&service_id=10", http.StatusNotFound, "barber_not_found"},
		{"unknown service", "/barbers/1/availability?date=" + monday + "&service_id=99", http.StatusNotFound, "service_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, nil, "")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode[httperr.HTTPError](t, w).Code)
		})
	}
}

func bookingBody(hm string) CreateBookingRequest {
	return CreateBookingRequest{
		ServiceID:   10,
		ClientName:  "Amina",
		ClientPhone: "0722000111",
		Date:        monday,
		Time:        hm,
	}
}

func TestCreateBookingAsGuest(t *testing.T) {
	repo := newMemRepo()
	r := newBookingRouter(repo)

	w := do(r, http.MethodPost, "/barbers/1/bookings", bookingBody("09:00"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	got := decode[map[string]any](t, w)
	assert.Equal(t, "09:00", got["appointment_time"])
	assert.Equal(t, "confirmed", got["status"])
	assert.Equal(t, "Kinyozi", got["shop_name"])

	contact, ok := got["contact"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, contact["whatsapp"], "wa.me/254712345678")

	require.Len(t, repo.bookings, 1)
	assert.Nil(t, repo.bookings[0].ClientID)
}

func TestCreateBookingAttachesSignedInClient(t *testing.T) {
	repo := newMemRepo()
	r := newBookingRouter(repo)

	token, err := middleware.GenerateToken(testSecret, 42, middleware.RoleClient)
	require.NoError(t, err)

	w := do(r, http.MethodPost, "/barbers/1/bookings", bookingBody("09:30"), token)
	require.Equal(t, http.StatusCreated, w.Code)

	require.Len(t, repo.bookings, 1)
	require.NotNil(t, repo.bookings[0].ClientID)
	assert.Equal(t, uint(42), *repo.bookings[0].ClientID)
}

func TestCreateBookingIgnoresBarberToken(t *testing.T) {
	repo := newMemRepo()
	r := newBookingRouter(repo)

	token, err := middleware.GenerateToken(testSecret, 1, middleware.RoleBarber)
	require.NoError(t, err)

	w := do(r, http.MethodPost, "/barbers/1/bookings", bookingBody("09:30"), token)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, repo.bookings[0].ClientID)
}

func TestCreateBookingRejectsTakenSlot(t *testing.T) {
	repo := newMemRepo()
	repo.seedBooking("09:00", nil)
	r := newBookingRouter(repo)

	w := do(r, http.MethodPost, "/barbers/1/bookings", bookingBody("09:00"), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_unavailable", decode[httperr.HTTPError](t, w).Code)
	assert.Len(t, repo.bookings, 1)
}

func TestCreateBookingValidatesBody(t *testing.T) {
	r := newBookingRouter(newMemRepo())

	w := do(r, http.MethodPost, "/barbers/1/bookings", map[string]any{"client_name": "Amina"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := bookingBody("9h")
	w = do(r, http.MethodPost, "/barbers/1/bookings", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_time", decode[httperr.HTTPError](t, w).Code)
}

func TestClientCancelsOwnBooking(t *testing.T) {
	repo := newMemRepo()
	owner := uint(42)
	repo.seedBooking("09:00", &owner)
	r := newBookingRouter(repo)

	stranger, _ := middleware.GenerateToken(testSecret, 7, middleware.RoleClient)
	w := do(r, http.MethodPatch, "/client/bookings/1/cancel", nil, stranger)
	assert.Equal(t, http.StatusNotFound, w.Code)

	token, _ := middleware.GenerateToken(testSecret, owner, middleware.RoleClient)
	w = do(r, http.MethodPatch, "/client/bookings/1/cancel", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode[map[string]any](t, w)["status"])

	w = do(r, http.MethodPatch, "/client/bookings/1/cancel", nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid_state", decode[httperr.HTTPError](t, w).Code)
}

func TestClientRoutesRequireClientRole(t *testing.T) {
	r := newBookingRouter(newMemRepo())

	w := do(r, http.MethodPatch, "/client/bookings/1/cancel", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _ := middleware.GenerateToken(testSecret, 1, middleware.RoleBarber)
	w = do(r, http.MethodPatch, "/client/bookings/1/cancel", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
