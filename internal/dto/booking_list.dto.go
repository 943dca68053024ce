package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/notify"
)

type BookingListDTO struct {
	ID              uint      `json:"id"`
	Reference       uuid.UUID `json:"reference"`
	Date            string    `json:"appointment_date"`
	Time            string    `json:"appointment_time"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	ServiceName     string    `json:"service_name"`
	Price           float64   `json:"price"`
	Notes           string    `json:"notes,omitempty"`

	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone,omitempty"`
	ClientEmail string `json:"client_email,omitempty"`

	BarberID   uint   `json:"barber_id"`
	BarberName string `json:"barber_name,omitempty"`
	ShopName   string `json:"shop_name,omitempty"`

	Contact notify.ContactLinks `json:"contact"`
}

// FromBooking flattens b for list views. Contact links point at the other
// party: the client for barber views, the barber for client views.
func FromBooking(b models.Booking, forClient bool) BookingListDTO {
	out := BookingListDTO{
		ID:              b.ID,
		Reference:       b.Reference,
		Date:            time.Time(b.AppointmentDate).Format("2006-01-02"),
		Time:            b.AppointmentTime,
		StartsAt:        b.StartsAt,
		EndsAt:          b.EndsAt,
		DurationMinutes: b.DurationMinutes,
		Status:          b.Status,
		ServiceName:     b.ServiceName,
		Price:           b.Price,
		Notes:           b.Notes,
		ClientName:      b.ClientName,
		ClientPhone:     b.ClientPhone,
		ClientEmail:     b.ClientEmail,
		BarberID:        b.BarberID,
		BarberName:      b.Barber.Name,
		ShopName:        b.Barber.ShopName,
	}

	if forClient {
		out.Contact = notify.LinksFor(b.Barber.Phone, b.Barber.ShopName)
	} else {
		out.Contact = notify.LinksFor(b.ClientPhone, "")
	}
	return out
}

func FromBookings(list []models.Booking, forClient bool) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(list))
	for _, b := range list {
		out = append(out, FromBooking(b, forClient))
	}
	return out
}
