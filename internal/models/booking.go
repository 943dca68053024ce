package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Booking struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"reference"`

	BarberID uint   `gorm:"index;not null" json:"barber_id"`
	Barber   Barber `json:"barber,omitempty"`

	ClientID *uint   `gorm:"index" json:"client_id"`
	Client   *Client `json:"client,omitempty"`

	ServiceID uint    `json:"service_id"`
	Service   Service `json:"service,omitempty"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientEmail string `gorm:"size:100" json:"client_email"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`

	AppointmentDate datatypes.Date `gorm:"type:date;index;not null" json:"appointment_date"`
	AppointmentTime string         `gorm:"size:5;not null" json:"appointment_time"`

	// snapshot of the service at booking time
	DurationMinutes int     `gorm:"not null" json:"duration_minutes"`
	ServiceName     string  `gorm:"size:100" json:"service_name"`
	Price           float64 `gorm:"type:decimal(10,2)" json:"price"`

	// barber-local instants derived from date + time
	StartsAt time.Time `gorm:"index" json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`

	Status string `gorm:"size:20;default:'confirmed';index" json:"status"`
	Notes  string `gorm:"size:255" json:"notes"`

	CancelledAt    *time.Time `json:"cancelled_at"`
	CancelledBy    string     `gorm:"size:20" json:"cancelled_by,omitempty"`
	CompletedAt    *time.Time `json:"completed_at"`
	ReminderSentAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
