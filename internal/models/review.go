package models

import "time"

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID  uint `gorm:"index;not null" json:"barber_id"`
	ClientID  uint `gorm:"index;not null" json:"client_id"`
	BookingID uint `gorm:"uniqueIndex;not null" json:"booking_id"`

	Client Client `json:"client,omitempty"`
	Barber Barber `json:"barber,omitempty"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}
