package models

import "time"

type Favorite struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `gorm:"uniqueIndex:idx_favorites_client_barber;not null" json:"client_id"`
	BarberID uint   `gorm:"uniqueIndex:idx_favorites_client_barber;not null" json:"barber_id"`
	Barber   Barber `json:"barber,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
