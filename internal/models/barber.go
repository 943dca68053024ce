package models

import (
	"time"

	"gorm.io/datatypes"
)

type Barber struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name           string `gorm:"size:100;not null" json:"name"`
	ShopName       string `gorm:"size:100" json:"shop_name"`
	Email          string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash   string `gorm:"size:255;not null" json:"-"`
	Phone          string `gorm:"size:20" json:"phone"`
	Bio            string `gorm:"type:text" json:"bio"`
	Specialization string `gorm:"size:100" json:"specialization"`

	Address string `gorm:"size:255" json:"shop_address"`
	City    string `gorm:"size:100;index" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	ZipCode string `gorm:"size:20" json:"zip_code"`

	AvatarURL string `gorm:"size:255" json:"avatar_url"`
	Timezone  string `gorm:"size:64" json:"timezone"`

	// nil until the barber saves hours from the settings page
	WorkingHours datatypes.JSON `gorm:"type:jsonb" json:"working_hours"`

	AverageRating float64 `gorm:"default:0" json:"average_rating"`
	ReviewCount   int     `gorm:"default:0" json:"review_count"`

	Services []Service `json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
