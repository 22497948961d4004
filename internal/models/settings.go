package models

import "time"

// LocationSettings is the process-wide perimeter configuration.
// Only one row ever exists.
type LocationSettings struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`

	Perimeter    float64 `gorm:"not null" json:"perimeter"` // km
	LocationName string  `gorm:"not null" json:"locationName"`
	Latitude     float64 `gorm:"not null" json:"latitude"`
	Longitude    float64 `gorm:"not null" json:"longitude"`
}

// DefaultLocationSettings returns the settings used when none are stored
func DefaultLocationSettings() LocationSettings {
	return LocationSettings{
		Perimeter:    2,
		LocationName: "Main Hospital",
		Latitude:     51.505,
		Longitude:    -0.09,
	}
}
