package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is the point a clock event was recorded at
type Location struct {
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`
	Address   *string `json:"address"` // passthrough, never geocoded here
}

// ClockEvent is an immutable clock-in or clock-out record
type ClockEvent struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"-"`

	Time     time.Time `gorm:"not null" json:"time"`
	Location Location  `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Note     *string   `json:"note"`
}

// BeforeCreate assigns a UUID when the caller did not
func (e *ClockEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// ClockPair represents one shift: a clock-in and, once closed, a clock-out
type ClockPair struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	WorkerID   uint      `gorm:"not null;index" json:"workerId"`
	Date       time.Time `gorm:"not null;index" json:"date"`
	ClockInID  string    `gorm:"not null;type:varchar(36)" json:"-"`
	ClockOutID *string   `gorm:"type:varchar(36)" json:"-"`
	Duration   int       `gorm:"not null;default:0" json:"duration"` // minutes, 0 while open
	ClockSkew  bool      `gorm:"not null;default:false" json:"clockSkew"`

	// Relationships
	Worker   Worker      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	ClockIn  ClockEvent  `gorm:"foreignKey:ClockInID" json:"clockIn"`
	ClockOut *ClockEvent `gorm:"foreignKey:ClockOutID" json:"clockOut"`
}

// BeforeCreate assigns a UUID when the caller did not
func (p *ClockPair) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsOpen reports whether the shift is still in progress
func (p *ClockPair) IsOpen() bool {
	return p.ClockOutID == nil
}
