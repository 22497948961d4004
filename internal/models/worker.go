package models

import (
	"time"
)

// Role is the capability level of a worker
type Role string

const (
	RoleManager Role = "MANAGER"
	RoleWorker  Role = "WORKER"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleWorker
}

// Worker represents a member of staff who can clock in and out
type Worker struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Subject          string `gorm:"uniqueIndex;not null" json:"subject"` // identity provider subject
	Name             string `gorm:"not null" json:"name"`
	Email            string `json:"email"`
	Role             Role   `gorm:"type:varchar(20);not null;default:WORKER" json:"role"`
	CurrentlyClocked bool   `gorm:"not null;default:false" json:"currentlyClocked"`

	// Relationships
	ClockPairs []ClockPair `gorm:"foreignKey:WorkerID" json:"-"`
}
