package models

import (
	"time"

	"github.com/google/uuid"
)

type Location struct {
	Versioned

	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`

	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`

	MaxCapacity int        `json:"max_capacity"`
	ManagerID   *uuid.UUID `json:"manager_id,omitempty"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// IANA zone derived from lat/lng at create/update time
	TimeZone string `json:"time_zone"`

	IsActive bool `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *Location) GetID() string {
	return l.ID.String()
}
