package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/models"
)

// CreateLocationRequest registers a care facility. The IANA time zone is
// derived from the coordinates server-side.
type CreateLocationRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Address    string `json:"address" validate:"required,max=500"`
	City       string `json:"city" validate:"required,max=128"`
	PostalCode string `json:"postal_code" validate:"required,max=16"`
	Country    string `json:"country" validate:"required,max=64"`

	Phone string `json:"phone,omitempty" validate:"max=32"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`

	MaxCapacity int        `json:"max_capacity" validate:"min=0"`
	ManagerID   *uuid.UUID `json:"manager_id,omitempty"`

	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

type LocationDTO struct {
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
	TimeZone  string  `json:"time_zone"`

	IsActive bool `json:"is_active"`

	RowVersion int64     `json:"row_version"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToLocationDTO(l *models.Location) LocationDTO {
	return LocationDTO{
		ID:          l.ID,
		Name:        l.Name,
		Address:     l.Address,
		City:        l.City,
		PostalCode:  l.PostalCode,
		Country:     l.Country,
		Phone:       l.Phone,
		Email:       l.Email,
		MaxCapacity: l.MaxCapacity,
		ManagerID:   l.ManagerID,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		TimeZone:    l.TimeZone,
		IsActive:    l.IsActive,
		RowVersion:  l.RowVersion,
		CreatedAt:   l.CreatedAt,
	}
}

func ToLocationDTOs(ls []*models.Location) []LocationDTO {
	out := make([]LocationDTO, 0, len(ls))
	for _, l := range ls {
		out = append(out, ToLocationDTO(l))
	}
	return out
}

// PublicHolidayDTO is the read shape for the holiday registry.
type PublicHolidayDTO struct {
	ID           uuid.UUID  `json:"id"`
	Date         string     `json:"date"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	LocationID   *uuid.UUID `json:"location_id,omitempty"`
	IsNationwide bool       `json:"is_nationwide"`
	IsRecurring  bool       `json:"is_recurring"`
}

func ToPublicHolidayDTO(h *models.PublicHoliday) PublicHolidayDTO {
	return PublicHolidayDTO{
		ID:           h.ID,
		Date:         h.Date.Format("2006-01-02"),
		Name:         h.Name,
		Description:  h.Description,
		LocationID:   h.LocationID,
		IsNationwide: h.IsNationwide,
		IsRecurring:  h.IsRecurring,
	}
}

func ToPublicHolidayDTOs(hs []*models.PublicHoliday) []PublicHolidayDTO {
	out := make([]PublicHolidayDTO, 0, len(hs))
	for _, h := range hs {
		out = append(out, ToPublicHolidayDTO(h))
	}
	return out
}
