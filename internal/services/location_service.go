package services

import (
	"context"

	"github.com/bradfitz/latlong"
	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/dtos"
	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/repositories"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

// LocationService manages the care facilities. The IANA time zone is
// looked up from the coordinates once at write time; schedule stamping
// and quiet-hour math read the stored zone.
type LocationService struct {
	locRepo repositories.LocationRepository
}

func NewLocationService(locRepo repositories.LocationRepository) *LocationService {
	return &LocationService{locRepo: locRepo}
}

func (s *LocationService) Create(ctx context.Context, payload dtos.CreateLocationRequest) (*models.Location, error) {
	tz := latlong.LookupZoneName(payload.Latitude, payload.Longitude)
	if tz == "" {
		utils.Logger.Warnf("No time zone found for (%f, %f), falling back to UTC", payload.Latitude, payload.Longitude)
		tz = "UTC"
	}

	loc := &models.Location{
		ID:          uuid.New(),
		Name:        payload.Name,
		Address:     payload.Address,
		City:        payload.City,
		PostalCode:  payload.PostalCode,
		Country:     payload.Country,
		Phone:       payload.Phone,
		Email:       payload.Email,
		MaxCapacity: payload.MaxCapacity,
		ManagerID:   payload.ManagerID,
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
		TimeZone:    tz,
		IsActive:    true,
	}
	if err := s.locRepo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *LocationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	return s.locRepo.GetByID(ctx, id)
}

func (s *LocationService) ListActive(ctx context.Context) ([]*models.Location, error) {
	return s.locRepo.ListActive(ctx)
}
