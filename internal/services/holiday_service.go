package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/repositories"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

/*
HolidayService answers "is this date a public holiday?" for the vacation
day counters and keeps the registry populated. Lookups only ever match
stored rows; recurrence and statutory expansion happen ahead of time so
a missing expansion shows up as a data problem, not a silent behavior
change.
*/
type HolidayService struct {
	holidayRepo repositories.PublicHolidayRepository
}

func NewHolidayService(holidayRepo repositories.PublicHolidayRepository) *HolidayService {
	return &HolidayService{holidayRepo: holidayRepo}
}

func (s *HolidayService) IsHoliday(ctx context.Context, date time.Time, locationID *uuid.UUID) (bool, error) {
	return s.holidayRepo.IsHoliday(ctx, utils.DateOnly(date), locationID)
}

// CheckerForRange preloads the holidays overlapping [start, end] and
// returns an in-memory checker, so day counting does one query instead
// of one per day.
func (s *HolidayService) CheckerForRange(
	ctx context.Context,
	start, end time.Time,
	locationID *uuid.UUID,
) (utils.HolidayChecker, error) {
	holidays, err := s.holidayRepo.ListBetween(ctx, utils.DateOnly(start), utils.DateOnly(end), locationID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		byDate[h.Date.Format("2006-01-02")] = struct{}{}
	}
	return func(t time.Time) bool {
		_, ok := byDate[utils.DateOnly(t).Format("2006-01-02")]
		return ok
	}, nil
}

func (s *HolidayService) ListForYear(ctx context.Context, year int, locationID *uuid.UUID) ([]*models.PublicHoliday, error) {
	return s.holidayRepo.ListForYear(ctx, year, locationID)
}

// SeedStatutoryHolidays stores the nationwide German holiday set for the
// given year. Idempotent: existing (date, location) rows are left alone.
func (s *HolidayService) SeedStatutoryHolidays(ctx context.Context, year int) (int, error) {
	created := 0
	for _, sh := range utils.StatutoryHolidaysForYear(year) {
		row := &models.PublicHoliday{
			ID:           uuid.New(),
			Date:         sh.Date,
			Name:         sh.Name,
			IsNationwide: true,
		}
		if err := s.holidayRepo.CreateIfNotExists(ctx, row); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// SeedRegionalHolidays stores the state-level German holidays for the
// given year, scoped to one location. Idempotent like the statutory
// seeder; lookups without that location never see these rows.
func (s *HolidayService) SeedRegionalHolidays(ctx context.Context, year int, locationID uuid.UUID) (int, error) {
	created := 0
	for _, rh := range utils.RegionalHolidaysForYear(year) {
		locID := locationID
		row := &models.PublicHoliday{
			ID:           uuid.New(),
			Date:         rh.Date,
			Name:         rh.Name,
			LocationID:   &locID,
			IsNationwide: false,
		}
		if err := s.holidayRepo.CreateIfNotExists(ctx, row); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// ExpandRecurringHolidays materializes every recurring holiday pattern
// into a concrete row for the given year.
func (s *HolidayService) ExpandRecurringHolidays(ctx context.Context, year int) (int, error) {
	recurring, err := s.holidayRepo.ListRecurring(ctx)
	if err != nil {
		return 0, err
	}

	expanded := 0
	for _, h := range recurring {
		next := h.NextOccurrence(year)
		if next == nil {
			continue
		}
		if err := s.holidayRepo.CreateIfNotExists(ctx, next); err != nil {
			return expanded, err
		}
		expanded++
	}
	return expanded, nil
}
