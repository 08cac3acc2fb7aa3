package services

import (
	"context"
	"time"

	"github.com/JuliusDeane-data/careplan/internal/constants"
	"github.com/JuliusDeane-data/careplan/internal/repositories"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

/*
ScheduleMaintenanceService is the nightly housekeeping pass wired to the
cron scheduler:

  - stamp active shift templates into draft shifts for the next week,
    evaluated in each location's local date
  - re-derive certification statuses
  - keep next year's holiday rows materialized ahead of time

Each step is idempotent, so a re-run after a crash only fills gaps.
*/
type ScheduleMaintenanceService struct {
	templateRepo repositories.ShiftTemplateRepository
	shiftRepo    repositories.ShiftRepository
	locRepo      repositories.LocationRepository
	certs        *CertificationService
	holidays     *HolidayService
}

func NewScheduleMaintenanceService(
	templateRepo repositories.ShiftTemplateRepository,
	shiftRepo repositories.ShiftRepository,
	locRepo repositories.LocationRepository,
	certs *CertificationService,
	holidays *HolidayService,
) *ScheduleMaintenanceService {
	return &ScheduleMaintenanceService{
		templateRepo: templateRepo,
		shiftRepo:    shiftRepo,
		locRepo:      locRepo,
		certs:        certs,
		holidays:     holidays,
	}
}

// RunDailyMaintenance is the cron entry point.
func (s *ScheduleMaintenanceService) RunDailyMaintenance(ctx context.Context) {
	if stamped, err := s.StampTemplateShifts(ctx); err != nil {
		utils.Logger.WithError(err).Error("Template stamping failed")
	} else {
		utils.Logger.Infof("Template stamping done, %d shifts created", stamped)
	}

	if changed, err := s.certs.SweepStatuses(ctx); err != nil {
		utils.Logger.WithError(err).Error("Certification status sweep failed")
	} else {
		utils.Logger.Infof("Certification status sweep done, %d rows changed", changed)
	}

	if err := s.EnsureUpcomingHolidays(ctx); err != nil {
		utils.Logger.WithError(err).Error("Holiday expansion failed")
	}
}

// StampTemplateShifts creates draft shifts from every active template
// for the next DaysToStampAhead days. "Today" is the location's local
// date, so a template at a facility ahead of UTC stamps its Monday
// shift on the right calendar day.
func (s *ScheduleMaintenanceService) StampTemplateShifts(ctx context.Context) (int, error) {
	locations, err := s.locRepo.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	now := time.Now()
	for _, loc := range locations {
		localNow := now
		if loc.TimeZone != "" {
			if tz, tzErr := time.LoadLocation(loc.TimeZone); tzErr == nil {
				localNow = now.In(tz)
			} else {
				utils.Logger.WithError(tzErr).Warnf("Unknown time zone %q for location %s, using UTC", loc.TimeZone, loc.ID)
			}
		}
		localToday := utils.DateOnly(localNow)

		templates, err := s.templateRepo.ListActiveByLocation(ctx, loc.ID)
		if err != nil {
			return created, err
		}
		if len(templates) == 0 {
			continue
		}

		for offset := 0; offset <= constants.DaysToStampAhead; offset++ {
			date := localToday.AddDate(0, 0, offset)
			for _, tmpl := range templates {
				if tmpl.DayOfWeek != date.Weekday() {
					continue
				}
				shift := tmpl.CreateShift(date)
				if err := s.shiftRepo.CreateIfNotExists(ctx, shift); err != nil {
					return created, err
				}
				created++
			}
		}
	}
	return created, nil
}

// EnsureUpcomingHolidays keeps the registry stocked: the current year is
// always materialized, and the next year is added once the calendar is
// within HolidayExpansionLeadDays of the year end.
func (s *ScheduleMaintenanceService) EnsureUpcomingHolidays(ctx context.Context) error {
	today := utils.DateOnly(time.Now().UTC())
	years := []int{today.Year()}

	yearEnd := time.Date(today.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	if int(yearEnd.Sub(today).Hours()/24) <= constants.HolidayExpansionLeadDays {
		years = append(years, today.Year()+1)
	}

	for _, year := range years {
		if _, err := s.holidays.SeedStatutoryHolidays(ctx, year); err != nil {
			return err
		}
		if _, err := s.holidays.ExpandRecurringHolidays(ctx, year); err != nil {
			return err
		}
	}
	return nil
}
