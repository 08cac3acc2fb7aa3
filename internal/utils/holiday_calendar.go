package utils

import (
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"
)

// create once at init
var deNational = cal.NewBusinessCalendar()

func init() {
	deNational.AddHoliday(
		de.Neujahr,
		de.Karfreitag,
		de.Ostermontag,
		de.TagderArbeit,
		de.ChristiHimmelfahrt,
		de.Pfingstmontag,
		de.DeutschenEinheit,
		de.Weihnachtstag,
		de.ZweiterWeihnachtsfeiertag,
	)
}

// IsGermanNationalHoliday reports whether t is one of the nationwide
// German public holidays.
func IsGermanNationalHoliday(t time.Time) bool {
	ok, _, _ := deNational.IsHoliday(t)
	return ok
}

// StatutoryHoliday is a concrete holiday occurrence for one year,
// as computed from the statutory calendar.
type StatutoryHoliday struct {
	Name string
	Date time.Time
}

// StatutoryHolidaysForYear expands the nationwide German holiday set
// into concrete dates for the given year. The holiday seeder stores
// these as rows; lookups never do recurrence math.
func StatutoryHolidaysForYear(year int) []StatutoryHoliday {
	national := []*cal.Holiday{
		de.Neujahr,
		de.Karfreitag,
		de.Ostermontag,
		de.TagderArbeit,
		de.ChristiHimmelfahrt,
		de.Pfingstmontag,
		de.DeutschenEinheit,
		de.Weihnachtstag,
		de.ZweiterWeihnachtsfeiertag,
	}

	out := make([]StatutoryHoliday, 0, len(national))
	for _, h := range national {
		actual, _ := h.Calc(year)
		out = append(out, StatutoryHoliday{
			Name: h.Name,
			Date: DateOnly(actual),
		})
	}
	return out
}

// RegionalHolidaysForYear expands the common regional German holidays
// (observed only in some states) for the given year. The seeder attaches
// these to specific locations rather than nationwide.
func RegionalHolidaysForYear(year int) []StatutoryHoliday {
	regional := []*cal.Holiday{
		de.HeiligeDreiKoenige,
		de.Fronleichnam,
		de.Allerheiligen,
		de.Reformationstag,
	}

	out := make([]StatutoryHoliday, 0, len(regional))
	for _, h := range regional {
		actual, _ := h.Calc(year)
		out = append(out, StatutoryHoliday{
			Name: h.Name,
			Date: DateOnly(actual),
		})
	}
	return out
}
