package utils

import (
	"time"
)

/*
   Date arithmetic for the scheduling engine.

   Staff work a 24/7/365 shift system: weekends and public holidays are
   regular working days, but vacation can only be taken on days that are
   neither. All vacation balances are therefore debited in "workable
   days" rather than calendar days.

   Every function here treats a date as midnight UTC; DateOnly normalizes.
*/

// HolidayChecker reports whether a given date is a public holiday. The
// holiday registry provides one scoped to a location; callers without
// holiday data can pass nil to skip the check.
type HolidayChecker func(t time.Time) bool

// DateOnly truncates t to midnight UTC, keeping the calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWeekend returns true iff t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// TotalDays counts the calendar days in [start, end] inclusive.
// Returns 0 if start is after end.
func TotalDays(start, end time.Time) int {
	start, end = DateOnly(start), DateOnly(end)
	if start.After(end) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// WorkableDays counts the days in [start, end] that are neither weekend
// nor public holiday. This is the sole authority for vacation-day
// counting. Returns 0 if start is after end.
func WorkableDays(start, end time.Time, isHoliday HolidayChecker) int {
	start, end = DateOnly(start), DateOnly(end)
	if start.After(end) {
		return 0
	}

	days := 0
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		if IsWeekend(cur) {
			continue
		}
		if isHoliday != nil && isHoliday(cur) {
			continue
		}
		days++
	}
	return days
}

// BusinessDaysAhead returns the date n weekdays after start, skipping
// Saturdays and Sundays. Counting begins on the day after start, so a
// Friday plus one business day lands on Monday.
func BusinessDaysAhead(start time.Time, n int) time.Time {
	cur := DateOnly(start)
	added := 0
	for added < n {
		cur = cur.AddDate(0, 0, 1)
		if !IsWeekend(cur) {
			added++
		}
	}
	return cur
}

// DateRange returns every date in [start, end] inclusive, or an empty
// slice if start is after end.
func DateRange(start, end time.Time) []time.Time {
	start, end = DateOnly(start), DateOnly(end)
	var dates []time.Time
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		dates = append(dates, cur)
	}
	return dates
}

// MonthDateRange returns the first and last day of the given month.
func MonthDateRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}
