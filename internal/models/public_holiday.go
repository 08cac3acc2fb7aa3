package models

import (
	"time"

	"github.com/google/uuid"
)

/*
   PublicHoliday rows are always concrete dates. Recurring holidays
   carry the month/day pattern, and the maintenance service expands them
   into per-year rows ahead of time; lookups never do recurrence math.
*/
type PublicHoliday struct {
	Versioned

	ID          uuid.UUID `json:"id"`
	Date        time.Time `json:"date"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	// nil + IsNationwide=true means the holiday applies everywhere
	LocationID   *uuid.UUID `json:"location_id,omitempty"`
	IsNationwide bool       `json:"is_nationwide"`

	IsRecurring    bool `json:"is_recurring"`
	RecurringMonth *int `json:"recurring_month,omitempty"` // 1-12
	RecurringDay   *int `json:"recurring_day,omitempty"`   // 1-31

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *PublicHoliday) GetID() string {
	return h.ID.String()
}

// NextOccurrence builds the concrete row for a recurring holiday in the
// given year, or nil when the holiday is not recurring.
func (h *PublicHoliday) NextOccurrence(year int) *PublicHoliday {
	if !h.IsRecurring || h.RecurringMonth == nil || h.RecurringDay == nil {
		return nil
	}
	return &PublicHoliday{
		ID:             uuid.New(),
		Date:           time.Date(year, time.Month(*h.RecurringMonth), *h.RecurringDay, 0, 0, 0, 0, time.UTC),
		Name:           h.Name,
		Description:    h.Description,
		LocationID:     h.LocationID,
		IsNationwide:   h.IsNationwide,
		IsRecurring:    true,
		RecurringMonth: h.RecurringMonth,
		RecurringDay:   h.RecurringDay,
	}
}
