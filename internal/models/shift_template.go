package models

import (
	"time"

	"github.com/google/uuid"
)

// ShiftTemplate is a recurring weekly staffing pattern. The maintenance
// service stamps it into draft (unpublished) Shift rows; templates are
// never themselves validated by the assignment rules.
type ShiftTemplate struct {
	Versioned

	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	LocationID uuid.UUID `json:"location_id"`

	DayOfWeek time.Weekday  `json:"day_of_week"`
	ShiftType ShiftTypeType `json:"shift_type"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`

	RequiredStaffCount  int  `json:"required_staff_count"`
	RequiredRNCount     int  `json:"required_rn_count"`
	RequiredChargeNurse bool `json:"required_charge_nurse"`

	IsActive bool `json:"is_active"`

	CreatedByID *uuid.UUID `json:"created_by_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (st *ShiftTemplate) GetID() string {
	return st.ID.String()
}

// Validate applies the same staffing invariant as Shift.
func (st *ShiftTemplate) Validate() error {
	tmp := Shift{
		RequiredStaffCount: st.RequiredStaffCount,
		RequiredRNCount:    st.RequiredRNCount,
	}
	return tmp.Validate()
}

// CreateShift stamps out an unpublished Shift for the given date.
func (st *ShiftTemplate) CreateShift(date time.Time) *Shift {
	return &Shift{
		ID:                  uuid.New(),
		LocationID:          st.LocationID,
		ShiftType:           st.ShiftType,
		Date:                date,
		StartTime:           st.StartTime,
		EndTime:             st.EndTime,
		RequiredStaffCount:  st.RequiredStaffCount,
		RequiredRNCount:     st.RequiredRNCount,
		RequiredChargeNurse: st.RequiredChargeNurse,
		IsPublished:         false,
		CreatedByID:         st.CreatedByID,
	}
}
