package models

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/constants"
)

type ShiftTypeType string

const (
	ShiftTypeDay    ShiftTypeType = "DAY"
	ShiftTypeNight  ShiftTypeType = "NIGHT"
	ShiftTypeOnCall ShiftTypeType = "ON_CALL"
)

/*
   Shift is a staffing need on one date at one location. It owns its
   assignments (cascade on delete); the metric methods below are scoped
   to SCHEDULED assignments only - CONFIRMED is a separate business
   state and is deliberately not counted.
*/
type Shift struct {
	Versioned

	ID         uuid.UUID     `json:"id"`
	LocationID uuid.UUID     `json:"location_id"`
	ShiftType  ShiftTypeType `json:"shift_type"`

	Date      time.Time `json:"date"`
	StartTime time.Time `json:"start_time"` // time-of-day, date part ignored
	EndTime   time.Time `json:"end_time"`   // may wrap past midnight

	RequiredStaffCount   int  `json:"required_staff_count"`
	RequiredRNCount      int  `json:"required_rn_count"`
	RequiredChargeNurse  bool `json:"required_charge_nurse"`

	Notes       string `json:"notes,omitempty"`
	IsPublished bool   `json:"is_published"`

	CreatedByID *uuid.UUID `json:"created_by_id,omitempty"`

	Assignments []*ShiftAssignment `json:"assignments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Shift) GetID() string {
	return s.ID.String()
}

// Validate enforces the static staffing invariant before persistence.
func (s *Shift) Validate() error {
	if s.RequiredRNCount > s.RequiredStaffCount {
		return errors.New("required RN count cannot exceed total required staff count")
	}
	return nil
}

// StartDateTime anchors the start time-of-day on the shift date.
func (s *Shift) StartDateTime() time.Time {
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(),
		s.StartTime.Hour(), s.StartTime.Minute(), 0, 0, time.UTC)
}

// EndDateTime anchors the end time-of-day on the shift date, rolling to
// the next day when the shift wraps past midnight.
func (s *Shift) EndDateTime() time.Time {
	end := time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(),
		s.EndTime.Hour(), s.EndTime.Minute(), 0, 0, time.UTC)
	if !end.After(s.StartDateTime()) {
		end = end.AddDate(0, 0, 1)
	}
	return end
}

// DurationHours is always positive; overnight shifts are computed on a
// same-day-or-next-day timeline.
func (s *Shift) DurationHours() float64 {
	return s.EndDateTime().Sub(s.StartDateTime()).Hours()
}

func (s *Shift) AssignedCount() int {
	count := 0
	for _, a := range s.Assignments {
		if a.Status == AssignmentStatusScheduled {
			count++
		}
	}
	return count
}

// RNCount counts NURSE and CHARGE_NURSE roles among scheduled staff.
func (s *Shift) RNCount() int {
	count := 0
	for _, a := range s.Assignments {
		if a.Status == AssignmentStatusScheduled && a.IsRNTier() {
			count++
		}
	}
	return count
}

func (s *Shift) HasChargeNurse() bool {
	for _, a := range s.Assignments {
		if a.Status == AssignmentStatusScheduled && a.Role == AssignmentRoleChargeNurse {
			return true
		}
	}
	return false
}

func (s *Shift) IsFullyStaffed() bool {
	if s.AssignedCount() < s.RequiredStaffCount {
		return false
	}
	if s.RNCount() < s.RequiredRNCount {
		return false
	}
	if s.RequiredChargeNurse && !s.HasChargeNurse() {
		return false
	}
	return true
}

// CoveragePercentage may exceed 100 when overstaffed; a shift requiring
// no staff is always fully covered.
func (s *Shift) CoveragePercentage() int {
	if s.RequiredStaffCount == 0 {
		return 100
	}
	return int(math.Round(float64(s.AssignedCount()) / float64(s.RequiredStaffCount) * 100))
}

// SkillMixViolation describes a staffing-ratio breach; nil means the
// mix is acceptable. A shift with nobody scheduled is trivially valid.
func (s *Shift) SkillMixViolation() *FieldError {
	total := 0
	rn := 0
	cna := 0
	for _, a := range s.Assignments {
		if a.Status != AssignmentStatusScheduled {
			continue
		}
		total++
		if a.IsRNTier() {
			rn++
		}
		if a.Role == AssignmentRoleCNA {
			cna++
		}
	}
	if total == 0 {
		return nil
	}

	rnRatio := float64(rn) / float64(total)
	if rnRatio < constants.MinRNRatio {
		return &FieldError{
			Field:   "assignments",
			Message: fmtPercentMsg("RN ratio %.0f%% is below the required %.0f%%", rnRatio, constants.MinRNRatio),
		}
	}
	cnaRatio := float64(cna) / float64(total)
	if cnaRatio > constants.MaxCNARatio {
		return &FieldError{
			Field:   "assignments",
			Message: fmtPercentMsg("CNA ratio %.0f%% exceeds the allowed %.0f%%", cnaRatio, constants.MaxCNARatio),
		}
	}
	return nil
}
