package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AssignmentRoleType string

const (
	AssignmentRoleNurse       AssignmentRoleType = "NURSE"
	AssignmentRoleChargeNurse AssignmentRoleType = "CHARGE_NURSE"
	AssignmentRoleCNA         AssignmentRoleType = "CNA"
	AssignmentRoleOnCall      AssignmentRoleType = "ON_CALL"
)

type AssignmentStatusType string

const (
	AssignmentStatusScheduled AssignmentStatusType = "SCHEDULED"
	AssignmentStatusConfirmed AssignmentStatusType = "CONFIRMED"
	AssignmentStatusCancelled AssignmentStatusType = "CANCELLED"
	AssignmentStatusNoShow    AssignmentStatusType = "NO_SHOW"
)

// ShiftAssignment links one employee to one shift. At most one
// assignment may exist per (shift, employee); the database enforces the
// same rule as a unique-constraint backstop.
type ShiftAssignment struct {
	Versioned

	ID         uuid.UUID `json:"id"`
	ShiftID    uuid.UUID `json:"shift_id"`
	EmployeeID uuid.UUID `json:"employee_id"`

	Role   AssignmentRoleType   `json:"role"`
	Status AssignmentStatusType `json:"status"`

	AssignedByID *uuid.UUID `json:"assigned_by_id,omitempty"`
	AssignedAt   time.Time  `json:"assigned_at"`
	Notes        string     `json:"notes,omitempty"`

	// Loaded alongside the assignment for validator and DTO use
	Shift *Shift `json:"shift,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (sa *ShiftAssignment) GetID() string {
	return sa.ID.String()
}

func (sa *ShiftAssignment) IsRNTier() bool {
	return sa.Role == AssignmentRoleNurse || sa.Role == AssignmentRoleChargeNurse
}

func (sa *ShiftAssignment) CountsTowardSchedule() bool {
	return sa.Status == AssignmentStatusScheduled || sa.Status == AssignmentStatusConfirmed
}

// CalculateHours returns the worked hours this assignment represents;
// cancelled and no-show assignments contribute nothing.
func (sa *ShiftAssignment) CalculateHours() float64 {
	if !sa.CountsTowardSchedule() || sa.Shift == nil {
		return 0
	}
	return sa.Shift.DurationHours()
}

func fmtPercentMsg(format string, ratio, bound float64) string {
	return fmt.Sprintf(format, ratio*100, bound*100)
}
