package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/models"
)

/*
CreateShiftRequest is the payload for POST /api/v1/shifts. Times are
wall-clock "HH:MM"; an end at or before the start means the shift wraps
past midnight.
*/
type CreateShiftRequest struct {
	LocationID uuid.UUID `json:"location_id" validate:"required"`
	ShiftType  string    `json:"shift_type" validate:"required,oneof=DAY NIGHT ON_CALL"`
	Date       string    `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  string    `json:"start_time" validate:"required,datetime=15:04"`
	EndTime    string    `json:"end_time" validate:"required,datetime=15:04"`

	RequiredStaffCount  int  `json:"required_staff_count" validate:"min=0"`
	RequiredRNCount     int  `json:"required_rn_count" validate:"min=0"`
	RequiredChargeNurse bool `json:"required_charge_nurse"`

	Notes string `json:"notes,omitempty" validate:"max=2000"`
}

// AssignEmployeeRequest is the payload for POST /api/v1/shifts/{id}/assignments.
type AssignEmployeeRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" validate:"required"`
	Role       string    `json:"role" validate:"required,oneof=NURSE CHARGE_NURSE CNA ON_CALL"`
	Notes      string    `json:"notes,omitempty" validate:"max=2000"`
}

type ShiftAssignmentDTO struct {
	ID         uuid.UUID `json:"id"`
	ShiftID    uuid.UUID `json:"shift_id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	AssignedAt time.Time `json:"assigned_at"`
	Notes      string    `json:"notes,omitempty"`
	RowVersion int64     `json:"row_version"`
}

type ShiftDTO struct {
	ID         uuid.UUID `json:"id"`
	LocationID uuid.UUID `json:"location_id"`
	ShiftType  string    `json:"shift_type"`

	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	DurationHours float64 `json:"duration_hours"`

	RequiredStaffCount  int  `json:"required_staff_count"`
	RequiredRNCount     int  `json:"required_rn_count"`
	RequiredChargeNurse bool `json:"required_charge_nurse"`

	AssignedCount      int  `json:"assigned_count"`
	RNCount            int  `json:"rn_count"`
	HasChargeNurse     bool `json:"has_charge_nurse"`
	IsFullyStaffed     bool `json:"is_fully_staffed"`
	CoveragePercentage int  `json:"coverage_percentage"`

	Notes       string `json:"notes,omitempty"`
	IsPublished bool   `json:"is_published"`

	Assignments []ShiftAssignmentDTO `json:"assignments,omitempty"`

	RowVersion int64     `json:"row_version"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToShiftAssignmentDTO(a *models.ShiftAssignment) ShiftAssignmentDTO {
	return ShiftAssignmentDTO{
		ID:         a.ID,
		ShiftID:    a.ShiftID,
		EmployeeID: a.EmployeeID,
		Role:       string(a.Role),
		Status:     string(a.Status),
		AssignedAt: a.AssignedAt,
		Notes:      a.Notes,
		RowVersion: a.RowVersion,
	}
}

func ToShiftDTO(s *models.Shift) ShiftDTO {
	dto := ShiftDTO{
		ID:                  s.ID,
		LocationID:          s.LocationID,
		ShiftType:           string(s.ShiftType),
		Date:                s.Date.Format("2006-01-02"),
		StartTime:           s.StartTime.Format("15:04"),
		EndTime:             s.EndTime.Format("15:04"),
		DurationHours:       s.DurationHours(),
		RequiredStaffCount:  s.RequiredStaffCount,
		RequiredRNCount:     s.RequiredRNCount,
		RequiredChargeNurse: s.RequiredChargeNurse,
		AssignedCount:       s.AssignedCount(),
		RNCount:             s.RNCount(),
		HasChargeNurse:      s.HasChargeNurse(),
		IsFullyStaffed:      s.IsFullyStaffed(),
		CoveragePercentage:  s.CoveragePercentage(),
		Notes:               s.Notes,
		IsPublished:         s.IsPublished,
		RowVersion:          s.RowVersion,
		CreatedAt:           s.CreatedAt,
	}
	for _, a := range s.Assignments {
		dto.Assignments = append(dto.Assignments, ToShiftAssignmentDTO(a))
	}
	return dto
}

func ToShiftDTOs(shifts []*models.Shift) []ShiftDTO {
	out := make([]ShiftDTO, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, ToShiftDTO(s))
	}
	return out
}

// AssignmentConflictDTO is one advisory warning surfaced alongside a
// successful assignment (same-day overlaps that are legal but worth
// flagging to the scheduler).
type AssignmentConflictDTO struct {
	ShiftID   uuid.UUID `json:"shift_id"`
	Date      string    `json:"date"`
	ShiftType string    `json:"shift_type"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Message   string    `json:"message"`
}

// AssignEmployeeResponse returns the created assignment plus advisory
// conflicts; hard rule violations never reach this shape.
type AssignEmployeeResponse struct {
	Assignment ShiftAssignmentDTO      `json:"assignment"`
	Conflicts  []AssignmentConflictDTO `json:"conflicts,omitempty"`
}
