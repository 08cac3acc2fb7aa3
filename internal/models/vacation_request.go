package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/utils"
)

type VacationStatusType string

const (
	VacationStatusPending   VacationStatusType = "PENDING"
	VacationStatusApproved  VacationStatusType = "APPROVED"
	VacationStatusDenied    VacationStatusType = "DENIED"
	VacationStatusCancelled VacationStatusType = "CANCELLED"
)

type RequestTypeType string

const (
	RequestTypeAnnualLeave      RequestTypeType = "ANNUAL_LEAVE"
	RequestTypeSickLeave        RequestTypeType = "SICK_LEAVE"
	RequestTypeUnpaidLeave      RequestTypeType = "UNPAID_LEAVE"
	RequestTypeParentalLeave    RequestTypeType = "PARENTAL_LEAVE"
	RequestTypeBereavementLeave RequestTypeType = "BEREAVEMENT_LEAVE"
	RequestTypeOther            RequestTypeType = "OTHER"
)

/*
   VacationRequest carries an inclusive [StartDate, EndDate] range.
   VacationDays and TotalDays are derived counters recomputed on every
   save (RecomputeDayCounts); callers never set them directly.
*/
type VacationRequest struct {
	Versioned

	ID         uuid.UUID `json:"id"`
	EmployeeID uuid.UUID `json:"employee_id"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	VacationDays int `json:"vacation_days"` // workable days, excludes weekends/holidays
	TotalDays    int `json:"total_days"`    // raw calendar days inclusive

	RequestType RequestTypeType `json:"request_type"`
	Reason      string          `json:"reason,omitempty"`
	Notes       string          `json:"notes,omitempty"` // visible to managers only

	Status VacationStatusType `json:"status"`

	ApprovedByID *uuid.UUID `json:"approved_by_id,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`

	DeniedByID   *uuid.UUID `json:"denied_by_id,omitempty"`
	DeniedAt     *time.Time `json:"denied_at,omitempty"`
	DenialReason string     `json:"denial_reason,omitempty"`

	CancelledByID      *uuid.UUID `json:"cancelled_by_id,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (vr *VacationRequest) GetID() string {
	return vr.ID.String()
}

// RecomputeDayCounts derives VacationDays and TotalDays from the date
// range; holiday scoping follows the employee's current location.
func (vr *VacationRequest) RecomputeDayCounts(isHoliday utils.HolidayChecker) {
	vr.VacationDays = utils.WorkableDays(vr.StartDate, vr.EndDate, isHoliday)
	vr.TotalDays = utils.TotalDays(vr.StartDate, vr.EndDate)
}

// Overlaps reports inclusive date-range overlap with another request.
func (vr *VacationRequest) Overlaps(other *VacationRequest) bool {
	return !vr.StartDate.After(other.EndDate) && !vr.EndDate.Before(other.StartDate)
}

func (vr *VacationRequest) IsPending() bool   { return vr.Status == VacationStatusPending }
func (vr *VacationRequest) IsApproved() bool  { return vr.Status == VacationStatusApproved }
func (vr *VacationRequest) IsDenied() bool    { return vr.Status == VacationStatusDenied }
func (vr *VacationRequest) IsCancelled() bool { return vr.Status == VacationStatusCancelled }

func (vr *VacationRequest) IsInPast(today time.Time) bool {
	return vr.EndDate.Before(utils.DateOnly(today))
}

func (vr *VacationRequest) IsCurrent(today time.Time) bool {
	d := utils.DateOnly(today)
	return !vr.StartDate.After(d) && !vr.EndDate.Before(d)
}

// IsModifiable: only future pending requests can be edited.
func (vr *VacationRequest) IsModifiable(today time.Time) bool {
	return vr.IsPending() && vr.StartDate.After(utils.DateOnly(today))
}

// IsCancellable: pending or approved, and not already over.
func (vr *VacationRequest) IsCancellable(today time.Time) bool {
	if vr.Status != VacationStatusPending && vr.Status != VacationStatusApproved {
		return false
	}
	return !vr.IsInPast(today)
}

func (vr *VacationRequest) DaysUntilStart(today time.Time) int {
	return int(utils.DateOnly(vr.StartDate).Sub(utils.DateOnly(today)).Hours() / 24)
}
