package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/models"
)

/*
CreateVacationRequestRequest is the payload for POST /api/v1/vacation-requests.
Dates are calendar dates in "YYYY-MM-DD" form; the range is inclusive.
*/
type CreateVacationRequestRequest struct {
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
	RequestType string `json:"request_type" validate:"required,oneof=ANNUAL_LEAVE SICK_LEAVE UNPAID_LEAVE PARENTAL_LEAVE BEREAVEMENT_LEAVE OTHER"`
	Reason      string `json:"reason,omitempty" validate:"max=2000"`
	Notes       string `json:"notes,omitempty" validate:"max=2000"`
}

// VacationDecisionRequest covers approve / deny / cancel actions. The
// row version the client last saw guards against lost updates.
type VacationDecisionRequest struct {
	RequestID  uuid.UUID `json:"request_id" validate:"required"`
	RowVersion int64     `json:"row_version" validate:"required,min=1"`
	Reason     string    `json:"reason,omitempty" validate:"max=2000"`
}

type VacationRequestDTO struct {
	ID         uuid.UUID `json:"id"`
	EmployeeID uuid.UUID `json:"employee_id"`

	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	VacationDays int    `json:"vacation_days"`
	TotalDays    int    `json:"total_days"`

	RequestType string `json:"request_type"`
	Reason      string `json:"reason,omitempty"`
	Notes       string `json:"notes,omitempty"`

	Status string `json:"status"`

	ApprovedByID *uuid.UUID `json:"approved_by_id,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`

	DeniedByID   *uuid.UUID `json:"denied_by_id,omitempty"`
	DeniedAt     *time.Time `json:"denied_at,omitempty"`
	DenialReason string     `json:"denial_reason,omitempty"`

	CancelledByID      *uuid.UUID `json:"cancelled_by_id,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`

	IsCancellable bool `json:"is_cancellable"`

	RowVersion int64     `json:"row_version"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToVacationRequestDTO(vr *models.VacationRequest, today time.Time) VacationRequestDTO {
	return VacationRequestDTO{
		ID:                 vr.ID,
		EmployeeID:         vr.EmployeeID,
		StartDate:          vr.StartDate.Format("2006-01-02"),
		EndDate:            vr.EndDate.Format("2006-01-02"),
		VacationDays:       vr.VacationDays,
		TotalDays:          vr.TotalDays,
		RequestType:        string(vr.RequestType),
		Reason:             vr.Reason,
		Notes:              vr.Notes,
		Status:             string(vr.Status),
		ApprovedByID:       vr.ApprovedByID,
		ApprovedAt:         vr.ApprovedAt,
		DeniedByID:         vr.DeniedByID,
		DeniedAt:           vr.DeniedAt,
		DenialReason:       vr.DenialReason,
		CancelledByID:      vr.CancelledByID,
		CancelledAt:        vr.CancelledAt,
		CancellationReason: vr.CancellationReason,
		IsCancellable:      vr.IsCancellable(today),
		RowVersion:         vr.RowVersion,
		CreatedAt:          vr.CreatedAt,
	}
}

func ToVacationRequestDTOs(reqs []*models.VacationRequest, today time.Time) []VacationRequestDTO {
	out := make([]VacationRequestDTO, 0, len(reqs))
	for _, vr := range reqs {
		out = append(out, ToVacationRequestDTO(vr, today))
	}
	return out
}

// VacationBalanceDTO summarizes an employee's annual-leave ledger.
type VacationBalanceDTO struct {
	EmployeeID            uuid.UUID `json:"employee_id"`
	AnnualVacationDays    int       `json:"annual_vacation_days"`
	RemainingVacationDays int       `json:"remaining_vacation_days"`
	PendingDays           int       `json:"pending_days"`
	UsedDays              int       `json:"used_days"`
}
