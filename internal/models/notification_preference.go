package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPreference controls which notifications an employee
// receives and over which channels. One row per employee.
type NotificationPreference struct {
	Versioned

	ID         uuid.UUID `json:"id"`
	EmployeeID uuid.UUID `json:"employee_id"`

	EmailEnabled bool `json:"email_enabled"`
	PushEnabled  bool `json:"push_enabled"`

	VacationRequestSubmitted bool `json:"vacation_request_submitted"`
	VacationRequestApproved  bool `json:"vacation_request_approved"`
	VacationRequestDenied    bool `json:"vacation_request_denied"`
	VacationRequestModified  bool `json:"vacation_request_modified"`
	VacationRequestCancelled bool `json:"vacation_request_cancelled"`
	ShiftAssigned            bool `json:"shift_assigned"`
	ShiftModified            bool `json:"shift_modified"`
	ProfileUpdated           bool `json:"profile_updated"`
	SystemMessage            bool `json:"system_message"`

	QuietHoursEnabled bool      `json:"quiet_hours_enabled"`
	QuietHoursStart   time.Time `json:"quiet_hours_start"` // time-of-day
	QuietHoursEnd     time.Time `json:"quiet_hours_end"`   // may span midnight

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (np *NotificationPreference) GetID() string {
	return np.ID.String()
}

// DefaultNotificationPreference enables everything, no quiet hours.
func DefaultNotificationPreference(employeeID uuid.UUID) *NotificationPreference {
	return &NotificationPreference{
		ID:                       uuid.New(),
		EmployeeID:               employeeID,
		EmailEnabled:             true,
		PushEnabled:              true,
		VacationRequestSubmitted: true,
		VacationRequestApproved:  true,
		VacationRequestDenied:    true,
		VacationRequestModified:  true,
		VacationRequestCancelled: true,
		ShiftAssigned:            true,
		ShiftModified:            true,
		ProfileUpdated:           true,
		SystemMessage:            true,
	}
}

// ShouldNotify checks the per-type toggle for a notification type.
// Unknown types default to true so new types are not silently dropped.
func (np *NotificationPreference) ShouldNotify(t NotificationTypeType) bool {
	switch t {
	case NotificationVacationRequestSubmitted:
		return np.VacationRequestSubmitted
	case NotificationVacationRequestApproved:
		return np.VacationRequestApproved
	case NotificationVacationRequestDenied:
		return np.VacationRequestDenied
	case NotificationVacationRequestModified:
		return np.VacationRequestModified
	case NotificationVacationRequestCancelled:
		return np.VacationRequestCancelled
	case NotificationShiftAssigned:
		return np.ShiftAssigned
	case NotificationShiftModified:
		return np.ShiftModified
	case NotificationProfileUpdated:
		return np.ProfileUpdated
	case NotificationSystemMessage:
		return np.SystemMessage
	default:
		return true
	}
}

// IsInQuietHours reports whether the given wall-clock time falls in the
// configured quiet window. A window with start after end spans midnight
// (e.g. 22:00-07:00).
func (np *NotificationPreference) IsInQuietHours(now time.Time) bool {
	if !np.QuietHoursEnabled {
		return false
	}

	minutes := func(t time.Time) int { return t.Hour()*60 + t.Minute() }
	cur := minutes(now)
	start := minutes(np.QuietHoursStart)
	end := minutes(np.QuietHoursEnd)

	if start <= end {
		return cur >= start && cur < end
	}
	// spans midnight
	return cur >= start || cur < end
}
