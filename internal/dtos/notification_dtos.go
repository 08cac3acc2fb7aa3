package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/models"
)

type NotificationDTO struct {
	ID      uuid.UUID `json:"id"`
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`

	EntityKind *string    `json:"entity_kind,omitempty"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	ActionURL  string     `json:"action_url,omitempty"`

	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func ToNotificationDTO(n *models.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		EntityID:  n.EntityID,
		ActionURL: n.ActionURL,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if n.EntityKind != nil {
		s := string(*n.EntityKind)
		dto.EntityKind = &s
	}
	return dto
}

func ToNotificationDTOs(ns []*models.Notification) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(ns))
	for _, n := range ns {
		out = append(out, ToNotificationDTO(n))
	}
	return out
}

type NotificationListResponse struct {
	Results     []NotificationDTO `json:"results"`
	UnreadCount int               `json:"unread_count"`
}

// UpdateNotificationPreferenceRequest replaces the full preference row.
// Quiet hours are wall-clock "HH:MM"; a start after the end spans midnight.
type UpdateNotificationPreferenceRequest struct {
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

	QuietHoursEnabled bool   `json:"quiet_hours_enabled"`
	QuietHoursStart   string `json:"quiet_hours_start,omitempty" validate:"omitempty,datetime=15:04"`
	QuietHoursEnd     string `json:"quiet_hours_end,omitempty" validate:"omitempty,datetime=15:04"`
}

type NotificationPreferenceDTO struct {
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

	QuietHoursEnabled bool   `json:"quiet_hours_enabled"`
	QuietHoursStart   string `json:"quiet_hours_start"`
	QuietHoursEnd     string `json:"quiet_hours_end"`
}

func ToNotificationPreferenceDTO(p *models.NotificationPreference) NotificationPreferenceDTO {
	return NotificationPreferenceDTO{
		EmployeeID:               p.EmployeeID,
		EmailEnabled:             p.EmailEnabled,
		PushEnabled:              p.PushEnabled,
		VacationRequestSubmitted: p.VacationRequestSubmitted,
		VacationRequestApproved:  p.VacationRequestApproved,
		VacationRequestDenied:    p.VacationRequestDenied,
		VacationRequestModified:  p.VacationRequestModified,
		VacationRequestCancelled: p.VacationRequestCancelled,
		ShiftAssigned:            p.ShiftAssigned,
		ShiftModified:            p.ShiftModified,
		ProfileUpdated:           p.ProfileUpdated,
		SystemMessage:            p.SystemMessage,
		QuietHoursEnabled:        p.QuietHoursEnabled,
		QuietHoursStart:          p.QuietHoursStart.Format("15:04"),
		QuietHoursEnd:            p.QuietHoursEnd.Format("15:04"),
	}
}
