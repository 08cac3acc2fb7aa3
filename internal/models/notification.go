package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationTypeType string

const (
	NotificationVacationRequestSubmitted NotificationTypeType = "VACATION_REQUEST_SUBMITTED"
	NotificationVacationRequestApproved  NotificationTypeType = "VACATION_REQUEST_APPROVED"
	NotificationVacationRequestDenied    NotificationTypeType = "VACATION_REQUEST_DENIED"
	NotificationVacationRequestModified  NotificationTypeType = "VACATION_REQUEST_MODIFIED"
	NotificationVacationRequestCancelled NotificationTypeType = "VACATION_REQUEST_CANCELLED"
	NotificationShiftAssigned            NotificationTypeType = "SHIFT_ASSIGNED"
	NotificationShiftModified            NotificationTypeType = "SHIFT_MODIFIED"
	NotificationProfileUpdated           NotificationTypeType = "PROFILE_UPDATED"
	NotificationSystemMessage            NotificationTypeType = "SYSTEM_MESSAGE"
)

// EntityKindType tags the related-entity reference on a notification.
// The engine only ever links to vacation requests or shift assignments,
// so the reference is a discriminated (kind, id) pair rather than a
// free-form polymorphic link.
type EntityKindType string

const (
	EntityKindVacationRequest EntityKindType = "VACATION_REQUEST"
	EntityKindShiftAssignment EntityKindType = "SHIFT_ASSIGNMENT"
)

type Notification struct {
	Versioned

	ID          uuid.UUID            `json:"id"`
	RecipientID uuid.UUID            `json:"recipient_id"`
	Type        NotificationTypeType `json:"type"`

	Title   string `json:"title"`
	Message string `json:"message"`

	EntityKind *EntityKindType `json:"entity_kind,omitempty"`
	EntityID   *uuid.UUID      `json:"entity_id,omitempty"`

	ActionURL string `json:"action_url,omitempty"`

	IsRead bool       `json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *Notification) GetID() string {
	return n.ID.String()
}

func (n *Notification) MarkAsRead(now time.Time) {
	if !n.IsRead {
		n.IsRead = true
		n.ReadAt = &now
	}
}
