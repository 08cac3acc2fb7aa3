package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/JuliusDeane-data/careplan/internal/dtos"
	"github.com/JuliusDeane-data/careplan/internal/services"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

type NotificationsController struct {
	notificationService *services.NotificationService
}

func NewNotificationsController(ns *services.NotificationService) *NotificationsController {
	return &NotificationsController{notificationService: ns}
}

// ----------------------------------------------------------------
// GET /api/v1/notifications?unread_only=true&limit=50
// ----------------------------------------------------------------
func (c *NotificationsController) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	unreadOnly := q.Get("unread_only") == "true"
	limit := 50
	if rawLimit := q.Get("limit"); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	notifications, unread, err := c.notificationService.ListForRecipient(r.Context(), userID, unreadOnly, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NotificationListResponse{
		Results:     dtos.ToNotificationDTOs(notifications),
		UnreadCount: unread,
	})
}

// ----------------------------------------------------------------
// POST /api/v1/notifications/{id}/read
// ----------------------------------------------------------------
func (c *NotificationsController) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(mux.Vars(r), "id")
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid notification ID", nil)
		return
	}
	if err := c.notificationService.MarkAsRead(r.Context(), id, userID); err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// ----------------------------------------------------------------
// POST /api/v1/notifications/read-all
// ----------------------------------------------------------------
func (c *NotificationsController) MarkAllReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	count, err := c.notificationService.MarkAllAsRead(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"marked_read": count})
}

// ----------------------------------------------------------------
// GET /api/v1/notifications/preferences
// ----------------------------------------------------------------
func (c *NotificationsController) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	pref, err := c.notificationService.GetPreference(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToNotificationPreferenceDTO(pref))
}

// ----------------------------------------------------------------
// PUT /api/v1/notifications/preferences
// ----------------------------------------------------------------
func (c *NotificationsController) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.UpdateNotificationPreferenceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pref, err := c.notificationService.GetPreference(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	pref.EmailEnabled = req.EmailEnabled
	pref.PushEnabled = req.PushEnabled
	pref.VacationRequestSubmitted = req.VacationRequestSubmitted
	pref.VacationRequestApproved = req.VacationRequestApproved
	pref.VacationRequestDenied = req.VacationRequestDenied
	pref.VacationRequestModified = req.VacationRequestModified
	pref.VacationRequestCancelled = req.VacationRequestCancelled
	pref.ShiftAssigned = req.ShiftAssigned
	pref.ShiftModified = req.ShiftModified
	pref.ProfileUpdated = req.ProfileUpdated
	pref.SystemMessage = req.SystemMessage
	pref.QuietHoursEnabled = req.QuietHoursEnabled
	if req.QuietHoursStart != "" {
		start, err := time.Parse("15:04", req.QuietHoursStart)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid quiet_hours_start", nil)
			return
		}
		pref.QuietHoursStart = start
	}
	if req.QuietHoursEnd != "" {
		end, err := time.Parse("15:04", req.QuietHoursEnd)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid quiet_hours_end", nil)
			return
		}
		pref.QuietHoursEnd = end
	}

	if err := c.notificationService.SavePreference(r.Context(), pref); err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToNotificationPreferenceDTO(pref))
}
