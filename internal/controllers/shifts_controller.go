package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/JuliusDeane-data/careplan/internal/dtos"
	"github.com/JuliusDeane-data/careplan/internal/middleware"
	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/services"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

type ShiftsController struct {
	shiftService  *services.ShiftService
	rosterService *services.RosterService
}

func NewShiftsController(ss *services.ShiftService, rs *services.RosterService) *ShiftsController {
	return &ShiftsController{shiftService: ss, rosterService: rs}
}

// ----------------------------------------------------------------
// POST /api/v1/shifts
// ----------------------------------------------------------------
func (c *ShiftsController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.CreateShiftRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	shift, violations, err := c.shiftService.Create(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if len(violations) > 0 {
		respondValidation(w, violations)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ToShiftDTO(shift))
}

// ----------------------------------------------------------------
// GET /api/v1/shifts/{id}
// ----------------------------------------------------------------
func (c *ShiftsController) GetHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	id, err := pathUUID(mux.Vars(r), "id")
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid shift ID", nil)
		return
	}

	shift, err := c.shiftService.GetWithAssignments(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if shift == nil {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Not found", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToShiftDTO(shift))
}

// ----------------------------------------------------------------
// GET /api/v1/shifts/schedule?location_id=...&start=...&end=...
// ----------------------------------------------------------------
func (c *ShiftsController) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	q := r.URL.Query()
	locationID, err := uuid.Parse(q.Get("location_id"))
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid location_id", nil)
		return
	}
	start, err := time.ParseInLocation("2006-01-02", q.Get("start"), time.UTC)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid start date", nil)
		return
	}
	end, err := time.ParseInLocation("2006-01-02", q.Get("end"), time.UTC)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid end date", nil)
		return
	}

	// Drafts are manager-only.
	role := middleware.RoleFromContext(r.Context())
	includeDrafts := role != models.EmployeeRoleEmployee

	shifts, err := c.shiftService.Schedule(r.Context(), locationID, start, end, includeDrafts)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToShiftDTOs(shifts))
}

// ----------------------------------------------------------------
// POST /api/v1/shifts/{id}/publish
// ----------------------------------------------------------------
func (c *ShiftsController) PublishHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	id, err := pathUUID(mux.Vars(r), "id")
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid shift ID", nil)
		return
	}
	if err := c.shiftService.Publish(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "published"})
}

// ----------------------------------------------------------------
// POST /api/v1/shifts/{id}/assignments
// ----------------------------------------------------------------
func (c *ShiftsController) AssignHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	shiftID, err := pathUUID(mux.Vars(r), "id")
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid shift ID", nil)
		return
	}

	var req dtos.AssignEmployeeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	assignment, conflicts, violations, err := c.rosterService.AssignEmployee(r.Context(), userID, shiftID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if len(violations) > 0 {
		respondValidation(w, violations)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.AssignEmployeeResponse{
		Assignment: dtos.ToShiftAssignmentDTO(assignment),
		Conflicts:  conflicts,
	})
}

// ----------------------------------------------------------------
// POST /api/v1/shifts/assignments/validate
// ----------------------------------------------------------------
// Dry-run: runs the full rule set without writing anything.
func (c *ShiftsController) ValidateAssignHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req struct {
		ShiftID    uuid.UUID `json:"shift_id" validate:"required"`
		EmployeeID uuid.UUID `json:"employee_id" validate:"required"`
		Role       string    `json:"role" validate:"required,oneof=NURSE CHARGE_NURSE CNA ON_CALL"`
	}
	if !decodeAndValidate(w, r, &req) {
		return
	}

	violations, conflicts, err := c.rosterService.ValidateAssignment(
		r.Context(), req.ShiftID, req.EmployeeID, models.AssignmentRoleType(req.Role),
	)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"valid":      len(violations) == 0,
		"violations": violations,
		"conflicts":  conflicts,
	})
}

// ----------------------------------------------------------------
// POST /api/v1/shifts/assignments/{id}/status
// ----------------------------------------------------------------
func (c *ShiftsController) AssignmentStatusHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	id, err := pathUUID(mux.Vars(r), "id")
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid assignment ID", nil)
		return
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=CONFIRMED CANCELLED NO_SHOW"`
		Notes  string `json:"notes,omitempty" validate:"max=2000"`
	}
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := c.rosterService.UpdateAssignmentStatus(
		r.Context(), id, models.AssignmentStatusType(req.Status), req.Notes,
	)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToShiftAssignmentDTO(updated))
}

// ----------------------------------------------------------------
// POST /api/v1/shift-templates
// ----------------------------------------------------------------
func (c *ShiftsController) CreateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name       string    `json:"name" validate:"required,max=255"`
		LocationID uuid.UUID `json:"location_id" validate:"required"`
		DayOfWeek  int       `json:"day_of_week" validate:"min=0,max=6"`
		ShiftType  string    `json:"shift_type" validate:"required,oneof=DAY NIGHT ON_CALL"`
		StartTime  string    `json:"start_time" validate:"required,datetime=15:04"`
		EndTime    string    `json:"end_time" validate:"required,datetime=15:04"`

		RequiredStaffCount  int  `json:"required_staff_count" validate:"min=0"`
		RequiredRNCount     int  `json:"required_rn_count" validate:"min=0"`
		RequiredChargeNurse bool `json:"required_charge_nurse"`
	}
	if !decodeAndValidate(w, r, &req) {
		return
	}

	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid start_time", nil)
		return
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid end_time", nil)
		return
	}

	tmpl := &models.ShiftTemplate{
		Name:                req.Name,
		LocationID:          req.LocationID,
		DayOfWeek:           time.Weekday(req.DayOfWeek),
		ShiftType:           models.ShiftTypeType(req.ShiftType),
		StartTime:           start,
		EndTime:             end,
		RequiredStaffCount:  req.RequiredStaffCount,
		RequiredRNCount:     req.RequiredRNCount,
		RequiredChargeNurse: req.RequiredChargeNurse,
	}
	violations, err := c.shiftService.CreateTemplate(r.Context(), userID, tmpl)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if len(violations) > 0 {
		respondValidation(w, violations)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, tmpl)
}

// ----------------------------------------------------------------
// GET /api/v1/shift-templates?location_id=...
// ----------------------------------------------------------------
func (c *ShiftsController) ListTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	locationID, err := uuid.Parse(r.URL.Query().Get("location_id"))
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid location_id", nil)
		return
	}

	templates, err := c.shiftService.ListTemplates(r.Context(), locationID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, templates)
}

// ----------------------------------------------------------------
// POST /api/v1/shift-templates/{id}/deactivate
// ----------------------------------------------------------------
func (c *ShiftsController) DeactivateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	id, err := pathUUID(mux.Vars(r), "id")
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid template ID", nil)
		return
	}
	if err := c.shiftService.DeactivateTemplate(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
