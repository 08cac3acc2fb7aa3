package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/JuliusDeane-data/careplan/internal/dtos"
	"github.com/JuliusDeane-data/careplan/internal/middleware"
	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/services"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

type VacationController struct {
	vacationService *services.VacationService
}

func NewVacationController(vs *services.VacationService) *VacationController {
	return &VacationController{vacationService: vs}
}

// ----------------------------------------------------------------
// POST /api/v1/vacation-requests
// ----------------------------------------------------------------
func (c *VacationController) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.CreateVacationRequestRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, violations, err := c.vacationService.Submit(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if len(violations) > 0 {
		respondValidation(w, violations)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ToVacationRequestDTO(created, time.Now().UTC()))
}

// ----------------------------------------------------------------
// GET /api/v1/vacation-requests/my?status=PENDING,APPROVED
// ----------------------------------------------------------------
func (c *VacationController) ListMyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	statuses := parseVacationStatuses(r.URL.Query().Get("status"))
	reqs, err := c.vacationService.ListForEmployee(r.Context(), userID, statuses)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToVacationRequestDTOs(reqs, time.Now().UTC()))
}

// ----------------------------------------------------------------
// GET /api/v1/vacation-requests/pending
// ----------------------------------------------------------------
func (c *VacationController) ListPendingHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	reqs, err := c.vacationService.ListPendingForApprover(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToVacationRequestDTOs(reqs, time.Now().UTC()))
}

// ----------------------------------------------------------------
// GET /api/v1/vacation-requests/balance
// ----------------------------------------------------------------
func (c *VacationController) BalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	balance, err := c.vacationService.Balance(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, balance)
}

// ----------------------------------------------------------------
// GET /api/v1/vacation-requests/{id}
// ----------------------------------------------------------------
func (c *VacationController) GetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(mux.Vars(r), "id")
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request ID", nil)
		return
	}

	req, err := c.vacationService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if req == nil {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Not found", nil)
		return
	}

	// Owners see their own requests; managers see everything.
	role := middleware.RoleFromContext(r.Context())
	if req.EmployeeID != userID && role == models.EmployeeRoleEmployee {
		utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeForbidden, "Not your request", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToVacationRequestDTO(req, time.Now().UTC()))
}

// ----------------------------------------------------------------
// POST /api/v1/vacation-requests/approve
// ----------------------------------------------------------------
func (c *VacationController) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.VacationDecisionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, violations, err := c.vacationService.Approve(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if len(violations) > 0 {
		respondValidation(w, violations)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToVacationRequestDTO(updated, time.Now().UTC()))
}

// ----------------------------------------------------------------
// POST /api/v1/vacation-requests/deny
// ----------------------------------------------------------------
func (c *VacationController) DenyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.VacationDecisionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, violations, err := c.vacationService.Deny(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if len(violations) > 0 {
		respondValidation(w, violations)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToVacationRequestDTO(updated, time.Now().UTC()))
}

// ----------------------------------------------------------------
// POST /api/v1/vacation-requests/cancel
// ----------------------------------------------------------------
func (c *VacationController) CancelHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.VacationDecisionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// Employees may cancel only their own requests.
	existing, err := c.vacationService.GetByID(r.Context(), req.RequestID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existing == nil {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Not found", nil)
		return
	}
	role := middleware.RoleFromContext(r.Context())
	if existing.EmployeeID != userID && role == models.EmployeeRoleEmployee {
		utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeForbidden, "Not your request", nil)
		return
	}

	updated, err := c.vacationService.Cancel(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToVacationRequestDTO(updated, time.Now().UTC()))
}

func parseVacationStatuses(raw string) []models.VacationStatusType {
	if raw == "" {
		return nil
	}
	var out []models.VacationStatusType
	for _, s := range splitCSV(raw) {
		switch st := models.VacationStatusType(s); st {
		case models.VacationStatusPending, models.VacationStatusApproved,
			models.VacationStatusDenied, models.VacationStatusCancelled:
			out = append(out, st)
		}
	}
	return out
}
