package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/JuliusDeane-data/careplan/internal/middleware"
	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/repositories"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

var validate = validator.New()

// requireUserID pulls the authenticated employee UUID from the request
// context; responds 401 itself when absent or malformed.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
		)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid userID in context", nil, err,
		)
		return uuid.Nil, false
	}
	return id, true
}

// decodeAndValidate decodes the JSON body into dst and runs the
// validator tags; responds 400 itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err,
		)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), nil,
		)
		return false
	}
	return true
}

func pathUUID(vars map[string]string, key string) (uuid.UUID, error) {
	return uuid.Parse(vars[key])
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// respondValidation returns the collected rule violations as one 400
// with the field errors in the details.
func respondValidation(w http.ResponseWriter, violations models.ValidationErrors) {
	utils.RespondErrorWithCode(
		w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", violations,
	)
}

// handleServiceError translates domain sentinels into HTTP responses.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, utils.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Not found", nil)
	case errors.Is(err, utils.ErrWrongStatus):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeWrongStatus, "Invalid state for this operation", nil)
	case errors.Is(err, utils.ErrNotCancellable):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeNotCancellable, "Request can no longer be cancelled", nil)
	case errors.Is(err, utils.ErrRowVersionConflict):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeRowVersionConflict, "The record has changed, please refresh", nil)
	case errors.Is(err, utils.ErrEmployeeNotActive):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeConflict, "Employee is not active", nil)
	case errors.Is(err, repositories.ErrOverlappingRequest):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeConflict, "Overlaps with an existing request", nil)
	case errors.Is(err, repositories.ErrDuplicateAssignment):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeConflict, "Employee is already assigned to this shift", nil)
	case errors.Is(err, utils.ErrInvalidPayload):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil)
	default:
		utils.HandleAppError(w, err)
	}
}
