package utils

import (
	"errors"
	"net/http"
)

/*
   Sentinel errors for careplan domain logic.
   The controller can do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrWrongStatus    = errors.New("wrong_status")
	ErrNotCancellable = errors.New("not_cancellable")
	ErrNotFound       = errors.New("not_found")
	ErrNoRowsUpdated  = errors.New("no_rows_updated") // Can be used by repos

	ErrEmployeeNotActive = errors.New("employee_not_active")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	// For external service failures (e.g., SendGrid)
	ErrExternalServiceFailure = errors.New("external_service_failure")

	ErrInvalidPayload = errors.New("invalid_payload")
)

/*
   RowVersionConflictError is returned when there's a concurrency mismatch.
   It carries the latest row so the controller can return it to the
   client if desired.
*/
type RowVersionConflictError struct {
	Current any
}

func (e *RowVersionConflictError) Error() string {
	return "row_version_conflict"
}

func NewRowVersionConflictError(current any) error {
	return &RowVersionConflictError{Current: current}
}

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
