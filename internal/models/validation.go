package models

import "strings"

/*
   Validation violations are the user-facing half of the error taxonomy:
   always a list of field-scoped messages, never a raw error string.
   Illegal state transitions and integrity conflicts use sentinel errors
   instead (internal/utils).
*/

// FieldError scopes one human-readable violation to one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every violated rule; rules are evaluated
// independently, not fail-fast.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// HasField reports whether any violation is scoped to the given field.
func (v ValidationErrors) HasField(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}
