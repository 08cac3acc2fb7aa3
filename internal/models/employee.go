package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type EmployeeRoleType string

const (
	EmployeeRoleEmployee EmployeeRoleType = "EMPLOYEE"
	EmployeeRoleManager  EmployeeRoleType = "MANAGER"
	EmployeeRoleAdmin    EmployeeRoleType = "ADMIN"
)

type EmploymentStatusType string

const (
	EmploymentStatusActive     EmploymentStatusType = "ACTIVE"
	EmploymentStatusOnLeave    EmploymentStatusType = "ON_LEAVE"
	EmploymentStatusTerminated EmploymentStatusType = "TERMINATED"
)

type Employee struct {
	Versioned

	ID         uuid.UUID        `json:"id"`
	EmployeeID string           `json:"employee_id"` // Human-facing identifier, e.g. EMP001
	Role       EmployeeRoleType `json:"role"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`

	HireDate         *time.Time           `json:"hire_date,omitempty"`
	EmploymentStatus EmploymentStatusType `json:"employment_status"`
	JobTitle         string               `json:"job_title,omitempty"`

	PrimaryLocationID *uuid.UUID `json:"primary_location_id,omitempty"`
	SupervisorID      *uuid.UUID `json:"supervisor_id,omitempty"`

	AnnualVacationDays    int `json:"annual_vacation_days"`
	RemainingVacationDays int `json:"remaining_vacation_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Employee) GetID() string {
	return e.ID.String()
}

func (e *Employee) FullName() string {
	full := strings.TrimSpace(e.FirstName + " " + e.LastName)
	if full == "" {
		return e.EmployeeID
	}
	return full
}

// YearsOfService counts full years since the hire date as of the given
// day. An employee with no hire date counts as 0 years.
func (e *Employee) YearsOfService(today time.Time) int {
	if e.HireDate == nil {
		return 0
	}
	hd := *e.HireDate
	years := today.Year() - hd.Year()
	if today.Month() < hd.Month() ||
		(today.Month() == hd.Month() && today.Day() < hd.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func (e *Employee) IsActiveEmployee() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}
