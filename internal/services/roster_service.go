package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/constants"
	"github.com/JuliusDeane-data/careplan/internal/dtos"
	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/repositories"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

/*
RosterService guards every shift assignment with the working-time and
staffing rules:

  - no duplicate assignment to the same shift
  - at least 11 hours of rest since the most recent prior shift
  - no more than 4 consecutive night shifts
  - a valid BLS certification for clinical roles
  - 5+ years of service for charge nurses
  - resulting skill mix within the RN/CNA ratio bounds

Same-day overlaps with other assignments are advisory: they come back
as a conflict list next to the created assignment, and the scheduler
decides whether to act on them. All rules are evaluated against
SCHEDULED and CONFIRMED assignments; cancelled and no-show assignments
never constrain anyone. ON_CALL shifts are standby rather than worked
time, so they never enter the rest computation.
*/
type RosterService struct {
	shiftRepo  repositories.ShiftRepository
	assignRepo repositories.ShiftAssignmentRepository
	empRepo    repositories.EmployeeRepository
	qualRepo   repositories.EmployeeQualificationRepository
	notifier   *NotificationService
}

func NewRosterService(
	shiftRepo repositories.ShiftRepository,
	assignRepo repositories.ShiftAssignmentRepository,
	empRepo repositories.EmployeeRepository,
	qualRepo repositories.EmployeeQualificationRepository,
	notifier *NotificationService,
) *RosterService {
	return &RosterService{
		shiftRepo:  shiftRepo,
		assignRepo: assignRepo,
		empRepo:    empRepo,
		qualRepo:   qualRepo,
		notifier:   notifier,
	}
}

// activeStatuses are the assignment states that constrain scheduling.
var activeStatuses = []models.AssignmentStatusType{
	models.AssignmentStatusScheduled,
	models.AssignmentStatusConfirmed,
}

// AssignEmployee validates and creates one assignment. Rule violations
// come back as ValidationErrors with a nil assignment; advisory
// conflicts accompany a successful assignment.
func (s *RosterService) AssignEmployee(
	ctx context.Context,
	assignerID uuid.UUID,
	shiftID uuid.UUID,
	payload dtos.AssignEmployeeRequest,
) (*models.ShiftAssignment, []dtos.AssignmentConflictDTO, models.ValidationErrors, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, nil, nil, err
	}
	if shift == nil {
		return nil, nil, nil, utils.ErrNotFound
	}

	emp, err := s.empRepo.GetByID(ctx, payload.EmployeeID)
	if err != nil {
		return nil, nil, nil, err
	}
	if emp == nil {
		return nil, nil, nil, utils.ErrNotFound
	}
	if !emp.IsActiveEmployee() {
		return nil, nil, nil, utils.ErrEmployeeNotActive
	}

	role := models.AssignmentRoleType(payload.Role)

	violations, conflicts, err := s.validateAssignment(ctx, shift, emp, role, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(violations) > 0 {
		return nil, nil, violations, nil
	}

	assignment := &models.ShiftAssignment{
		ID:           uuid.New(),
		ShiftID:      shift.ID,
		EmployeeID:   emp.ID,
		Role:         role,
		Status:       models.AssignmentStatusScheduled,
		AssignedByID: &assignerID,
		AssignedAt:   time.Now().UTC(),
		Notes:        payload.Notes,
	}
	if err := s.assignRepo.CreateAtomic(ctx, assignment); err != nil {
		if err == repositories.ErrDuplicateAssignment {
			return nil, nil, models.ValidationErrors{{
				Field:   "employee_id",
				Message: "Employee is already assigned to this shift",
			}}, nil
		}
		return nil, nil, nil, err
	}

	if s.notifier != nil {
		kind := models.EntityKindShiftAssignment
		if _, nerr := s.notifier.Dispatch(ctx, emp.ID, models.NotificationShiftAssigned,
			"New shift assignment",
			fmt.Sprintf("You have been assigned a %s shift on %s (%s-%s)",
				shift.ShiftType, shift.Date.Format("2006-01-02"),
				shift.StartTime.Format("15:04"), shift.EndTime.Format("15:04")),
			&kind, &assignment.ID, "/shifts/"+shift.ID.String()); nerr != nil {
			utils.Logger.WithError(nerr).Warnf("Failed to deliver assignment notification for shift %s", shift.ID)
		}
	}

	return assignment, conflicts, nil, nil
}

// ValidateAssignment runs the rule set without persisting anything, for
// dry-run what-if checks from the scheduling UI.
func (s *RosterService) ValidateAssignment(
	ctx context.Context,
	shiftID, employeeID uuid.UUID,
	role models.AssignmentRoleType,
) (models.ValidationErrors, []dtos.AssignmentConflictDTO, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, nil, err
	}
	if shift == nil {
		return nil, nil, utils.ErrNotFound
	}
	emp, err := s.empRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	if emp == nil {
		return nil, nil, utils.ErrNotFound
	}
	return s.validateAssignment(ctx, shift, emp, role, nil)
}

func (s *RosterService) validateAssignment(
	ctx context.Context,
	shift *models.Shift,
	emp *models.Employee,
	role models.AssignmentRoleType,
	excludeID *uuid.UUID,
) (models.ValidationErrors, []dtos.AssignmentConflictDTO, error) {
	var violations models.ValidationErrors
	today := utils.DateOnly(time.Now().UTC())

	// Duplicate assignment
	exists, err := s.assignRepo.ExistsForShiftAndEmployee(ctx, shift.ID, emp.ID, excludeID)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		violations = append(violations, models.FieldError{
			Field:   "employee_id",
			Message: "Employee is already assigned to this shift",
		})
	}

	// Role-specific qualification rules
	if roleRequiresBLS(role) {
		cert, err := s.qualRepo.GetByEmployeeAndCode(ctx, emp.ID, constants.QualificationCodeBLS)
		if err != nil {
			return nil, nil, err
		}
		if cert == nil || !cert.UsableForAssignment() {
			violations = append(violations, models.FieldError{
				Field:   "role",
				Message: fmt.Sprintf("Employee lacks a valid %s certification", constants.QualificationCodeBLS),
			})
		}
	}
	if role == models.AssignmentRoleChargeNurse {
		years := emp.YearsOfService(today)
		if years < constants.MinChargeNurseYearsOfService {
			violations = append(violations, models.FieldError{
				Field: "role",
				Message: fmt.Sprintf(
					"Charge nurse requires at least %d years of service (employee has %d)",
					constants.MinChargeNurseYearsOfService, years,
				),
			})
		}
	}

	// Load the surrounding schedule once; overlap, rest and night-run
	// checks all read from this window.
	windowStart := utils.DateOnly(shift.Date).AddDate(0, 0, -constants.ConsecutiveNightsWindowDays)
	windowEnd := utils.DateOnly(shift.Date).AddDate(0, 0, constants.ConsecutiveNightsWindowDays)
	neighbors, err := s.assignRepo.ListForEmployeeBetweenDates(ctx, emp.ID, windowStart, windowEnd, activeStatuses)
	if err != nil {
		return nil, nil, err
	}

	overlapViolations, conflicts := s.checkOverlapAndRest(shift, neighbors, excludeID)
	violations = append(violations, overlapViolations...)

	if shift.ShiftType == models.ShiftTypeNight {
		if v := s.checkConsecutiveNights(shift, neighbors, excludeID); v != nil {
			violations = append(violations, *v)
		}
	}

	// Skill mix with the candidate included. On-call shifts carry no
	// working roster, so the ratio bounds do not apply to them.
	if shift.ShiftType != models.ShiftTypeOnCall {
		mixViolation, err := s.checkSkillMix(ctx, shift, role)
		if err != nil {
			return nil, nil, err
		}
		if mixViolation != nil {
			violations = append(violations, *mixViolation)
		}
	}

	return violations, conflicts, nil
}

func roleRequiresBLS(role models.AssignmentRoleType) bool {
	switch role {
	case models.AssignmentRoleNurse, models.AssignmentRoleChargeNurse, models.AssignmentRoleCNA:
		return true
	default:
		return false
	}
}

// checkOverlapAndRest reports every intersecting assignment as an
// advisory conflict and checks the minimum rest gap against the most
// recent prior shift. ON_CALL shifts on either side still surface as
// conflicts but are standby time, so they never count toward rest.
func (s *RosterService) checkOverlapAndRest(
	candidate *models.Shift,
	neighbors []*models.ShiftAssignment,
	excludeID *uuid.UUID,
) (models.ValidationErrors, []dtos.AssignmentConflictDTO) {
	var violations models.ValidationErrors
	var conflicts []dtos.AssignmentConflictDTO

	candStart := candidate.StartDateTime()

	var latestPriorEnd time.Time
	for _, a := range neighbors {
		if a.Shift == nil || a.Shift.ID == candidate.ID {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}

		otherStart := a.Shift.StartDateTime()
		otherEnd := a.Shift.EndDateTime()

		if candStart.Before(otherEnd) && otherStart.Before(candidate.EndDateTime()) {
			message := fmt.Sprintf(
				"Overlaps with an existing shift on %s (%s-%s)",
				a.Shift.Date.Format("2006-01-02"),
				a.Shift.StartTime.Format("15:04"), a.Shift.EndTime.Format("15:04"),
			)
			if a.Shift.ShiftType == models.ShiftTypeOnCall || candidate.ShiftType == models.ShiftTypeOnCall {
				message = "Overlaps with an on-call assignment"
			}
			conflicts = append(conflicts, dtos.AssignmentConflictDTO{
				ShiftID:   a.Shift.ID,
				Date:      a.Shift.Date.Format("2006-01-02"),
				ShiftType: string(a.Shift.ShiftType),
				StartTime: a.Shift.StartTime.Format("15:04"),
				EndTime:   a.Shift.EndTime.Format("15:04"),
				Message:   message,
			})
			continue
		}

		if a.Shift.ShiftType == models.ShiftTypeOnCall || candidate.ShiftType == models.ShiftTypeOnCall {
			continue
		}
		if !otherEnd.After(candStart) && otherEnd.After(latestPriorEnd) {
			latestPriorEnd = otherEnd
		}
	}

	// Rest period, boundary inclusive: exactly 11.0 hours passes.
	if !latestPriorEnd.IsZero() {
		gap := candStart.Sub(latestPriorEnd).Hours()
		if gap < constants.MinRestPeriodHours {
			violations = append(violations, models.FieldError{
				Field: "employee_id",
				Message: fmt.Sprintf(
					"Only %.1f hours of rest after the shift ending %s (minimum is %.1f hours)",
					gap, latestPriorEnd.Format("2006-01-02 15:04"), constants.MinRestPeriodHours,
				),
			})
		}
	}
	return violations, conflicts
}

// checkConsecutiveNights counts the unbroken run of night shifts the
// candidate would join: consecutive nights immediately before, the
// candidate itself, and consecutive nights immediately after.
func (s *RosterService) checkConsecutiveNights(
	candidate *models.Shift,
	neighbors []*models.ShiftAssignment,
	excludeID *uuid.UUID,
) *models.FieldError {
	nightDates := make(map[string]bool)
	for _, a := range neighbors {
		if a.Shift == nil || a.Shift.ShiftType != models.ShiftTypeNight || a.Shift.ID == candidate.ID {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		nightDates[utils.DateOnly(a.Shift.Date).Format("2006-01-02")] = true
	}

	date := utils.DateOnly(candidate.Date)
	run := 1
	for d := date.AddDate(0, 0, -1); nightDates[d.Format("2006-01-02")]; d = d.AddDate(0, 0, -1) {
		run++
	}
	for d := date.AddDate(0, 0, 1); nightDates[d.Format("2006-01-02")]; d = d.AddDate(0, 0, 1) {
		run++
	}

	if run > constants.MaxConsecutiveNights {
		return &models.FieldError{
			Field: "employee_id",
			Message: fmt.Sprintf(
				"Assignment would create %d consecutive night shifts (maximum is %d)",
				run, constants.MaxConsecutiveNights,
			),
		}
	}
	return nil
}

// checkSkillMix simulates the roster with the candidate added and
// applies the ratio bounds.
func (s *RosterService) checkSkillMix(
	ctx context.Context,
	shift *models.Shift,
	role models.AssignmentRoleType,
) (*models.FieldError, error) {
	existing, err := s.assignRepo.ListByShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	projected := models.Shift{
		RequiredStaffCount: shift.RequiredStaffCount,
		RequiredRNCount:    shift.RequiredRNCount,
	}
	projected.Assignments = append(projected.Assignments, existing...)
	projected.Assignments = append(projected.Assignments, &models.ShiftAssignment{
		Role:   role,
		Status: models.AssignmentStatusScheduled,
	})
	return projected.SkillMixViolation(), nil
}

// UpdateAssignmentStatus transitions an assignment through its lifecycle
// (confirm, cancel, no-show) under optimistic locking.
func (s *RosterService) UpdateAssignmentStatus(
	ctx context.Context,
	assignmentID uuid.UUID,
	newStatus models.AssignmentStatusType,
	notes string,
) (*models.ShiftAssignment, error) {
	err := repositories.WithRetry(
		ctx,
		3,
		assignmentID.String(),
		s.assignRepo.GetByIDString,
		s.assignRepo.UpdateStatusIfVersion,
		func(a *models.ShiftAssignment) error {
			if !validAssignmentTransition(a.Status, newStatus) {
				return utils.ErrWrongStatus
			}
			a.Status = newStatus
			if notes != "" {
				a.Notes = notes
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return s.assignRepo.GetByID(ctx, assignmentID)
}

func validAssignmentTransition(from, to models.AssignmentStatusType) bool {
	switch from {
	case models.AssignmentStatusScheduled:
		return to == models.AssignmentStatusConfirmed ||
			to == models.AssignmentStatusCancelled ||
			to == models.AssignmentStatusNoShow
	case models.AssignmentStatusConfirmed:
		return to == models.AssignmentStatusCancelled || to == models.AssignmentStatusNoShow
	default:
		return false
	}
}
