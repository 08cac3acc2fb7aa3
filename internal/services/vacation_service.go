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
VacationService owns the vacation request lifecycle: validation on
submission, the PENDING -> APPROVED/DENIED -> CANCELLED state machine,
and the annual-leave balance ledger. The balance is debited exactly once
(on approval of annual leave) and credited exactly once (on cancellation
of an approved annual-leave request); both happen inside the repository
transaction that flips the status.
*/
type VacationService struct {
	vacRepo  repositories.VacationRequestRepository
	empRepo  repositories.EmployeeRepository
	locRepo  repositories.LocationRepository
	holidays *HolidayService
	notifier *NotificationService
}

func NewVacationService(
	vacRepo repositories.VacationRequestRepository,
	empRepo repositories.EmployeeRepository,
	locRepo repositories.LocationRepository,
	holidays *HolidayService,
	notifier *NotificationService,
) *VacationService {
	return &VacationService{
		vacRepo:  vacRepo,
		empRepo:  empRepo,
		locRepo:  locRepo,
		holidays: holidays,
		notifier: notifier,
	}
}

/*
Validate runs every submission rule and collects all violations rather
than stopping at the first:

 1. end date not before start date
 2. start date not in the past
 3. at least 14 days of advance notice
 4. no overlap with the employee's PENDING or APPROVED requests
 5. sufficient remaining balance (annual leave only)

excludeID skips one request in the overlap scan so an edit does not
collide with itself.
*/
func (s *VacationService) Validate(
	ctx context.Context,
	emp *models.Employee,
	req *models.VacationRequest,
	excludeID *uuid.UUID,
	today time.Time,
) (models.ValidationErrors, error) {
	var violations models.ValidationErrors
	today = utils.DateOnly(today)

	if req.EndDate.Before(req.StartDate) {
		violations = append(violations, models.FieldError{
			Field:   "end_date",
			Message: "End date must be after or equal to start date",
		})
	}

	if req.StartDate.Before(today) {
		violations = append(violations, models.FieldError{
			Field:   "start_date",
			Message: "Cannot request vacation in the past",
		})
	} else {
		daysAhead := req.DaysUntilStart(today)
		if daysAhead < constants.MinAdvanceNoticeDays {
			violations = append(violations, models.FieldError{
				Field: "start_date",
				Message: fmt.Sprintf(
					"Vacation must be requested at least %d days in advance (requested %d days in advance)",
					constants.MinAdvanceNoticeDays, daysAhead,
				),
			})
		}
	}

	overlapping, err := s.vacRepo.ListOverlapping(ctx, req.EmployeeID, req.StartDate, req.EndDate, excludeID)
	if err != nil {
		return nil, err
	}
	for _, other := range overlapping {
		violations = append(violations, models.FieldError{
			Field: "start_date",
			Message: fmt.Sprintf(
				"Overlaps with existing request from %s to %s",
				other.StartDate.Format("2006-01-02"), other.EndDate.Format("2006-01-02"),
			),
		})
	}

	if req.RequestType == models.RequestTypeAnnualLeave && req.VacationDays > emp.RemainingVacationDays {
		violations = append(violations, models.FieldError{
			Field: "end_date",
			Message: fmt.Sprintf(
				"Insufficient vacation days. Requested: %d, Available: %d",
				req.VacationDays, emp.RemainingVacationDays,
			),
		})
	}

	return violations, nil
}

// Submit validates and persists a new PENDING request, then notifies the
// employee's approver.
func (s *VacationService) Submit(
	ctx context.Context,
	employeeID uuid.UUID,
	payload dtos.CreateVacationRequestRequest,
) (*models.VacationRequest, models.ValidationErrors, error) {
	emp, err := s.empRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	if emp == nil {
		return nil, nil, utils.ErrNotFound
	}
	if !emp.IsActiveEmployee() {
		return nil, nil, utils.ErrEmployeeNotActive
	}

	start, err := time.ParseInLocation("2006-01-02", payload.StartDate, time.UTC)
	if err != nil {
		return nil, nil, utils.ErrInvalidPayload
	}
	end, err := time.ParseInLocation("2006-01-02", payload.EndDate, time.UTC)
	if err != nil {
		return nil, nil, utils.ErrInvalidPayload
	}

	req := &models.VacationRequest{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		StartDate:   utils.DateOnly(start),
		EndDate:     utils.DateOnly(end),
		RequestType: models.RequestTypeType(payload.RequestType),
		Reason:      payload.Reason,
		Notes:       payload.Notes,
		Status:      models.VacationStatusPending,
	}

	isHoliday, err := s.holidays.CheckerForRange(ctx, req.StartDate, req.EndDate, emp.PrimaryLocationID)
	if err != nil {
		return nil, nil, err
	}
	req.RecomputeDayCounts(isHoliday)

	violations, err := s.Validate(ctx, emp, req, nil, time.Now().UTC())
	if err != nil {
		return nil, nil, err
	}
	if len(violations) > 0 {
		return nil, violations, nil
	}

	if err := s.vacRepo.CreateAtomic(ctx, req); err != nil {
		return nil, nil, err
	}

	if approverID := s.resolveApprover(ctx, emp); approverID != nil {
		s.notifyFor(ctx, *approverID, models.NotificationVacationRequestSubmitted,
			"New vacation request",
			fmt.Sprintf("%s requested %s from %s to %s (%d vacation days)",
				emp.FullName(), req.RequestType,
				req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"),
				req.VacationDays),
			req.ID)
	}
	return req, nil, nil
}

// Approve flips PENDING to APPROVED and debits the balance for annual
// leave. The repository re-checks overlap and the row version inside the
// transaction; this method re-checks the balance up front so an approval
// can never drive it negative.
func (s *VacationService) Approve(
	ctx context.Context,
	approverID uuid.UUID,
	payload dtos.VacationDecisionRequest,
) (*models.VacationRequest, models.ValidationErrors, error) {
	req, err := s.vacRepo.GetByID(ctx, payload.RequestID)
	if err != nil {
		return nil, nil, err
	}
	if req == nil {
		return nil, nil, utils.ErrNotFound
	}

	debitDays := 0
	if req.RequestType == models.RequestTypeAnnualLeave {
		emp, err := s.empRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return nil, nil, err
		}
		if emp == nil {
			return nil, nil, utils.ErrNotFound
		}
		if req.VacationDays > emp.RemainingVacationDays {
			return nil, models.ValidationErrors{{
				Field: "end_date",
				Message: fmt.Sprintf(
					"Insufficient vacation days. Requested: %d, Available: %d",
					req.VacationDays, emp.RemainingVacationDays,
				),
			}}, nil
		}
		debitDays = req.VacationDays
	}

	updated, err := s.vacRepo.ApproveAtomic(ctx, payload.RequestID, approverID, payload.RowVersion, debitDays)
	if err != nil {
		return updated, nil, err
	}

	s.notifyFor(ctx, updated.EmployeeID, models.NotificationVacationRequestApproved,
		"Vacation request approved",
		fmt.Sprintf("Your vacation from %s to %s has been approved",
			updated.StartDate.Format("2006-01-02"), updated.EndDate.Format("2006-01-02")),
		updated.ID)
	return updated, nil, nil
}

// Deny flips PENDING to DENIED. A reason is mandatory so the employee
// always learns why.
func (s *VacationService) Deny(
	ctx context.Context,
	denierID uuid.UUID,
	payload dtos.VacationDecisionRequest,
) (*models.VacationRequest, models.ValidationErrors, error) {
	if payload.Reason == "" {
		return nil, models.ValidationErrors{{
			Field:   "reason",
			Message: "Denial reason is required",
		}}, nil
	}

	updated, err := s.vacRepo.DenyAtomic(ctx, payload.RequestID, denierID, payload.Reason, payload.RowVersion)
	if err != nil {
		return updated, nil, err
	}

	s.notifyFor(ctx, updated.EmployeeID, models.NotificationVacationRequestDenied,
		"Vacation request denied",
		fmt.Sprintf("Your vacation from %s to %s was denied: %s",
			updated.StartDate.Format("2006-01-02"), updated.EndDate.Format("2006-01-02"),
			payload.Reason),
		updated.ID)
	return updated, nil, nil
}

// Cancel ends a PENDING or APPROVED request that has not already passed,
// crediting the balance back when an approved annual-leave request is
// undone. Both the employee and their approver are notified, minus
// whichever of the two did the cancelling.
func (s *VacationService) Cancel(
	ctx context.Context,
	cancellerID uuid.UUID,
	payload dtos.VacationDecisionRequest,
) (*models.VacationRequest, error) {
	req, err := s.vacRepo.GetByID(ctx, payload.RequestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, utils.ErrNotFound
	}
	if !req.IsCancellable(time.Now().UTC()) {
		return req, utils.ErrNotCancellable
	}

	creditDays := 0
	if req.RequestType == models.RequestTypeAnnualLeave {
		creditDays = req.VacationDays
	}

	updated, err := s.vacRepo.CancelAtomic(ctx, payload.RequestID, cancellerID, payload.Reason, payload.RowVersion, creditDays)
	if err != nil {
		return updated, err
	}

	rangeText := fmt.Sprintf("from %s to %s",
		updated.StartDate.Format("2006-01-02"), updated.EndDate.Format("2006-01-02"))
	if cancellerID != updated.EmployeeID {
		s.notifyFor(ctx, updated.EmployeeID, models.NotificationVacationRequestCancelled,
			"Vacation request cancelled",
			fmt.Sprintf("Your vacation %s was cancelled", rangeText),
			updated.ID)
	}
	emp, err := s.empRepo.GetByID(ctx, updated.EmployeeID)
	if err == nil && emp != nil {
		if approverID := s.resolveApprover(ctx, emp); approverID != nil && *approverID != cancellerID {
			s.notifyFor(ctx, *approverID, models.NotificationVacationRequestCancelled,
				"Vacation request cancelled",
				fmt.Sprintf("The vacation request of %s %s was cancelled", emp.FullName(), rangeText),
				updated.ID)
		}
	}
	return updated, nil
}

func (s *VacationService) GetByID(ctx context.Context, id uuid.UUID) (*models.VacationRequest, error) {
	return s.vacRepo.GetByID(ctx, id)
}

func (s *VacationService) ListForEmployee(
	ctx context.Context,
	employeeID uuid.UUID,
	statuses []models.VacationStatusType,
) ([]*models.VacationRequest, error) {
	return s.vacRepo.ListByEmployee(ctx, employeeID, statuses)
}

func (s *VacationService) ListPendingForApprover(ctx context.Context, approverID uuid.UUID) ([]*models.VacationRequest, error) {
	return s.vacRepo.ListPendingForApprover(ctx, approverID)
}

// Balance summarizes the employee's annual-leave ledger. Pending days
// are informational: they have not been debited yet.
func (s *VacationService) Balance(ctx context.Context, employeeID uuid.UUID) (*dtos.VacationBalanceDTO, error) {
	emp, err := s.empRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, utils.ErrNotFound
	}

	pending, err := s.vacRepo.ListByEmployee(ctx, employeeID, []models.VacationStatusType{models.VacationStatusPending})
	if err != nil {
		return nil, err
	}
	pendingDays := 0
	for _, vr := range pending {
		if vr.RequestType == models.RequestTypeAnnualLeave {
			pendingDays += vr.VacationDays
		}
	}

	return &dtos.VacationBalanceDTO{
		EmployeeID:            emp.ID,
		AnnualVacationDays:    emp.AnnualVacationDays,
		RemainingVacationDays: emp.RemainingVacationDays,
		PendingDays:           pendingDays,
		UsedDays:              emp.AnnualVacationDays - emp.RemainingVacationDays,
	}, nil
}

// resolveApprover finds who decides on an employee's requests: their
// supervisor, or the manager of their primary location when they have
// no supervisor.
func (s *VacationService) resolveApprover(ctx context.Context, emp *models.Employee) *uuid.UUID {
	if emp.SupervisorID != nil {
		return emp.SupervisorID
	}
	if emp.PrimaryLocationID == nil {
		return nil
	}
	loc, err := s.locRepo.GetByID(ctx, *emp.PrimaryLocationID)
	if err != nil || loc == nil {
		return nil
	}
	return loc.ManagerID
}

func (s *VacationService) notifyFor(
	ctx context.Context,
	recipientID uuid.UUID,
	notifType models.NotificationTypeType,
	title, message string,
	requestID uuid.UUID,
) {
	if s.notifier == nil {
		return
	}
	kind := models.EntityKindVacationRequest
	if _, err := s.notifier.Dispatch(ctx, recipientID, notifType, title, message,
		&kind, &requestID, "/vacation-requests/"+requestID.String()); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to deliver %s notification for request %s", notifType, requestID)
	}
}
