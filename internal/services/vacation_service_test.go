package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/JuliusDeane-data/careplan/internal/constants"
	"github.com/JuliusDeane-data/careplan/internal/dtos"
	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

type vacationFixture struct {
	svc       *VacationService
	vacRepo   *fakeVacationRepo
	empRepo   *fakeEmployeeRepo
	locRepo   *fakeLocationRepo
	holidays  *fakeHolidayRepo
	notifRepo *fakeNotificationRepo

	employee *models.Employee
	manager  *models.Employee
}

func newVacationFixture(t *testing.T) *vacationFixture {
	t.Helper()

	empRepo := newFakeEmployeeRepo()
	locRepo := newFakeLocationRepo()
	vacRepo := newFakeVacationRepo(empRepo)
	holidayRepo := &fakeHolidayRepo{}

	locID := uuid.New()
	manager := &models.Employee{
		ID:               uuid.New(),
		EmployeeID:       "EMP001",
		Role:             models.EmployeeRoleManager,
		FirstName:        "Martina",
		LastName:         "Keller",
		EmploymentStatus: models.EmploymentStatusActive,
	}
	employee := &models.Employee{
		ID:                    uuid.New(),
		EmployeeID:            "EMP002",
		Role:                  models.EmployeeRoleEmployee,
		FirstName:             "Jonas",
		LastName:              "Brandt",
		EmploymentStatus:      models.EmploymentStatusActive,
		PrimaryLocationID:     &locID,
		SupervisorID:          &manager.ID,
		AnnualVacationDays:    30,
		RemainingVacationDays: 30,
	}
	require.NoError(t, empRepo.Create(context.Background(), manager))
	require.NoError(t, empRepo.Create(context.Background(), employee))
	require.NoError(t, locRepo.Create(context.Background(), &models.Location{
		ID: locID, Name: "Sonnenhof", IsActive: true, ManagerID: &manager.ID,
	}))

	notifRepo := newFakeNotificationRepo()
	notifier := NewNotificationService(notifRepo, empRepo, nil, "noreply@careplan.example", "CarePlan", "https://careplan.example", true)
	svc := NewVacationService(vacRepo, empRepo, locRepo, NewHolidayService(holidayRepo), notifier)
	return &vacationFixture{
		svc:       svc,
		vacRepo:   vacRepo,
		empRepo:   empRepo,
		locRepo:   locRepo,
		holidays:  holidayRepo,
		notifRepo: notifRepo,
		employee:  employee,
		manager:   manager,
	}
}

func futureWeekday(daysAhead int) time.Time {
	d := utils.DateOnly(time.Now().UTC()).AddDate(0, 0, daysAhead)
	for utils.IsWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

/// nextMonday keeps workable-day counts deterministic: [monday, monday+4]
// is always five workable days absent holidays.
func nextMonday(daysAhead int) time.Time {
	d := utils.DateOnly(time.Now().UTC()).AddDate(0, 0, daysAhead)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func pendingRequest(f *vacationFixture, start, end time.Time) *models.VacationRequest {
	vr := &models.VacationRequest{
		ID:          uuid.New(),
		EmployeeID:  f.employee.ID,
		StartDate:   start,
		EndDate:     end,
		RequestType: models.RequestTypeAnnualLeave,
		Status:      models.VacationStatusPending,
	}
	vr.RecomputeDayCounts(nil)
	return vr
}

// ----------------------------------------------------------------
// Validate
// ----------------------------------------------------------------

func TestValidateEndBeforeStart(t *testing.T) {
	f := newVacationFixture(t)
	today := day(2025, time.June, 2)

	vr := pendingRequest(f, day(2025, time.July, 10), day(2025, time.July, 5))
	violations, err := f.svc.Validate(context.Background(), f.employee, vr, nil, today)
	require.NoError(t, err)

	require.Len(t, violations, 1)
	require.Equal(t, "end_date", violations[0].Field)
	require.Equal(t, "End date must be after or equal to start date", violations[0].Message)
}

func TestValidateStartInPast(t *testing.T) {
	f := newVacationFixture(t)
	today := day(2025, time.June, 2)

	vr := pendingRequest(f, day(2025, time.May, 20), day(2025, time.May, 25))
	violations, err := f.svc.Validate(context.Background(), f.employee, vr, nil, today)
	require.NoError(t, err)

	require.Len(t, violations, 1)
	require.Equal(t, "start_date", violations[0].Field)
	require.Equal(t, "Cannot request vacation in the past", violations[0].Message)
}

func TestValidateInsufficientAdvanceNotice(t *testing.T) {
	f := newVacationFixture(t)
	today := day(2025, time.June, 2)

	// 10 days ahead, 14 required.
	vr := pendingRequest(f, day(2025, time.June, 12), day(2025, time.June, 13))
	violations, err := f.svc.Validate(context.Background(), f.employee, vr, nil, today)
	require.NoError(t, err)

	require.Len(t, violations, 1)
	require.Equal(t, "start_date", violations[0].Field)
	require.Equal(t,
		"Vacation must be requested at least 14 days in advance (requested 10 days in advance)",
		violations[0].Message)
}

func TestValidateExactlyFourteenDaysAheadPasses(t *testing.T) {
	f := newVacationFixture(t)
	today := day(2025, time.June, 2)

	vr := pendingRequest(f, today.AddDate(0, 0, constants.MinAdvanceNoticeDays), day(2025, time.June, 20))
	violations, err := f.svc.Validate(context.Background(), f.employee, vr, nil, today)
	require.NoError(t, err)
	require.Empty(t, violations)
}

func TestValidateOverlapWithExistingRequest(t *testing.T) {
	f := newVacationFixture(t)
	today := day(2025, time.June, 2)

	existing := pendingRequest(f, day(2025, time.July, 7), day(2025, time.July, 11))
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), existing))

	vr := pendingRequest(f, day(2025, time.July, 11), day(2025, time.July, 18))
	violations, err := f.svc.Validate(context.Background(), f.employee, vr, nil, today)
	require.NoError(t, err)

	require.Len(t, violations, 1)
	require.Equal(t, "start_date", violations[0].Field)
	require.Equal(t, "Overlaps with existing request from 2025-07-07 to 2025-07-11", violations[0].Message)
}

func TestValidateOverlapIgnoresDeniedAndCancelled(t *testing.T) {
	f := newVacationFixture(t)
	today := day(2025, time.June, 2)

	denied := pendingRequest(f, day(2025, time.July, 7), day(2025, time.July, 11))
	denied.Status = models.VacationStatusDenied
	f.vacRepo.requests[denied.ID] = denied

	vr := pendingRequest(f, day(2025, time.July, 10), day(2025, time.July, 15))
	violations, err := f.svc.Validate(context.Background(), f.employee, vr, nil, today)
	require.NoError(t, err)
	require.Empty(t, violations)
}

func TestValidateInsufficientBalance(t *testing.T) {
	f := newVacationFixture(t)
	today := day(2025, time.June, 2)
	f.employee.RemainingVacationDays = 3

	// Mon Jul 7 - Fri Jul 11 is 5 workable days.
	vr := pendingRequest(f, day(2025, time.July, 7), day(2025, time.July, 11))
	violations, err := f.svc.Validate(context.Background(), f.employee, vr, nil, today)
	require.NoError(t, err)

	require.Len(t, violations, 1)
	require.Equal(t, "end_date", violations[0].Field)
	require.Equal(t, "Insufficient vacation days. Requested: 5, Available: 3", violations[0].Message)
}

func TestValidateBalanceRuleOnlyAppliesToAnnualLeave(t *testing.T) {
	f := newVacationFixture(t)
	today := day(2025, time.June, 2)
	f.employee.RemainingVacationDays = 0

	vr := pendingRequest(f, day(2025, time.July, 7), day(2025, time.July, 11))
	vr.RequestType = models.RequestTypeUnpaidLeave
	violations, err := f.svc.Validate(context.Background(), f.employee, vr, nil, today)
	require.NoError(t, err)
	require.Empty(t, violations)
}

func TestValidateCollectsAllViolations(t *testing.T) {
	f := newVacationFixture(t)
	today := day(2025, time.June, 2)
	f.employee.RemainingVacationDays = 0

	existing := pendingRequest(f, day(2025, time.June, 9), day(2025, time.June, 13))
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), existing))

	vr := pendingRequest(f, day(2025, time.June, 10), day(2025, time.June, 12))
	violations, err := f.svc.Validate(context.Background(), f.employee, vr, nil, today)
	require.NoError(t, err)

	// Advance notice, overlap, and balance all fire at once.
	require.Len(t, violations, 3)
	fields := make(map[string]int)
	for _, v := range violations {
		fields[v.Field]++
	}
	require.Equal(t, 2, fields["start_date"])
	require.Equal(t, 1, fields["end_date"])
}

// ----------------------------------------------------------------
// Submit
// ----------------------------------------------------------------

func TestSubmitCreatesPendingRequest(t *testing.T) {
	f := newVacationFixture(t)

	start := futureWeekday(30)
	end := start.AddDate(0, 0, 4)
	req, violations, err := f.svc.Submit(context.Background(), f.employee.ID, dtos.CreateVacationRequestRequest{
		StartDate:   start.Format("2006-01-02"),
		EndDate:     end.Format("2006-01-02"),
		RequestType: string(models.RequestTypeAnnualLeave),
		Reason:      "Summer break",
	})
	require.NoError(t, err)
	require.Empty(t, violations)
	require.NotNil(t, req)

	require.Equal(t, models.VacationStatusPending, req.Status)
	require.Equal(t, int64(1), req.RowVersion)
	require.Positive(t, req.VacationDays)
	require.Equal(t, 5, req.TotalDays)

	// Submission never touches the balance.
	require.Equal(t, 30, f.employee.RemainingVacationDays)
}

func TestSubmitExcludesHolidaysFromDayCount(t *testing.T) {
	f := newVacationFixture(t)

	// Monday + Tuesday, with the Monday declared a holiday.
	start := nextMonday(30)
	end := start.AddDate(0, 0, 1)

	f.holidays.holidays = append(f.holidays.holidays, &models.PublicHoliday{
		ID: uuid.New(), Date: start, Name: "Feiertag", IsNationwide: true,
	})

	req, violations, err := f.svc.Submit(context.Background(), f.employee.ID, dtos.CreateVacationRequestRequest{
		StartDate:   start.Format("2006-01-02"),
		EndDate:     end.Format("2006-01-02"),
		RequestType: string(models.RequestTypeAnnualLeave),
	})
	require.NoError(t, err)
	require.Empty(t, violations)
	require.Equal(t, 1, req.VacationDays)
	require.Equal(t, 2, req.TotalDays)
}

func TestSubmitRejectsInactiveEmployee(t *testing.T) {
	f := newVacationFixture(t)
	f.employee.EmploymentStatus = models.EmploymentStatusTerminated

	start := futureWeekday(30)
	_, _, err := f.svc.Submit(context.Background(), f.employee.ID, dtos.CreateVacationRequestRequest{
		StartDate:   start.Format("2006-01-02"),
		EndDate:     start.Format("2006-01-02"),
		RequestType: string(models.RequestTypeAnnualLeave),
	})
	require.ErrorIs(t, err, utils.ErrEmployeeNotActive)
}

func TestSubmitUnknownEmployee(t *testing.T) {
	f := newVacationFixture(t)

	start := futureWeekday(30)
	_, _, err := f.svc.Submit(context.Background(), uuid.New(), dtos.CreateVacationRequestRequest{
		StartDate:   start.Format("2006-01-02"),
		EndDate:     start.Format("2006-01-02"),
		RequestType: string(models.RequestTypeAnnualLeave),
	})
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestSubmitMalformedDate(t *testing.T) {
	f := newVacationFixture(t)

	_, _, err := f.svc.Submit(context.Background(), f.employee.ID, dtos.CreateVacationRequestRequest{
		StartDate:   "07/15/2025",
		EndDate:     "2025-07-20",
		RequestType: string(models.RequestTypeAnnualLeave),
	})
	require.ErrorIs(t, err, utils.ErrInvalidPayload)
}

// ----------------------------------------------------------------
// Approve / Deny / Cancel
// ----------------------------------------------------------------

func TestApproveDebitsBalance(t *testing.T) {
	f := newVacationFixture(t)

	start := nextMonday(30)
	vr := pendingRequest(f, start, start.AddDate(0, 0, 4))
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), vr))
	require.Equal(t, 5, vr.VacationDays)

	updated, violations, err := f.svc.Approve(context.Background(), f.manager.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: vr.RowVersion,
	})
	require.NoError(t, err)
	require.Empty(t, violations)

	require.Equal(t, models.VacationStatusApproved, updated.Status)
	require.Equal(t, f.manager.ID, *updated.ApprovedByID)
	require.Equal(t, 25, f.employee.RemainingVacationDays)
}

func TestApproveInsufficientBalance(t *testing.T) {
	f := newVacationFixture(t)
	f.employee.RemainingVacationDays = 2

	start := nextMonday(30)
	vr := pendingRequest(f, start, start.AddDate(0, 0, 4))
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), vr))

	updated, violations, err := f.svc.Approve(context.Background(), f.manager.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: vr.RowVersion,
	})
	require.NoError(t, err)
	require.Nil(t, updated)

	require.Len(t, violations, 1)
	require.Equal(t, "Insufficient vacation days. Requested: 5, Available: 2", violations[0].Message)
	require.Equal(t, models.VacationStatusPending, vr.Status)
	require.Equal(t, 2, f.employee.RemainingVacationDays)
}

func TestApproveNonAnnualLeaveSkipsLedger(t *testing.T) {
	f := newVacationFixture(t)

	start := nextMonday(30)
	vr := pendingRequest(f, start, start.AddDate(0, 0, 4))
	vr.RequestType = models.RequestTypeSickLeave
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), vr))

	_, violations, err := f.svc.Approve(context.Background(), f.manager.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: vr.RowVersion,
	})
	require.NoError(t, err)
	require.Empty(t, violations)
	require.Equal(t, 30, f.employee.RemainingVacationDays)
}

func TestApproveWrongStatus(t *testing.T) {
	f := newVacationFixture(t)

	start := nextMonday(30)
	vr := pendingRequest(f, start, start.AddDate(0, 0, 4))
	vr.Status = models.VacationStatusDenied
	vr.RowVersion = 1
	f.vacRepo.requests[vr.ID] = vr

	_, _, err := f.svc.Approve(context.Background(), f.manager.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: 1,
	})
	require.ErrorIs(t, err, utils.ErrWrongStatus)
}

func TestApproveStaleRowVersion(t *testing.T) {
	f := newVacationFixture(t)

	start := nextMonday(30)
	vr := pendingRequest(f, start, start.AddDate(0, 0, 4))
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), vr))

	_, _, err := f.svc.Approve(context.Background(), f.manager.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: 99,
	})
	require.ErrorIs(t, err, utils.ErrRowVersionConflict)
}

func TestDenyRequiresReason(t *testing.T) {
	f := newVacationFixture(t)

	start := nextMonday(30)
	vr := pendingRequest(f, start, start.AddDate(0, 0, 4))
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), vr))

	updated, violations, err := f.svc.Deny(context.Background(), f.manager.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: vr.RowVersion,
	})
	require.NoError(t, err)
	require.Nil(t, updated)
	require.Len(t, violations, 1)
	require.Equal(t, "reason", violations[0].Field)
	require.Equal(t, "Denial reason is required", violations[0].Message)
	require.Equal(t, models.VacationStatusPending, vr.Status)
}

func TestDenyRecordsReason(t *testing.T) {
	f := newVacationFixture(t)

	start := nextMonday(30)
	vr := pendingRequest(f, start, start.AddDate(0, 0, 4))
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), vr))

	updated, violations, err := f.svc.Deny(context.Background(), f.manager.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: vr.RowVersion,
		Reason:     "Understaffed that week",
	})
	require.NoError(t, err)
	require.Empty(t, violations)
	require.Equal(t, models.VacationStatusDenied, updated.Status)
	require.Equal(t, "Understaffed that week", updated.DenialReason)
	require.Equal(t, 30, f.employee.RemainingVacationDays)
}

func TestCancelApprovedCreditsBalance(t *testing.T) {
	f := newVacationFixture(t)

	start := nextMonday(30)
	vr := pendingRequest(f, start, start.AddDate(0, 0, 4))
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), vr))

	_, violations, err := f.svc.Approve(context.Background(), f.manager.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: 1,
	})
	require.NoError(t, err)
	require.Empty(t, violations)
	require.Equal(t, 25, f.employee.RemainingVacationDays)

	updated, err := f.svc.Cancel(context.Background(), f.employee.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: 2,
		Reason:     "Plans changed",
	})
	require.NoError(t, err)
	require.Equal(t, models.VacationStatusCancelled, updated.Status)

	// Approve then cancel restores the balance exactly.
	require.Equal(t, 30, f.employee.RemainingVacationDays)
}

func TestCancelPendingDoesNotTouchBalance(t *testing.T) {
	f := newVacationFixture(t)

	start := nextMonday(30)
	vr := pendingRequest(f, start, start.AddDate(0, 0, 4))
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), vr))

	updated, err := f.svc.Cancel(context.Background(), f.employee.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: 1,
	})
	require.NoError(t, err)
	require.Equal(t, models.VacationStatusCancelled, updated.Status)
	require.Equal(t, 30, f.employee.RemainingVacationDays)
}

func TestCancelDeniedRequestFails(t *testing.T) {
	f := newVacationFixture(t)

	start := nextMonday(30)
	vr := pendingRequest(f, start, start.AddDate(0, 0, 4))
	vr.Status = models.VacationStatusDenied
	vr.RowVersion = 1
	f.vacRepo.requests[vr.ID] = vr

	_, err := f.svc.Cancel(context.Background(), f.employee.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: 1,
	})
	require.ErrorIs(t, err, utils.ErrNotCancellable)
}

func TestCancelPastRequestFails(t *testing.T) {
	f := newVacationFixture(t)

	vr := pendingRequest(f, day(2020, time.July, 6), day(2020, time.July, 10))
	vr.Status = models.VacationStatusApproved
	vr.RowVersion = 1
	f.vacRepo.requests[vr.ID] = vr

	_, err := f.svc.Cancel(context.Background(), f.employee.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: 1,
	})
	require.ErrorIs(t, err, utils.ErrNotCancellable)
}

func TestCancelByAdminNotifiesBothParties(t *testing.T) {
	f := newVacationFixture(t)

	start := nextMonday(30)
	vr := pendingRequest(f, start, start.AddDate(0, 0, 4))
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), vr))

	admin := &models.Employee{
		ID:               uuid.New(),
		EmployeeID:       "EMP099",
		Role:             models.EmployeeRoleAdmin,
		FirstName:        "Sabine",
		LastName:         "Vogel",
		EmploymentStatus: models.EmploymentStatusActive,
	}
	require.NoError(t, f.empRepo.Create(context.Background(), admin))

	_, err := f.svc.Cancel(context.Background(), admin.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: 1,
	})
	require.NoError(t, err)

	// A third party cancelled, so both the employee and the approver hear it.
	empNotes := f.notifRepo.forRecipient(f.employee.ID)
	require.Len(t, empNotes, 1)
	require.Equal(t, models.NotificationVacationRequestCancelled, empNotes[0].Type)

	mgrNotes := f.notifRepo.forRecipient(f.manager.ID)
	require.Len(t, mgrNotes, 1)
	require.Equal(t, models.NotificationVacationRequestCancelled, mgrNotes[0].Type)
	require.Contains(t, mgrNotes[0].Message, "Jonas Brandt")
}

func TestCancelByEmployeeNotifiesApproverOnly(t *testing.T) {
	f := newVacationFixture(t)

	start := nextMonday(30)
	vr := pendingRequest(f, start, start.AddDate(0, 0, 4))
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), vr))

	_, err := f.svc.Cancel(context.Background(), f.employee.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: 1,
	})
	require.NoError(t, err)

	require.Empty(t, f.notifRepo.forRecipient(f.employee.ID))
	require.Len(t, f.notifRepo.forRecipient(f.manager.ID), 1)
}

func TestCancelByApproverNotifiesEmployeeOnly(t *testing.T) {
	f := newVacationFixture(t)

	start := nextMonday(30)
	vr := pendingRequest(f, start, start.AddDate(0, 0, 4))
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), vr))

	_, err := f.svc.Cancel(context.Background(), f.manager.ID, dtos.VacationDecisionRequest{
		RequestID:  vr.ID,
		RowVersion: 1,
	})
	require.NoError(t, err)

	require.Len(t, f.notifRepo.forRecipient(f.employee.ID), 1)
	require.Empty(t, f.notifRepo.forRecipient(f.manager.ID))
}

// ----------------------------------------------------------------
// Balance
// ----------------------------------------------------------------

func TestBalanceSummary(t *testing.T) {
	f := newVacationFixture(t)
	f.employee.RemainingVacationDays = 22

	start := nextMonday(30)
	pending := pendingRequest(f, start, start.AddDate(0, 0, 4))
	require.NoError(t, f.vacRepo.CreateAtomic(context.Background(), pending))

	balance, err := f.svc.Balance(context.Background(), f.employee.ID)
	require.NoError(t, err)

	require.Equal(t, 30, balance.AnnualVacationDays)
	require.Equal(t, 22, balance.RemainingVacationDays)
	require.Equal(t, 5, balance.PendingDays)
	require.Equal(t, 8, balance.UsedDays)
}
