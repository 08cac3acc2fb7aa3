package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/repositories"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

/*
   In-memory repository fakes. Each mirrors the transactional semantics
   of its SQL counterpart (status preconditions, row-version checks,
   balance debits/credits) so the services can be exercised without a
   database.
*/

// ---------------------------------------------------------------
// Employees
// ---------------------------------------------------------------

type fakeEmployeeRepo struct {
	employees map[uuid.UUID]*models.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[uuid.UUID]*models.Employee)}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, emp *models.Employee) error {
	if emp.RowVersion == 0 {
		emp.RowVersion = 1
	}
	r.employees[emp.ID] = emp
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Employee, error) {
	return r.employees[id], nil
}

func (r *fakeEmployeeRepo) GetByEmployeeID(_ context.Context, employeeID string) (*models.Employee, error) {
	for _, e := range r.employees {
		if e.EmployeeID == employeeID {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeEmployeeRepo) ListByLocation(_ context.Context, locationID uuid.UUID) ([]*models.Employee, error) {
	var out []*models.Employee
	for _, e := range r.employees {
		if e.PrimaryLocationID != nil && *e.PrimaryLocationID == locationID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListAll(_ context.Context) ([]*models.Employee, error) {
	var out []*models.Employee
	for _, e := range r.employees {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) AdjustVacationBalanceTx(_ context.Context, _ pgx.Tx, employeeID uuid.UUID, deltaDays int) error {
	if e, ok := r.employees[employeeID]; ok {
		e.RemainingVacationDays += deltaDays
	}
	return nil
}

func (r *fakeEmployeeRepo) GetByIDForUpdateTx(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*models.Employee, error) {
	return r.GetByID(ctx, id)
}

// ---------------------------------------------------------------
// Locations
// ---------------------------------------------------------------

type fakeLocationRepo struct {
	locations map[uuid.UUID]*models.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: make(map[uuid.UUID]*models.Location)}
}

func (r *fakeLocationRepo) Create(_ context.Context, loc *models.Location) error {
	r.locations[loc.ID] = loc
	return nil
}

func (r *fakeLocationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Location, error) {
	return r.locations[id], nil
}

func (r *fakeLocationRepo) ListActive(_ context.Context) ([]*models.Location, error) {
	var out []*models.Location
	for _, l := range r.locations {
		if l.IsActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) ListAll(_ context.Context) ([]*models.Location, error) {
	var out []*models.Location
	for _, l := range r.locations {
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeLocationRepo) Update(_ context.Context, loc *models.Location) error {
	r.locations[loc.ID] = loc
	return nil
}

// ---------------------------------------------------------------
// Public holidays
// ---------------------------------------------------------------

type fakeHolidayRepo struct {
	holidays []*models.PublicHoliday
}

func (r *fakeHolidayRepo) Create(_ context.Context, h *models.PublicHoliday) error {
	r.holidays = append(r.holidays, h)
	return nil
}

func (r *fakeHolidayRepo) CreateIfNotExists(_ context.Context, h *models.PublicHoliday) error {
	for _, cur := range r.holidays {
		if cur.Date.Equal(h.Date) && cur.Name == h.Name {
			return nil
		}
	}
	r.holidays = append(r.holidays, h)
	return nil
}

func (r *fakeHolidayRepo) matches(h *models.PublicHoliday, locationID *uuid.UUID) bool {
	if h.IsNationwide {
		return true
	}
	return locationID != nil && h.LocationID != nil && *h.LocationID == *locationID
}

func (r *fakeHolidayRepo) IsHoliday(_ context.Context, date time.Time, locationID *uuid.UUID) (bool, error) {
	for _, h := range r.holidays {
		if h.Date.Equal(utils.DateOnly(date)) && r.matches(h, locationID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeHolidayRepo) ListBetween(_ context.Context, start, end time.Time, locationID *uuid.UUID) ([]*models.PublicHoliday, error) {
	var out []*models.PublicHoliday
	for _, h := range r.holidays {
		if !h.Date.Before(start) && !h.Date.After(end) && r.matches(h, locationID) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHolidayRepo) ListForYear(ctx context.Context, year int, locationID *uuid.UUID) ([]*models.PublicHoliday, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return r.ListBetween(ctx, start, end, locationID)
}

func (r *fakeHolidayRepo) ListRecurring(_ context.Context) ([]*models.PublicHoliday, error) {
	var out []*models.PublicHoliday
	for _, h := range r.holidays {
		if h.IsRecurring {
			out = append(out, h)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------
// Vacation requests
// ---------------------------------------------------------------

type fakeVacationRepo struct {
	requests map[uuid.UUID]*models.VacationRequest
	emps     *fakeEmployeeRepo
}

func newFakeVacationRepo(emps *fakeEmployeeRepo) *fakeVacationRepo {
	return &fakeVacationRepo{
		requests: make(map[uuid.UUID]*models.VacationRequest),
		emps:     emps,
	}
}

func (r *fakeVacationRepo) activeOverlaps(req *models.VacationRequest, excludeID *uuid.UUID) []*models.VacationRequest {
	var out []*models.VacationRequest
	for _, cur := range r.requests {
		if cur.EmployeeID != req.EmployeeID {
			continue
		}
		if excludeID != nil && cur.ID == *excludeID {
			continue
		}
		if cur.ID == req.ID {
			continue
		}
		if cur.Status != models.VacationStatusPending && cur.Status != models.VacationStatusApproved {
			continue
		}
		if cur.Overlaps(req) {
			out = append(out, cur)
		}
	}
	return out
}

func (r *fakeVacationRepo) CreateAtomic(_ context.Context, req *models.VacationRequest) error {
	if len(r.activeOverlaps(req, nil)) > 0 {
		return repositories.ErrOverlappingRequest
	}
	req.RowVersion = 1
	r.requests[req.ID] = req
	return nil
}

func (r *fakeVacationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.VacationRequest, error) {
	return r.requests[id], nil
}

func (r *fakeVacationRepo) ListByEmployee(
	_ context.Context,
	employeeID uuid.UUID,
	statuses []models.VacationStatusType,
) ([]*models.VacationRequest, error) {
	var out []*models.VacationRequest
	for _, vr := range r.requests {
		if vr.EmployeeID != employeeID {
			continue
		}
		if len(statuses) > 0 {
			found := false
			for _, st := range statuses {
				if vr.Status == st {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, vr)
	}
	return out, nil
}

func (r *fakeVacationRepo) ListOverlapping(
	_ context.Context,
	employeeID uuid.UUID,
	start, end time.Time,
	excludeID *uuid.UUID,
) ([]*models.VacationRequest, error) {
	probe := &models.VacationRequest{ID: uuid.New(), EmployeeID: employeeID, StartDate: start, EndDate: end}
	return r.activeOverlaps(probe, excludeID), nil
}

func (r *fakeVacationRepo) ListPendingForApprover(_ context.Context, approverID uuid.UUID) ([]*models.VacationRequest, error) {
	var out []*models.VacationRequest
	for _, vr := range r.requests {
		if vr.Status != models.VacationStatusPending {
			continue
		}
		emp := r.emps.employees[vr.EmployeeID]
		if emp == nil || emp.SupervisorID == nil || *emp.SupervisorID != approverID {
			continue
		}
		out = append(out, vr)
	}
	return out, nil
}

func (r *fakeVacationRepo) ApproveAtomic(
	_ context.Context,
	reqID, approverID uuid.UUID,
	expectedVersion int64,
	debitDays int,
) (*models.VacationRequest, error) {
	req := r.requests[reqID]
	if req == nil {
		return nil, pgx.ErrNoRows
	}
	if req.RowVersion != expectedVersion {
		return req, utils.ErrRowVersionConflict
	}
	if req.Status != models.VacationStatusPending {
		return req, utils.ErrWrongStatus
	}
	if len(r.activeOverlaps(req, nil)) > 0 {
		return req, repositories.ErrOverlappingRequest
	}

	now := time.Now().UTC()
	req.Status = models.VacationStatusApproved
	req.ApprovedByID = &approverID
	req.ApprovedAt = &now
	req.RowVersion++

	if debitDays > 0 {
		if emp := r.emps.employees[req.EmployeeID]; emp != nil {
			emp.RemainingVacationDays -= debitDays
		}
	}
	return req, nil
}

func (r *fakeVacationRepo) DenyAtomic(
	_ context.Context,
	reqID, denierID uuid.UUID,
	reason string,
	expectedVersion int64,
) (*models.VacationRequest, error) {
	req := r.requests[reqID]
	if req == nil {
		return nil, pgx.ErrNoRows
	}
	if req.RowVersion != expectedVersion {
		return req, utils.ErrRowVersionConflict
	}
	if req.Status != models.VacationStatusPending {
		return req, utils.ErrWrongStatus
	}

	now := time.Now().UTC()
	req.Status = models.VacationStatusDenied
	req.DeniedByID = &denierID
	req.DeniedAt = &now
	req.DenialReason = reason
	req.RowVersion++
	return req, nil
}

func (r *fakeVacationRepo) CancelAtomic(
	_ context.Context,
	reqID, cancellerID uuid.UUID,
	reason string,
	expectedVersion int64,
	creditDays int,
) (*models.VacationRequest, error) {
	req := r.requests[reqID]
	if req == nil {
		return nil, pgx.ErrNoRows
	}
	if req.RowVersion != expectedVersion {
		return req, utils.ErrRowVersionConflict
	}
	if req.Status != models.VacationStatusPending && req.Status != models.VacationStatusApproved {
		return req, utils.ErrNotCancellable
	}

	wasApproved := req.Status == models.VacationStatusApproved
	now := time.Now().UTC()
	req.Status = models.VacationStatusCancelled
	req.CancelledByID = &cancellerID
	req.CancelledAt = &now
	req.CancellationReason = reason
	req.RowVersion++

	if wasApproved && creditDays > 0 {
		if emp := r.emps.employees[req.EmployeeID]; emp != nil {
			emp.RemainingVacationDays += creditDays
		}
	}
	return req, nil
}

// ---------------------------------------------------------------
// Shifts
// ---------------------------------------------------------------

type fakeShiftRepo struct {
	shifts  map[uuid.UUID]*models.Shift
	assigns *fakeAssignmentRepo
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[uuid.UUID]*models.Shift)}
}

func (r *fakeShiftRepo) Create(_ context.Context, shift *models.Shift) error {
	if shift.RowVersion == 0 {
		shift.RowVersion = 1
	}
	r.shifts[shift.ID] = shift
	return nil
}

func (r *fakeShiftRepo) CreateIfNotExists(_ context.Context, shift *models.Shift) error {
	for _, cur := range r.shifts {
		if cur.LocationID == shift.LocationID &&
			cur.Date.Equal(shift.Date) &&
			cur.StartTime.Hour() == shift.StartTime.Hour() &&
			cur.StartTime.Minute() == shift.StartTime.Minute() &&
			cur.ShiftType == shift.ShiftType {
			return nil
		}
	}
	if shift.RowVersion == 0 {
		shift.RowVersion = 1
	}
	r.shifts[shift.ID] = shift
	return nil
}

func (r *fakeShiftRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Shift, error) {
	return r.shifts[id], nil
}

func (r *fakeShiftRepo) GetByIDWithAssignments(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	shift := r.shifts[id]
	if shift == nil {
		return nil, nil
	}
	if r.assigns != nil {
		assignments, _ := r.assigns.ListByShift(ctx, id)
		shift.Assignments = assignments
	}
	return shift, nil
}

func (r *fakeShiftRepo) ListByLocationAndDateRange(
	_ context.Context,
	locationID uuid.UUID,
	start, end time.Time,
	publishedOnly bool,
) ([]*models.Shift, error) {
	var out []*models.Shift
	for _, s := range r.shifts {
		if s.LocationID != locationID {
			continue
		}
		if s.Date.Before(start) || s.Date.After(end) {
			continue
		}
		if publishedOnly && !s.IsPublished {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeShiftRepo) SetPublished(_ context.Context, id uuid.UUID, published bool) error {
	s := r.shifts[id]
	if s == nil {
		return pgx.ErrNoRows
	}
	s.IsPublished = published
	return nil
}

// ---------------------------------------------------------------
// Shift assignments
// ---------------------------------------------------------------

type fakeAssignmentRepo struct {
	assignments map[uuid.UUID]*models.ShiftAssignment
	shifts      *fakeShiftRepo
}

func newFakeAssignmentRepo(shifts *fakeShiftRepo) *fakeAssignmentRepo {
	r := &fakeAssignmentRepo{
		assignments: make(map[uuid.UUID]*models.ShiftAssignment),
		shifts:      shifts,
	}
	shifts.assigns = r
	return r
}

func (r *fakeAssignmentRepo) CreateAtomic(_ context.Context, a *models.ShiftAssignment) error {
	for _, cur := range r.assignments {
		if cur.ShiftID == a.ShiftID && cur.EmployeeID == a.EmployeeID {
			return repositories.ErrDuplicateAssignment
		}
	}
	a.RowVersion = 1
	r.assignments[a.ID] = a
	return nil
}

func (r *fakeAssignmentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ShiftAssignment, error) {
	return r.assignments[id], nil
}

func (r *fakeAssignmentRepo) ExistsForShiftAndEmployee(
	_ context.Context,
	shiftID, employeeID uuid.UUID,
	excludeID *uuid.UUID,
) (bool, error) {
	for _, cur := range r.assignments {
		if excludeID != nil && cur.ID == *excludeID {
			continue
		}
		if cur.ShiftID == shiftID && cur.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAssignmentRepo) ListByShift(_ context.Context, shiftID uuid.UUID) ([]*models.ShiftAssignment, error) {
	var out []*models.ShiftAssignment
	for _, cur := range r.assignments {
		if cur.ShiftID == shiftID {
			out = append(out, cur)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) ListForEmployeeBetweenDates(
	_ context.Context,
	employeeID uuid.UUID,
	start, end time.Time,
	statuses []models.AssignmentStatusType,
) ([]*models.ShiftAssignment, error) {
	var out []*models.ShiftAssignment
	for _, cur := range r.assignments {
		if cur.EmployeeID != employeeID {
			continue
		}
		shift := r.shifts.shifts[cur.ShiftID]
		if shift == nil || shift.Date.Before(start) || shift.Date.After(end) {
			continue
		}
		if len(statuses) > 0 {
			found := false
			for _, st := range statuses {
				if cur.Status == st {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		cur.Shift = shift
		out = append(out, cur)
	}
	return out, nil
}

func (r *fakeAssignmentRepo) UpdateStatusIfVersion(
	_ context.Context,
	a *models.ShiftAssignment,
	expectedVersion int64,
) (pgconn.CommandTag, error) {
	cur := r.assignments[a.ID]
	if cur == nil || cur.RowVersion != expectedVersion {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	cur.Status = a.Status
	cur.Notes = a.Notes
	cur.RowVersion++
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *fakeAssignmentRepo) GetByIDString(ctx context.Context, id string) (*models.ShiftAssignment, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, parsed)
}

// ---------------------------------------------------------------
// Employee qualifications
// ---------------------------------------------------------------

type fakeEmpQualRepo struct {
	certs map[uuid.UUID]*models.EmployeeQualification
}

func newFakeEmpQualRepo() *fakeEmpQualRepo {
	return &fakeEmpQualRepo{certs: make(map[uuid.UUID]*models.EmployeeQualification)}
}

func (r *fakeEmpQualRepo) Create(_ context.Context, eq *models.EmployeeQualification) error {
	if eq.RowVersion == 0 {
		eq.RowVersion = 1
	}
	r.certs[eq.ID] = eq
	return nil
}

func (r *fakeEmpQualRepo) GetByID(_ context.Context, id uuid.UUID) (*models.EmployeeQualification, error) {
	return r.certs[id], nil
}

func (r *fakeEmpQualRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID) ([]*models.EmployeeQualification, error) {
	var out []*models.EmployeeQualification
	for _, eq := range r.certs {
		if eq.EmployeeID == employeeID {
			out = append(out, eq)
		}
	}
	return out, nil
}

func (r *fakeEmpQualRepo) GetByEmployeeAndCode(
	_ context.Context,
	employeeID uuid.UUID,
	code string,
) (*models.EmployeeQualification, error) {
	for _, eq := range r.certs {
		if eq.EmployeeID == employeeID && eq.QualificationCode == code {
			return eq, nil
		}
	}
	return nil, nil
}

func (r *fakeEmpQualRepo) ListExpiringWithin(_ context.Context, from time.Time, days int) ([]*models.EmployeeQualification, error) {
	cutoff := from.AddDate(0, 0, days)
	var out []*models.EmployeeQualification
	for _, eq := range r.certs {
		if eq.ExpiryDate == nil {
			continue
		}
		if !eq.ExpiryDate.Before(from) && !eq.ExpiryDate.After(cutoff) {
			out = append(out, eq)
		}
	}
	return out, nil
}

func (r *fakeEmpQualRepo) ListByStatus(_ context.Context, status models.CertificationStatusType) ([]*models.EmployeeQualification, error) {
	var out []*models.EmployeeQualification
	for _, eq := range r.certs {
		if eq.Status == status {
			out = append(out, eq)
		}
	}
	return out, nil
}

func (r *fakeEmpQualRepo) ListAll(_ context.Context) ([]*models.EmployeeQualification, error) {
	var out []*models.EmployeeQualification
	for _, eq := range r.certs {
		out = append(out, eq)
	}
	return out, nil
}

func (r *fakeEmpQualRepo) UpdateIfVersion(
	_ context.Context,
	eq *models.EmployeeQualification,
	expectedVersion int64,
) (pgconn.CommandTag, error) {
	cur := r.certs[eq.ID]
	if cur == nil || cur.RowVersion != expectedVersion {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	copied := *eq
	copied.RowVersion = expectedVersion + 1
	r.certs[eq.ID] = &copied
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *fakeEmpQualRepo) GetByIDString(ctx context.Context, id string) (*models.EmployeeQualification, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, parsed)
}

// ---------------------------------------------------------------
// Qualifications
// ---------------------------------------------------------------

type fakeQualificationRepo struct {
	quals map[uuid.UUID]*models.Qualification
}

func newFakeQualificationRepo() *fakeQualificationRepo {
	return &fakeQualificationRepo{quals: make(map[uuid.UUID]*models.Qualification)}
}

func (r *fakeQualificationRepo) Create(_ context.Context, q *models.Qualification) error {
	r.quals[q.ID] = q
	return nil
}

func (r *fakeQualificationRepo) CreateIfNotExists(_ context.Context, q *models.Qualification) error {
	for _, cur := range r.quals {
		if cur.Code == q.Code {
			return nil
		}
	}
	r.quals[q.ID] = q
	return nil
}

func (r *fakeQualificationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Qualification, error) {
	return r.quals[id], nil
}

func (r *fakeQualificationRepo) GetByCode(_ context.Context, code string) (*models.Qualification, error) {
	for _, q := range r.quals {
		if q.Code == code {
			return q, nil
		}
	}
	return nil, nil
}

func (r *fakeQualificationRepo) ListActive(_ context.Context) ([]*models.Qualification, error) {
	var out []*models.Qualification
	for _, q := range r.quals {
		if q.IsActive {
			out = append(out, q)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------
// Shift templates
// ---------------------------------------------------------------

type fakeTemplateRepo struct {
	templates map[uuid.UUID]*models.ShiftTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[uuid.UUID]*models.ShiftTemplate)}
}

func (r *fakeTemplateRepo) Create(_ context.Context, t *models.ShiftTemplate) error {
	r.templates[t.ID] = t
	return nil
}

func (r *fakeTemplateRepo) CreateIfNotExists(_ context.Context, t *models.ShiftTemplate) error {
	if _, ok := r.templates[t.ID]; ok {
		return nil
	}
	r.templates[t.ID] = t
	return nil
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ShiftTemplate, error) {
	return r.templates[id], nil
}

func (r *fakeTemplateRepo) ListActiveByLocation(_ context.Context, locationID uuid.UUID) ([]*models.ShiftTemplate, error) {
	var out []*models.ShiftTemplate
	for _, t := range r.templates {
		if t.IsActive && t.LocationID == locationID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) ListAllActive(_ context.Context) ([]*models.ShiftTemplate, error) {
	var out []*models.ShiftTemplate
	for _, t := range r.templates {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	t := r.templates[id]
	if t == nil {
		return pgx.ErrNoRows
	}
	t.IsActive = active
	return nil
}

// ---------------------------------------------------------------
// Notifications
// ---------------------------------------------------------------

type fakeNotificationRepo struct {
	notifications []*models.Notification
	prefs         map[uuid.UUID]*models.NotificationPreference
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{prefs: make(map[uuid.UUID]*models.NotificationPreference)}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	for _, n := range r.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID uuid.UUID, unreadOnly bool, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, recipientID uuid.UUID) (int, error) {
	count := 0
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, id, recipientID uuid.UUID) error {
	for _, n := range r.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(_ context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) GetPreference(_ context.Context, employeeID uuid.UUID) (*models.NotificationPreference, error) {
	return r.prefs[employeeID], nil
}

func (r *fakeNotificationRepo) UpsertPreference(_ context.Context, p *models.NotificationPreference) error {
	r.prefs[p.EmployeeID] = p
	return nil
}

func (r *fakeNotificationRepo) forRecipient(recipientID uuid.UUID) []*models.Notification {
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}
