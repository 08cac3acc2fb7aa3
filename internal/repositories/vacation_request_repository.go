package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

// ErrOverlappingRequest is raised when the in-transaction re-check (or
// the database exclusion constraint) finds a conflicting PENDING or
// APPROVED request for the same employee.
var ErrOverlappingRequest = errors.New("overlapping_request")

type VacationRequestRepository interface {
	// CreateAtomic inserts the request after row-locking the employee
	// and re-running the overlap check inside the same transaction,
	// closing the validate-then-write race. The exclusion constraint on
	// (employee_id, daterange) is the database backstop.
	CreateAtomic(ctx context.Context, req *models.VacationRequest) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.VacationRequest, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, statuses []models.VacationStatusType) ([]*models.VacationRequest, error)
	ListOverlapping(ctx context.Context, employeeID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*models.VacationRequest, error)
	ListPendingForApprover(ctx context.Context, approverID uuid.UUID) ([]*models.VacationRequest, error)

	// Transition methods: each locks the request FOR UPDATE, enforces
	// the precondition, flips the status, and applies the balance
	// delta in the same transaction.
	ApproveAtomic(ctx context.Context, reqID, approverID uuid.UUID, expectedVersion int64, debitDays int) (*models.VacationRequest, error)
	DenyAtomic(ctx context.Context, reqID, denierID uuid.UUID, reason string, expectedVersion int64) (*models.VacationRequest, error)
	CancelAtomic(ctx context.Context, reqID, cancellerID uuid.UUID, reason string, expectedVersion int64, creditDays int) (*models.VacationRequest, error)
}

type vacationRequestRepo struct {
	db DB
}

func NewVacationRequestRepository(db DB) VacationRequestRepository {
	return &vacationRequestRepo{db: db}
}

func baseSelectVacationRequest() string {
	return `
        SELECT
            id, employee_id, start_date, end_date,
            vacation_days, total_days, request_type, reason, notes,
            status,
            approved_by_id, approved_at,
            denied_by_id, denied_at, denial_reason,
            cancelled_by_id, cancelled_at, cancellation_reason,
            row_version, created_at, updated_at
        FROM vacation_requests
    `
}

func scanVacationRequest(row pgx.Row) (*models.VacationRequest, error) {
	var vr models.VacationRequest
	err := row.Scan(
		&vr.ID,
		&vr.EmployeeID,
		&vr.StartDate,
		&vr.EndDate,
		&vr.VacationDays,
		&vr.TotalDays,
		&vr.RequestType,
		&vr.Reason,
		&vr.Notes,
		&vr.Status,
		&vr.ApprovedByID,
		&vr.ApprovedAt,
		&vr.DeniedByID,
		&vr.DeniedAt,
		&vr.DenialReason,
		&vr.CancelledByID,
		&vr.CancelledAt,
		&vr.CancellationReason,
		&vr.RowVersion,
		&vr.CreatedAt,
		&vr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &vr, nil
}

func (r *vacationRequestRepo) CreateAtomic(ctx context.Context, req *models.VacationRequest) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	// Serialize per employee: all request writes for one employee queue
	// behind this lock.
	if _, err = tx.Exec(ctx, `SELECT 1 FROM employees WHERE id=$1 FOR UPDATE`, req.EmployeeID); err != nil {
		return err
	}

	var conflicting int
	err = tx.QueryRow(ctx, `
        SELECT COUNT(*) FROM vacation_requests
        WHERE employee_id=$1
          AND status IN ('PENDING','APPROVED')
          AND start_date <= $3
          AND end_date >= $2
    `, req.EmployeeID, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02")).Scan(&conflicting)
	if err != nil {
		return err
	}
	if conflicting > 0 {
		err = ErrOverlappingRequest
		return err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO vacation_requests (
            id, employee_id, start_date, end_date,
            vacation_days, total_days, request_type, reason, notes,
            status, created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW(),1
        )
    `,
		req.ID,
		req.EmployeeID,
		req.StartDate.Format("2006-01-02"),
		req.EndDate.Format("2006-01-02"),
		req.VacationDays,
		req.TotalDays,
		req.RequestType,
		req.Reason,
		req.Notes,
		req.Status,
	)
	if err != nil && IsExclusionViolation(err) {
		err = ErrOverlappingRequest
	}
	return err
}

func (r *vacationRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.VacationRequest, error) {
	row := r.db.QueryRow(ctx, baseSelectVacationRequest()+" WHERE id=$1", id)
	return scanVacationRequest(row)
}

func (r *vacationRequestRepo) ListByEmployee(
	ctx context.Context,
	employeeID uuid.UUID,
	statuses []models.VacationStatusType,
) ([]*models.VacationRequest, error) {
	q := baseSelectVacationRequest() + " WHERE employee_id=$1"
	args := []interface{}{employeeID}
	if len(statuses) > 0 {
		stStrings := make([]string, 0, len(statuses))
		for _, st := range statuses {
			stStrings = append(stStrings, string(st))
		}
		q += " AND status = ANY($2)"
		args = append(args, stStrings)
	}
	q += " ORDER BY start_date DESC, created_at DESC"
	return r.list(ctx, q, args...)
}

func (r *vacationRequestRepo) ListOverlapping(
	ctx context.Context,
	employeeID uuid.UUID,
	start, end time.Time,
	excludeID *uuid.UUID,
) ([]*models.VacationRequest, error) {
	q := baseSelectVacationRequest() + `
        WHERE employee_id=$1
          AND status IN ('PENDING','APPROVED')
          AND start_date <= $3
          AND end_date >= $2
    `
	args := []interface{}{employeeID, start.Format("2006-01-02"), end.Format("2006-01-02")}
	if excludeID != nil {
		q += " AND id <> $4"
		args = append(args, *excludeID)
	}
	q += " ORDER BY start_date"
	return r.list(ctx, q, args...)
}

func (r *vacationRequestRepo) ListPendingForApprover(ctx context.Context, approverID uuid.UUID) ([]*models.VacationRequest, error) {
	// Requests from direct reports, plus employees whose location the
	// approver manages and who have no supervisor of their own.
	return r.list(ctx, baseSelectVacationRequest()+`
        WHERE status='PENDING'
          AND employee_id IN (
              SELECT id FROM employees WHERE supervisor_id=$1
              UNION
              SELECT e.id FROM employees e
              JOIN locations l ON l.id = e.primary_location_id
              WHERE e.supervisor_id IS NULL AND l.manager_id=$1
          )
        ORDER BY start_date
    `, approverID)
}

func (r *vacationRequestRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.VacationRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.VacationRequest
	for rows.Next() {
		vr, err := scanVacationRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, vr)
	}
	return out, rows.Err()
}

func (r *vacationRequestRepo) ApproveAtomic(
	ctx context.Context,
	reqID, approverID uuid.UUID,
	expectedVersion int64,
	debitDays int,
) (*models.VacationRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectVacationRequest()+" WHERE id=$1 FOR UPDATE", reqID)
	req, err := scanVacationRequest(row)
	if err != nil {
		return nil, err
	}
	if req == nil {
		err = pgx.ErrNoRows
		return nil, err
	}
	if req.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return req, err
	}
	if req.Status != models.VacationStatusPending {
		err = utils.ErrWrongStatus
		return req, err
	}

	// Re-check overlap after acquiring the employee lock: another
	// request may have been approved since validation ran.
	if _, err = tx.Exec(ctx, `SELECT 1 FROM employees WHERE id=$1 FOR UPDATE`, req.EmployeeID); err != nil {
		return nil, err
	}
	var conflicting int
	err = tx.QueryRow(ctx, `
        SELECT COUNT(*) FROM vacation_requests
        WHERE employee_id=$1 AND id <> $2
          AND status IN ('PENDING','APPROVED')
          AND start_date <= $4
          AND end_date >= $3
    `, req.EmployeeID, req.ID, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02")).Scan(&conflicting)
	if err != nil {
		return nil, err
	}
	if conflicting > 0 {
		err = ErrOverlappingRequest
		return req, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE vacation_requests
        SET status='APPROVED',
            approved_by_id=$1,
            approved_at=NOW(),
            row_version=row_version+1,
            updated_at=NOW()
        WHERE id=$2
    `, approverID, reqID)
	if err != nil {
		return nil, err
	}

	// The one debit point of the balance ledger: annual-leave approvals
	// only, same transaction as the status flip.
	if debitDays > 0 {
		if _, err = tx.Exec(ctx, `
            UPDATE employees
            SET remaining_vacation_days = remaining_vacation_days - $1,
                row_version = row_version + 1,
                updated_at = NOW()
            WHERE id = $2
        `, debitDays, req.EmployeeID); err != nil {
			return nil, err
		}
	}

	newRow := tx.QueryRow(ctx, baseSelectVacationRequest()+" WHERE id=$1", reqID)
	return scanVacationRequest(newRow)
}

func (r *vacationRequestRepo) DenyAtomic(
	ctx context.Context,
	reqID, denierID uuid.UUID,
	reason string,
	expectedVersion int64,
) (*models.VacationRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectVacationRequest()+" WHERE id=$1 FOR UPDATE", reqID)
	req, err := scanVacationRequest(row)
	if err != nil {
		return nil, err
	}
	if req == nil {
		err = pgx.ErrNoRows
		return nil, err
	}
	if req.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return req, err
	}
	if req.Status != models.VacationStatusPending {
		err = utils.ErrWrongStatus
		return req, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE vacation_requests
        SET status='DENIED',
            denied_by_id=$1,
            denied_at=NOW(),
            denial_reason=$2,
            row_version=row_version+1,
            updated_at=NOW()
        WHERE id=$3
    `, denierID, reason, reqID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectVacationRequest()+" WHERE id=$1", reqID)
	return scanVacationRequest(newRow)
}

func (r *vacationRequestRepo) CancelAtomic(
	ctx context.Context,
	reqID, cancellerID uuid.UUID,
	reason string,
	expectedVersion int64,
	creditDays int,
) (*models.VacationRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectVacationRequest()+" WHERE id=$1 FOR UPDATE", reqID)
	req, err := scanVacationRequest(row)
	if err != nil {
		return nil, err
	}
	if req == nil {
		err = pgx.ErrNoRows
		return nil, err
	}
	if req.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return req, err
	}
	if req.Status != models.VacationStatusPending && req.Status != models.VacationStatusApproved {
		err = utils.ErrNotCancellable
		return req, err
	}

	wasApproved := req.Status == models.VacationStatusApproved

	_, err = tx.Exec(ctx, `
        UPDATE vacation_requests
        SET status='CANCELLED',
            cancelled_by_id=$1,
            cancelled_at=NOW(),
            cancellation_reason=$2,
            row_version=row_version+1,
            updated_at=NOW()
        WHERE id=$3
    `, cancellerID, reason, reqID)
	if err != nil {
		return nil, err
	}

	// Credit only undoes a debit: a cancelled pending request never
	// touched the balance.
	if wasApproved && creditDays > 0 {
		if _, err = tx.Exec(ctx, `
            UPDATE employees
            SET remaining_vacation_days = remaining_vacation_days + $1,
                row_version = row_version + 1,
                updated_at = NOW()
            WHERE id = $2
        `, creditDays, req.EmployeeID); err != nil {
			return nil, err
		}
	}

	newRow := tx.QueryRow(ctx, baseSelectVacationRequest()+" WHERE id=$1", reqID)
	return scanVacationRequest(newRow)
}
