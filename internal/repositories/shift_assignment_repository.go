package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/JuliusDeane-data/careplan/internal/models"
)

// ErrDuplicateAssignment is raised when an assignment already exists
// for the same (shift, employee) pair, whether detected by the
// application-level check or the unique-constraint backstop.
var ErrDuplicateAssignment = errors.New("duplicate_assignment")

type ShiftAssignmentRepository interface {
	// CreateAtomic inserts after advisory-locking the employee row so
	// the temporal checks the service just ran cannot be raced by a
	// concurrent assignment for the same employee. Unique violations on
	// (shift_id, employee_id) surface as ErrDuplicateAssignment.
	CreateAtomic(ctx context.Context, a *models.ShiftAssignment) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.ShiftAssignment, error)
	ExistsForShiftAndEmployee(ctx context.Context, shiftID, employeeID uuid.UUID, excludeID *uuid.UUID) (bool, error)
	ListByShift(ctx context.Context, shiftID uuid.UUID) ([]*models.ShiftAssignment, error)

	// ListForEmployeeBetweenDates loads the employee's assignments with
	// their shifts for [start, end], filtered by status. The rest-period
	// and consecutive-nights validators read through this.
	ListForEmployeeBetweenDates(
		ctx context.Context,
		employeeID uuid.UUID,
		start, end time.Time,
		statuses []models.AssignmentStatusType,
	) ([]*models.ShiftAssignment, error)

	// UpdateStatusIfVersion backs the optimistic-retry loop for
	// confirm / cancel / no-show transitions.
	UpdateStatusIfVersion(ctx context.Context, a *models.ShiftAssignment, expectedVersion int64) (pgconn.CommandTag, error)
	GetByIDString(ctx context.Context, id string) (*models.ShiftAssignment, error)
}

type shiftAssignmentRepo struct {
	db DB
}

func NewShiftAssignmentRepository(db DB) ShiftAssignmentRepository {
	return &shiftAssignmentRepo{db: db}
}

func baseSelectAssignment() string {
	return `
        SELECT
            id, shift_id, employee_id, role, status,
            assigned_by_id, assigned_at, notes,
            row_version, created_at, updated_at
        FROM shift_assignments
    `
}

func scanAssignment(row pgx.Row) (*models.ShiftAssignment, error) {
	var a models.ShiftAssignment
	err := row.Scan(
		&a.ID,
		&a.ShiftID,
		&a.EmployeeID,
		&a.Role,
		&a.Status,
		&a.AssignedByID,
		&a.AssignedAt,
		&a.Notes,
		&a.RowVersion,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *shiftAssignmentRepo) CreateAtomic(ctx context.Context, a *models.ShiftAssignment) error {
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

	if _, err = tx.Exec(ctx, `SELECT 1 FROM employees WHERE id=$1 FOR UPDATE`, a.EmployeeID); err != nil {
		return err
	}

	var exists bool
	err = tx.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM shift_assignments
            WHERE shift_id=$1 AND employee_id=$2
        )
    `, a.ShiftID, a.EmployeeID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		err = ErrDuplicateAssignment
		return err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO shift_assignments (
            id, shift_id, employee_id, role, status,
            assigned_by_id, assigned_at, notes,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW(),1
        )
    `,
		a.ID,
		a.ShiftID,
		a.EmployeeID,
		a.Role,
		a.Status,
		a.AssignedByID,
		a.AssignedAt,
		a.Notes,
	)
	if err != nil && IsUniqueViolation(err) {
		err = ErrDuplicateAssignment
	}
	return err
}

func (r *shiftAssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ShiftAssignment, error) {
	row := r.db.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1", id)
	return scanAssignment(row)
}

func (r *shiftAssignmentRepo) GetByIDString(ctx context.Context, id string) (*models.ShiftAssignment, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, parsed)
}

func (r *shiftAssignmentRepo) ExistsForShiftAndEmployee(
	ctx context.Context,
	shiftID, employeeID uuid.UUID,
	excludeID *uuid.UUID,
) (bool, error) {
	q := `
        SELECT EXISTS (
            SELECT 1 FROM shift_assignments
            WHERE shift_id=$1 AND employee_id=$2
    `
	args := []interface{}{shiftID, employeeID}
	if excludeID != nil {
		q += " AND id <> $3"
		args = append(args, *excludeID)
	}
	q += ")"

	var exists bool
	err := r.db.QueryRow(ctx, q, args...).Scan(&exists)
	return exists, err
}

func (r *shiftAssignmentRepo) ListByShift(ctx context.Context, shiftID uuid.UUID) ([]*models.ShiftAssignment, error) {
	rows, err := r.db.Query(ctx, baseSelectAssignment()+" WHERE shift_id=$1 ORDER BY assigned_at", shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ShiftAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *shiftAssignmentRepo) ListForEmployeeBetweenDates(
	ctx context.Context,
	employeeID uuid.UUID,
	start, end time.Time,
	statuses []models.AssignmentStatusType,
) ([]*models.ShiftAssignment, error) {
	stStrings := make([]string, 0, len(statuses))
	for _, st := range statuses {
		stStrings = append(stStrings, string(st))
	}

	rows, err := r.db.Query(ctx, `
        SELECT
            a.id, a.shift_id, a.employee_id, a.role, a.status,
            a.assigned_by_id, a.assigned_at, a.notes,
            a.row_version, a.created_at, a.updated_at,
            s.id, s.location_id, s.shift_type, s.date, s.start_time, s.end_time,
            s.required_staff_count, s.required_rn_count, s.required_charge_nurse,
            s.notes, s.is_published, s.created_by_id,
            s.row_version, s.created_at, s.updated_at
        FROM shift_assignments a
        JOIN shifts s ON s.id = a.shift_id
        WHERE a.employee_id=$1
          AND s.date >= $2 AND s.date <= $3
          AND a.status = ANY($4)
        ORDER BY s.date, s.start_time
    `, employeeID, start.Format("2006-01-02"), end.Format("2006-01-02"), stStrings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ShiftAssignment
	for rows.Next() {
		var a models.ShiftAssignment
		var s models.Shift
		err := rows.Scan(
			&a.ID, &a.ShiftID, &a.EmployeeID, &a.Role, &a.Status,
			&a.AssignedByID, &a.AssignedAt, &a.Notes,
			&a.RowVersion, &a.CreatedAt, &a.UpdatedAt,
			&s.ID, &s.LocationID, &s.ShiftType, &s.Date, &s.StartTime, &s.EndTime,
			&s.RequiredStaffCount, &s.RequiredRNCount, &s.RequiredChargeNurse,
			&s.Notes, &s.IsPublished, &s.CreatedByID,
			&s.RowVersion, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		a.Shift = &s
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *shiftAssignmentRepo) UpdateStatusIfVersion(
	ctx context.Context,
	a *models.ShiftAssignment,
	expectedVersion int64,
) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE shift_assignments
        SET status=$1, notes=$2,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$3 AND row_version=$4
    `, a.Status, a.Notes, a.ID, expectedVersion)
}
