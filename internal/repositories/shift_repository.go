package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/JuliusDeane-data/careplan/internal/models"
)

type ShiftRepository interface {
	Create(ctx context.Context, shift *models.Shift) error
	// CreateIfNotExists backs the idempotent template stamping;
	// (location_id, date, start_time, shift_type) is unique.
	CreateIfNotExists(ctx context.Context, shift *models.Shift) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Shift, error)
	// GetByIDWithAssignments loads the shift plus its assignment rows,
	// the shape the aggregate metrics operate on.
	GetByIDWithAssignments(ctx context.Context, id uuid.UUID) (*models.Shift, error)

	ListByLocationAndDateRange(ctx context.Context, locationID uuid.UUID, start, end time.Time, publishedOnly bool) ([]*models.Shift, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
}

type shiftRepo struct {
	db DB
}

func NewShiftRepository(db DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func baseSelectShift() string {
	return `
        SELECT
            id, location_id, shift_type, date, start_time, end_time,
            required_staff_count, required_rn_count, required_charge_nurse,
            notes, is_published, created_by_id,
            row_version, created_at, updated_at
        FROM shifts
    `
}

func scanShift(row pgx.Row) (*models.Shift, error) {
	var s models.Shift
	err := row.Scan(
		&s.ID,
		&s.LocationID,
		&s.ShiftType,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.RequiredStaffCount,
		&s.RequiredRNCount,
		&s.RequiredChargeNurse,
		&s.Notes,
		&s.IsPublished,
		&s.CreatedByID,
		&s.RowVersion,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

const insertShiftSQL = `
        INSERT INTO shifts (
            id, location_id, shift_type, date, start_time, end_time,
            required_staff_count, required_rn_count, required_charge_nurse,
            notes, is_published, created_by_id,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW(),NOW(),1
        )`

func insertShiftArgs(s *models.Shift) []interface{} {
	return []interface{}{
		s.ID,
		s.LocationID,
		s.ShiftType,
		s.Date.Format("2006-01-02"),
		s.StartTime.Format("15:04"),
		s.EndTime.Format("15:04"),
		s.RequiredStaffCount,
		s.RequiredRNCount,
		s.RequiredChargeNurse,
		s.Notes,
		s.IsPublished,
		s.CreatedByID,
	}
}

func (r *shiftRepo) Create(ctx context.Context, shift *models.Shift) error {
	_, err := r.db.Exec(ctx, insertShiftSQL, insertShiftArgs(shift)...)
	return err
}

func (r *shiftRepo) CreateIfNotExists(ctx context.Context, shift *models.Shift) error {
	_, err := r.db.Exec(ctx,
		insertShiftSQL+" ON CONFLICT (location_id, date, start_time, shift_type) DO NOTHING",
		insertShiftArgs(shift)...)
	return err
}

func (r *shiftRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	row := r.db.QueryRow(ctx, baseSelectShift()+" WHERE id=$1", id)
	return scanShift(row)
}

func (r *shiftRepo) GetByIDWithAssignments(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	shift, err := r.GetByID(ctx, id)
	if err != nil || shift == nil {
		return shift, err
	}

	rows, err := r.db.Query(ctx, baseSelectAssignment()+" WHERE shift_id=$1 ORDER BY assigned_at", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		shift.Assignments = append(shift.Assignments, a)
	}
	return shift, rows.Err()
}

func (r *shiftRepo) ListByLocationAndDateRange(
	ctx context.Context,
	locationID uuid.UUID,
	start, end time.Time,
	publishedOnly bool,
) ([]*models.Shift, error) {
	q := baseSelectShift() + `
        WHERE location_id=$1
          AND date >= $2 AND date <= $3
    `
	if publishedOnly {
		q += " AND is_published"
	}
	q += " ORDER BY date, start_time"

	rows, err := r.db.Query(ctx, q, locationID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *shiftRepo) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE shifts
        SET is_published=$1, row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, published, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
