package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/JuliusDeane-data/careplan/internal/models"
)

type ShiftTemplateRepository interface {
	Create(ctx context.Context, t *models.ShiftTemplate) error
	CreateIfNotExists(ctx context.Context, t *models.ShiftTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ShiftTemplate, error)
	ListActiveByLocation(ctx context.Context, locationID uuid.UUID) ([]*models.ShiftTemplate, error)
	ListAllActive(ctx context.Context) ([]*models.ShiftTemplate, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type shiftTemplateRepo struct {
	db DB
}

func NewShiftTemplateRepository(db DB) ShiftTemplateRepository {
	return &shiftTemplateRepo{db: db}
}

func baseSelectShiftTemplate() string {
	return `
        SELECT
            id, name, location_id, day_of_week, shift_type,
            start_time, end_time,
            required_staff_count, required_rn_count, required_charge_nurse,
            is_active, created_by_id,
            row_version, created_at, updated_at
        FROM shift_templates
    `
}

func scanShiftTemplate(row pgx.Row) (*models.ShiftTemplate, error) {
	var t models.ShiftTemplate
	var dow int
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.LocationID,
		&dow,
		&t.ShiftType,
		&t.StartTime,
		&t.EndTime,
		&t.RequiredStaffCount,
		&t.RequiredRNCount,
		&t.RequiredChargeNurse,
		&t.IsActive,
		&t.CreatedByID,
		&t.RowVersion,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t.DayOfWeek = time.Weekday(dow)
	return &t, nil
}

func insertShiftTemplateSQL(conflictClause string) string {
	return `
        INSERT INTO shift_templates (
            id, name, location_id, day_of_week, shift_type,
            start_time, end_time,
            required_staff_count, required_rn_count, required_charge_nurse,
            is_active, created_by_id,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW(),NOW(),1
        )
    ` + conflictClause
}

func insertShiftTemplateArgs(t *models.ShiftTemplate) []interface{} {
	return []interface{}{
		t.ID,
		t.Name,
		t.LocationID,
		int(t.DayOfWeek),
		t.ShiftType,
		t.StartTime.Format("15:04"),
		t.EndTime.Format("15:04"),
		t.RequiredStaffCount,
		t.RequiredRNCount,
		t.RequiredChargeNurse,
		t.IsActive,
		t.CreatedByID,
	}
}

func (r *shiftTemplateRepo) Create(ctx context.Context, t *models.ShiftTemplate) error {
	_, err := r.db.Exec(ctx, insertShiftTemplateSQL(""), insertShiftTemplateArgs(t)...)
	return err
}

func (r *shiftTemplateRepo) CreateIfNotExists(ctx context.Context, t *models.ShiftTemplate) error {
	_, err := r.db.Exec(ctx,
		insertShiftTemplateSQL(" ON CONFLICT (id) DO NOTHING"),
		insertShiftTemplateArgs(t)...,
	)
	return err
}

func (r *shiftTemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ShiftTemplate, error) {
	row := r.db.QueryRow(ctx, baseSelectShiftTemplate()+" WHERE id=$1", id)
	return scanShiftTemplate(row)
}

func (r *shiftTemplateRepo) ListActiveByLocation(ctx context.Context, locationID uuid.UUID) ([]*models.ShiftTemplate, error) {
	rows, err := r.db.Query(ctx,
		baseSelectShiftTemplate()+" WHERE location_id=$1 AND is_active ORDER BY day_of_week, start_time",
		locationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectShiftTemplates(rows)
}

func (r *shiftTemplateRepo) ListAllActive(ctx context.Context) ([]*models.ShiftTemplate, error) {
	rows, err := r.db.Query(ctx,
		baseSelectShiftTemplate()+" WHERE is_active ORDER BY location_id, day_of_week, start_time",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectShiftTemplates(rows)
}

func (r *shiftTemplateRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE shift_templates
        SET is_active=$1, row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectShiftTemplates(rows pgx.Rows) ([]*models.ShiftTemplate, error) {
	var out []*models.ShiftTemplate
	for rows.Next() {
		t, err := scanShiftTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
