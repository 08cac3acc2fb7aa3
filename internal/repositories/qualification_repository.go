package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/JuliusDeane-data/careplan/internal/models"
)

type QualificationRepository interface {
	Create(ctx context.Context, q *models.Qualification) error
	CreateIfNotExists(ctx context.Context, q *models.Qualification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Qualification, error)
	GetByCode(ctx context.Context, code string) (*models.Qualification, error)
	ListActive(ctx context.Context) ([]*models.Qualification, error)
}

type qualificationRepo struct {
	db DB
}

func NewQualificationRepository(db DB) QualificationRepository {
	return &qualificationRepo{db: db}
}

func baseSelectQualification() string {
	return `
        SELECT
            id, code, name, description, category, is_required,
            renewal_period_months, issuing_organization, is_active,
            row_version, created_at, updated_at
        FROM qualifications
    `
}

func scanQualification(row pgx.Row) (*models.Qualification, error) {
	var q models.Qualification
	err := row.Scan(
		&q.ID,
		&q.Code,
		&q.Name,
		&q.Description,
		&q.Category,
		&q.IsRequired,
		&q.RenewalPeriodMonths,
		&q.IssuingOrganization,
		&q.IsActive,
		&q.RowVersion,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *qualificationRepo) Create(ctx context.Context, q *models.Qualification) error {
	_, err := r.db.Exec(ctx, insertQualificationSQL, insertQualificationArgs(q)...)
	return err
}

func (r *qualificationRepo) CreateIfNotExists(ctx context.Context, q *models.Qualification) error {
	_, err := r.db.Exec(ctx, insertQualificationSQL+" ON CONFLICT (code) DO NOTHING", insertQualificationArgs(q)...)
	return err
}

const insertQualificationSQL = `
        INSERT INTO qualifications (
            id, code, name, description, category, is_required,
            renewal_period_months, issuing_organization, is_active,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW(),1
        )`

func insertQualificationArgs(q *models.Qualification) []interface{} {
	return []interface{}{
		q.ID,
		q.Code,
		q.Name,
		q.Description,
		q.Category,
		q.IsRequired,
		q.RenewalPeriodMonths,
		q.IssuingOrganization,
		q.IsActive,
	}
}

func (r *qualificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Qualification, error) {
	row := r.db.QueryRow(ctx, baseSelectQualification()+" WHERE id=$1", id)
	return scanQualification(row)
}

func (r *qualificationRepo) GetByCode(ctx context.Context, code string) (*models.Qualification, error) {
	row := r.db.QueryRow(ctx, baseSelectQualification()+" WHERE code=$1", code)
	return scanQualification(row)
}

func (r *qualificationRepo) ListActive(ctx context.Context) ([]*models.Qualification, error) {
	rows, err := r.db.Query(ctx, baseSelectQualification()+" WHERE is_active=TRUE ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Qualification
	for rows.Next() {
		q, err := scanQualification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
