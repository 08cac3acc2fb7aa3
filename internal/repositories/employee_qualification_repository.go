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

type EmployeeQualificationRepository interface {
	Create(ctx context.Context, eq *models.EmployeeQualification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.EmployeeQualification, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*models.EmployeeQualification, error)
	GetByEmployeeAndCode(ctx context.Context, employeeID uuid.UUID, code string) (*models.EmployeeQualification, error)

	ListExpiringWithin(ctx context.Context, from time.Time, days int) ([]*models.EmployeeQualification, error)
	ListByStatus(ctx context.Context, status models.CertificationStatusType) ([]*models.EmployeeQualification, error)
	ListAll(ctx context.Context) ([]*models.EmployeeQualification, error)

	// UpdateIfVersion persists a mutated row under optimistic locking;
	// used with WithRetry for verification and the daily status sweep.
	UpdateIfVersion(ctx context.Context, eq *models.EmployeeQualification, expectedVersion int64) (pgconn.CommandTag, error)
	GetByIDString(ctx context.Context, id string) (*models.EmployeeQualification, error)
}

type employeeQualificationRepo struct {
	db DB
}

func NewEmployeeQualificationRepository(db DB) EmployeeQualificationRepository {
	return &employeeQualificationRepo{db: db}
}

func baseSelectEmployeeQualification() string {
	return `
        SELECT
            eq.id, eq.employee_id, eq.qualification_id, q.code,
            eq.issue_date, eq.expiry_date, eq.certificate_number,
            eq.verified_by_id, eq.verified_at, eq.status,
            eq.row_version, eq.created_at, eq.updated_at
        FROM employee_qualifications eq
        JOIN qualifications q ON q.id = eq.qualification_id
    `
}

func scanEmployeeQualification(row pgx.Row) (*models.EmployeeQualification, error) {
	var eq models.EmployeeQualification
	err := row.Scan(
		&eq.ID,
		&eq.EmployeeID,
		&eq.QualificationID,
		&eq.QualificationCode,
		&eq.IssueDate,
		&eq.ExpiryDate,
		&eq.CertificateNumber,
		&eq.VerifiedByID,
		&eq.VerifiedAt,
		&eq.Status,
		&eq.RowVersion,
		&eq.CreatedAt,
		&eq.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &eq, nil
}

func (r *employeeQualificationRepo) Create(ctx context.Context, eq *models.EmployeeQualification) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO employee_qualifications (
            id, employee_id, qualification_id,
            issue_date, expiry_date, certificate_number,
            verified_by_id, verified_at, status,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW(),1
        )
    `,
		eq.ID,
		eq.EmployeeID,
		eq.QualificationID,
		eq.IssueDate,
		eq.ExpiryDate,
		eq.CertificateNumber,
		eq.VerifiedByID,
		eq.VerifiedAt,
		eq.Status,
	)
	return err
}

func (r *employeeQualificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.EmployeeQualification, error) {
	row := r.db.QueryRow(ctx, baseSelectEmployeeQualification()+" WHERE eq.id=$1", id)
	return scanEmployeeQualification(row)
}

func (r *employeeQualificationRepo) GetByIDString(ctx context.Context, id string) (*models.EmployeeQualification, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, parsed)
}

func (r *employeeQualificationRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*models.EmployeeQualification, error) {
	return r.list(ctx, baseSelectEmployeeQualification()+" WHERE eq.employee_id=$1 ORDER BY eq.issue_date DESC", employeeID)
}

func (r *employeeQualificationRepo) GetByEmployeeAndCode(ctx context.Context, employeeID uuid.UUID, code string) (*models.EmployeeQualification, error) {
	row := r.db.QueryRow(ctx, baseSelectEmployeeQualification()+`
        WHERE eq.employee_id=$1 AND q.code=$2
        ORDER BY eq.issue_date DESC
        LIMIT 1
    `, employeeID, code)
	return scanEmployeeQualification(row)
}

func (r *employeeQualificationRepo) ListExpiringWithin(ctx context.Context, from time.Time, days int) ([]*models.EmployeeQualification, error) {
	cutoff := from.AddDate(0, 0, days)
	return r.list(ctx, baseSelectEmployeeQualification()+`
        WHERE eq.expiry_date IS NOT NULL
          AND eq.expiry_date >= $1
          AND eq.expiry_date <= $2
        ORDER BY eq.expiry_date
    `, from.Format("2006-01-02"), cutoff.Format("2006-01-02"))
}

func (r *employeeQualificationRepo) ListByStatus(ctx context.Context, status models.CertificationStatusType) ([]*models.EmployeeQualification, error) {
	return r.list(ctx, baseSelectEmployeeQualification()+" WHERE eq.status=$1 ORDER BY eq.expiry_date NULLS LAST", status)
}

func (r *employeeQualificationRepo) ListAll(ctx context.Context) ([]*models.EmployeeQualification, error) {
	return r.list(ctx, baseSelectEmployeeQualification()+" ORDER BY eq.created_at")
}

func (r *employeeQualificationRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.EmployeeQualification, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.EmployeeQualification
	for rows.Next() {
		eq, err := scanEmployeeQualification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, eq)
	}
	return out, rows.Err()
}

func (r *employeeQualificationRepo) UpdateIfVersion(
	ctx context.Context,
	eq *models.EmployeeQualification,
	expectedVersion int64,
) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE employee_qualifications
        SET expiry_date=$1, certificate_number=$2,
            verified_by_id=$3, verified_at=$4, status=$5,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$6 AND row_version=$7
    `,
		eq.ExpiryDate,
		eq.CertificateNumber,
		eq.VerifiedByID,
		eq.VerifiedAt,
		eq.Status,
		eq.ID,
		expectedVersion,
	)
}
