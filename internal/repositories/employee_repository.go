package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/JuliusDeane-data/careplan/internal/models"
)

type EmployeeRepository interface {
	Create(ctx context.Context, emp *models.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*models.Employee, error)
	ListAll(ctx context.Context) ([]*models.Employee, error)

	// AdjustVacationBalanceTx applies a balance delta inside the callers
	// transaction; the ledger only ever calls this from an approve or
	// cancel transition.
	AdjustVacationBalanceTx(ctx context.Context, tx pgx.Tx, employeeID uuid.UUID, deltaDays int) error

	// GetByIDForUpdateTx row-locks the employee inside the callers
	// transaction, serializing validate-then-write sequences per employee.
	GetByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Employee, error)
}

type employeeRepo struct {
	db DB
}

func NewEmployeeRepository(db DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func baseSelectEmployee() string {
	return `
        SELECT
            id, employee_id, role,
            first_name, last_name, email, phone,
            hire_date, employment_status, job_title,
            primary_location_id, supervisor_id,
            annual_vacation_days, remaining_vacation_days,
            row_version, created_at, updated_at
        FROM employees
    `
}

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var emp models.Employee
	err := row.Scan(
		&emp.ID,
		&emp.EmployeeID,
		&emp.Role,
		&emp.FirstName,
		&emp.LastName,
		&emp.Email,
		&emp.Phone,
		&emp.HireDate,
		&emp.EmploymentStatus,
		&emp.JobTitle,
		&emp.PrimaryLocationID,
		&emp.SupervisorID,
		&emp.AnnualVacationDays,
		&emp.RemainingVacationDays,
		&emp.RowVersion,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) Create(ctx context.Context, emp *models.Employee) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO employees (
            id, employee_id, role,
            first_name, last_name, email, phone,
            hire_date, employment_status, job_title,
            primary_location_id, supervisor_id,
            annual_vacation_days, remaining_vacation_days,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW(),NOW(),1
        )
    `,
		emp.ID,
		emp.EmployeeID,
		emp.Role,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		emp.Phone,
		emp.HireDate,
		emp.EmploymentStatus,
		emp.JobTitle,
		emp.PrimaryLocationID,
		emp.SupervisorID,
		emp.AnnualVacationDays,
		emp.RemainingVacationDays,
	)
	return err
}

func (r *employeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	row := r.db.QueryRow(ctx, baseSelectEmployee()+" WHERE id=$1", id)
	return scanEmployee(row)
}

func (r *employeeRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	row := r.db.QueryRow(ctx, baseSelectEmployee()+" WHERE employee_id=$1", employeeID)
	return scanEmployee(row)
}

func (r *employeeRepo) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]*models.Employee, error) {
	rows, err := r.db.Query(ctx, baseSelectEmployee()+" WHERE primary_location_id=$1 ORDER BY employee_id", locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (r *employeeRepo) ListAll(ctx context.Context) ([]*models.Employee, error) {
	rows, err := r.db.Query(ctx, baseSelectEmployee()+" ORDER BY employee_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (r *employeeRepo) AdjustVacationBalanceTx(ctx context.Context, tx pgx.Tx, employeeID uuid.UUID, deltaDays int) error {
	tag, err := tx.Exec(ctx, `
        UPDATE employees
        SET remaining_vacation_days = remaining_vacation_days + $1,
            row_version = row_version + 1,
            updated_at = NOW()
        WHERE id = $2
    `, deltaDays, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepo) GetByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Employee, error) {
	row := tx.QueryRow(ctx, baseSelectEmployee()+" WHERE id=$1 FOR UPDATE", id)
	return scanEmployee(row)
}
