package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/JuliusDeane-data/careplan/internal/models"
)

type LocationRepository interface {
	Create(ctx context.Context, loc *models.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	ListActive(ctx context.Context) ([]*models.Location, error)
	ListAll(ctx context.Context) ([]*models.Location, error)
	Update(ctx context.Context, loc *models.Location) error
}

type locationRepo struct {
	db DB
}

func NewLocationRepository(db DB) LocationRepository {
	return &locationRepo{db: db}
}

func baseSelectLocation() string {
	return `
        SELECT
            id, name, address, city, postal_code, country,
            phone, email, max_capacity, manager_id,
            latitude, longitude, time_zone, is_active,
            row_version, created_at, updated_at
        FROM locations
    `
}

func scanLocation(row pgx.Row) (*models.Location, error) {
	var loc models.Location
	err := row.Scan(
		&loc.ID,
		&loc.Name,
		&loc.Address,
		&loc.City,
		&loc.PostalCode,
		&loc.Country,
		&loc.Phone,
		&loc.Email,
		&loc.MaxCapacity,
		&loc.ManagerID,
		&loc.Latitude,
		&loc.Longitude,
		&loc.TimeZone,
		&loc.IsActive,
		&loc.RowVersion,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepo) Create(ctx context.Context, loc *models.Location) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO locations (
            id, name, address, city, postal_code, country,
            phone, email, max_capacity, manager_id,
            latitude, longitude, time_zone, is_active,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW(),NOW(),1
        )
    `,
		loc.ID,
		loc.Name,
		loc.Address,
		loc.City,
		loc.PostalCode,
		loc.Country,
		loc.Phone,
		loc.Email,
		loc.MaxCapacity,
		loc.ManagerID,
		loc.Latitude,
		loc.Longitude,
		loc.TimeZone,
		loc.IsActive,
	)
	return err
}

func (r *locationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	row := r.db.QueryRow(ctx, baseSelectLocation()+" WHERE id=$1", id)
	return scanLocation(row)
}

func (r *locationRepo) ListActive(ctx context.Context) ([]*models.Location, error) {
	return r.list(ctx, baseSelectLocation()+" WHERE is_active=TRUE ORDER BY name")
}

func (r *locationRepo) ListAll(ctx context.Context) ([]*models.Location, error) {
	return r.list(ctx, baseSelectLocation()+" ORDER BY name")
}

func (r *locationRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Location, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

func (r *locationRepo) Update(ctx context.Context, loc *models.Location) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE locations
        SET name=$1, address=$2, city=$3, postal_code=$4, country=$5,
            phone=$6, email=$7, max_capacity=$8, manager_id=$9,
            latitude=$10, longitude=$11, time_zone=$12, is_active=$13,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$14 AND row_version=$15
    `,
		loc.Name,
		loc.Address,
		loc.City,
		loc.PostalCode,
		loc.Country,
		loc.Phone,
		loc.Email,
		loc.MaxCapacity,
		loc.ManagerID,
		loc.Latitude,
		loc.Longitude,
		loc.TimeZone,
		loc.IsActive,
		loc.ID,
		loc.RowVersion,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
