package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/JuliusDeane-data/careplan/internal/models"
)

type PublicHolidayRepository interface {
	Create(ctx context.Context, h *models.PublicHoliday) error
	CreateIfNotExists(ctx context.Context, h *models.PublicHoliday) error

	// IsHoliday matches stored rows only: a nationwide row for the exact
	// date, or a row scoped to the given location. With a nil location
	// only nationwide rows match.
	IsHoliday(ctx context.Context, date time.Time, locationID *uuid.UUID) (bool, error)

	ListBetween(ctx context.Context, start, end time.Time, locationID *uuid.UUID) ([]*models.PublicHoliday, error)
	ListForYear(ctx context.Context, year int, locationID *uuid.UUID) ([]*models.PublicHoliday, error)
	ListRecurring(ctx context.Context) ([]*models.PublicHoliday, error)
}

type publicHolidayRepo struct {
	db DB
}

func NewPublicHolidayRepository(db DB) PublicHolidayRepository {
	return &publicHolidayRepo{db: db}
}

func baseSelectHoliday() string {
	return `
        SELECT
            id, date, name, description,
            location_id, is_nationwide,
            is_recurring, recurring_month, recurring_day,
            row_version, created_at, updated_at
        FROM public_holidays
    `
}

func scanHoliday(row pgx.Row) (*models.PublicHoliday, error) {
	var h models.PublicHoliday
	err := row.Scan(
		&h.ID,
		&h.Date,
		&h.Name,
		&h.Description,
		&h.LocationID,
		&h.IsNationwide,
		&h.IsRecurring,
		&h.RecurringMonth,
		&h.RecurringDay,
		&h.RowVersion,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

const insertHolidaySQL = `
        INSERT INTO public_holidays (
            id, date, name, description,
            location_id, is_nationwide,
            is_recurring, recurring_month, recurring_day,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW(),1
        )`

func insertHolidayArgs(h *models.PublicHoliday) []interface{} {
	return []interface{}{
		h.ID,
		h.Date.Format("2006-01-02"),
		h.Name,
		h.Description,
		h.LocationID,
		h.IsNationwide,
		h.IsRecurring,
		h.RecurringMonth,
		h.RecurringDay,
	}
}

func (r *publicHolidayRepo) Create(ctx context.Context, h *models.PublicHoliday) error {
	_, err := r.db.Exec(ctx, insertHolidaySQL, insertHolidayArgs(h)...)
	return err
}

// CreateIfNotExists is the idempotent insert the per-year expansion
// relies on; (date, location_id) is unique.
func (r *publicHolidayRepo) CreateIfNotExists(ctx context.Context, h *models.PublicHoliday) error {
	_, err := r.db.Exec(ctx, insertHolidaySQL+" ON CONFLICT (date, location_id) DO NOTHING", insertHolidayArgs(h)...)
	return err
}

func (r *publicHolidayRepo) IsHoliday(ctx context.Context, date time.Time, locationID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if locationID != nil {
		err = r.db.QueryRow(ctx, `
            SELECT EXISTS (
                SELECT 1 FROM public_holidays
                WHERE date=$1 AND (is_nationwide OR location_id=$2)
            )
        `, date.Format("2006-01-02"), *locationID).Scan(&exists)
	} else {
		err = r.db.QueryRow(ctx, `
            SELECT EXISTS (
                SELECT 1 FROM public_holidays
                WHERE date=$1 AND is_nationwide
            )
        `, date.Format("2006-01-02")).Scan(&exists)
	}
	return exists, err
}

func (r *publicHolidayRepo) ListBetween(ctx context.Context, start, end time.Time, locationID *uuid.UUID) ([]*models.PublicHoliday, error) {
	if locationID != nil {
		return r.list(ctx, baseSelectHoliday()+`
            WHERE date >= $1 AND date <= $2
              AND (is_nationwide OR location_id=$3)
            ORDER BY date
        `, start.Format("2006-01-02"), end.Format("2006-01-02"), *locationID)
	}
	return r.list(ctx, baseSelectHoliday()+`
        WHERE date >= $1 AND date <= $2 AND is_nationwide
        ORDER BY date
    `, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func (r *publicHolidayRepo) ListForYear(ctx context.Context, year int, locationID *uuid.UUID) ([]*models.PublicHoliday, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return r.ListBetween(ctx, start, end, locationID)
}

func (r *publicHolidayRepo) ListRecurring(ctx context.Context) ([]*models.PublicHoliday, error) {
	return r.list(ctx, baseSelectHoliday()+" WHERE is_recurring ORDER BY recurring_month, recurring_day")
}

func (r *publicHolidayRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.PublicHoliday, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PublicHoliday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
