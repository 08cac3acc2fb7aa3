package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/JuliusDeane-data/careplan/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
	MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error)

	GetPreference(ctx context.Context, employeeID uuid.UUID) (*models.NotificationPreference, error)
	UpsertPreference(ctx context.Context, p *models.NotificationPreference) error
}

type notificationRepo struct {
	db DB
}

func NewNotificationRepository(db DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func baseSelectNotification() string {
	return `
        SELECT
            id, recipient_id, type, title, message,
            entity_kind, entity_id, action_url,
            is_read, read_at,
            row_version, created_at, updated_at
        FROM notifications
    `
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.Type,
		&n.Title,
		&n.Message,
		&n.EntityKind,
		&n.EntityID,
		&n.ActionURL,
		&n.IsRead,
		&n.ReadAt,
		&n.RowVersion,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO notifications (
            id, recipient_id, type, title, message,
            entity_kind, entity_id, action_url,
            is_read, read_at,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW(),1
        )
    `,
		n.ID,
		n.RecipientID,
		n.Type,
		n.Title,
		n.Message,
		n.EntityKind,
		n.EntityID,
		n.ActionURL,
		n.IsRead,
		n.ReadAt,
	)
	return err
}

func (r *notificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	row := r.db.QueryRow(ctx, baseSelectNotification()+" WHERE id=$1", id)
	return scanNotification(row)
}

func (r *notificationRepo) ListByRecipient(
	ctx context.Context,
	recipientID uuid.UUID,
	unreadOnly bool,
	limit int,
) ([]*models.Notification, error) {
	q := baseSelectNotification() + " WHERE recipient_id=$1"
	if unreadOnly {
		q += " AND NOT is_read"
	}
	q += " ORDER BY created_at DESC"
	args := []interface{}{recipientID}
	if limit > 0 {
		q += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id=$1 AND NOT is_read`,
		recipientID,
	).Scan(&count)
	return count, err
}

// MarkAsRead scopes by recipient so one employee cannot mark another's
// notification read.
func (r *notificationRepo) MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE notifications
        SET is_read=TRUE, read_at=NOW(),
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$1 AND recipient_id=$2 AND NOT is_read
    `, id, recipientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepo) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE notifications
        SET is_read=TRUE, read_at=NOW(),
            row_version=row_version+1, updated_at=NOW()
        WHERE recipient_id=$1 AND NOT is_read
    `, recipientID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *notificationRepo) GetPreference(ctx context.Context, employeeID uuid.UUID) (*models.NotificationPreference, error) {
	row := r.db.QueryRow(ctx, `
        SELECT
            id, employee_id, email_enabled, push_enabled,
            vacation_request_submitted, vacation_request_approved,
            vacation_request_denied, vacation_request_modified,
            vacation_request_cancelled,
            shift_assigned, shift_modified, profile_updated, system_message,
            quiet_hours_enabled, quiet_hours_start, quiet_hours_end,
            row_version, created_at, updated_at
        FROM notification_preferences
        WHERE employee_id=$1
    `, employeeID)

	var p models.NotificationPreference
	err := row.Scan(
		&p.ID,
		&p.EmployeeID,
		&p.EmailEnabled,
		&p.PushEnabled,
		&p.VacationRequestSubmitted,
		&p.VacationRequestApproved,
		&p.VacationRequestDenied,
		&p.VacationRequestModified,
		&p.VacationRequestCancelled,
		&p.ShiftAssigned,
		&p.ShiftModified,
		&p.ProfileUpdated,
		&p.SystemMessage,
		&p.QuietHoursEnabled,
		&p.QuietHoursStart,
		&p.QuietHoursEnd,
		&p.RowVersion,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *notificationRepo) UpsertPreference(ctx context.Context, p *models.NotificationPreference) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO notification_preferences (
            id, employee_id, email_enabled, push_enabled,
            vacation_request_submitted, vacation_request_approved,
            vacation_request_denied, vacation_request_modified,
            vacation_request_cancelled,
            shift_assigned, shift_modified, profile_updated, system_message,
            quiet_hours_enabled, quiet_hours_start, quiet_hours_end,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,NOW(),NOW(),1
        )
        ON CONFLICT (employee_id) DO UPDATE SET
            email_enabled=EXCLUDED.email_enabled,
            push_enabled=EXCLUDED.push_enabled,
            vacation_request_submitted=EXCLUDED.vacation_request_submitted,
            vacation_request_approved=EXCLUDED.vacation_request_approved,
            vacation_request_denied=EXCLUDED.vacation_request_denied,
            vacation_request_modified=EXCLUDED.vacation_request_modified,
            vacation_request_cancelled=EXCLUDED.vacation_request_cancelled,
            shift_assigned=EXCLUDED.shift_assigned,
            shift_modified=EXCLUDED.shift_modified,
            profile_updated=EXCLUDED.profile_updated,
            system_message=EXCLUDED.system_message,
            quiet_hours_enabled=EXCLUDED.quiet_hours_enabled,
            quiet_hours_start=EXCLUDED.quiet_hours_start,
            quiet_hours_end=EXCLUDED.quiet_hours_end,
            row_version=notification_preferences.row_version+1,
            updated_at=NOW()
    `,
		p.ID,
		p.EmployeeID,
		p.EmailEnabled,
		p.PushEnabled,
		p.VacationRequestSubmitted,
		p.VacationRequestApproved,
		p.VacationRequestDenied,
		p.VacationRequestModified,
		p.VacationRequestCancelled,
		p.ShiftAssigned,
		p.ShiftModified,
		p.ProfileUpdated,
		p.SystemMessage,
		p.QuietHoursEnabled,
		p.QuietHoursStart.Format("15:04"),
		p.QuietHoursEnd.Format("15:04"),
	)
	return err
}
